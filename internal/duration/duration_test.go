package duration_test

import (
	"testing"

	"github.com/Tiliavir/tsheet/internal/duration"
)

func TestFormatProgressive(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "00:00"},
		{"5", "00:05"},
		{"45", "00:45"},
		{"145", "01:45"},
		{"1145", "11:45"},
		{"91145", "11:45"},
		{"99", "00:99"},
		{"1a4b5", "01:45"},
		{"abc", "00:00"},
	}
	for _, tt := range tests {
		got := duration.FormatProgressive(tt.raw)
		if got != tt.want {
			t.Errorf("FormatProgressive(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "00:00"},
		{"5", "05:00"},
		{"12", "12:00"},
		{"145", "01:45"},
		{"1:45", "01:45"},
		{"11:45", "11:45"},
		{"2h30", "02:30"},
		{"100:00", "100:00"},
		{"01:75", "02:15"},
		{"--", "00:00"},
		{"1234567890123456789", "00:00"},
	}
	for _, tt := range tests {
		got := duration.Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeAndProgressiveDiffer(t *testing.T) {
	if got := duration.Normalize("5"); got != "05:00" {
		t.Errorf("Normalize(%q) = %q, want %q", "5", got, "05:00")
	}
	if got := duration.FormatProgressive("5"); got != "00:05" {
		t.Errorf("FormatProgressive(%q) = %q, want %q", "5", got, "00:05")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for m := 0; m < 200*60; m += 7 {
		d := duration.FromMinutes(m)
		once := duration.Normalize(d)
		if once != d {
			t.Fatalf("Normalize(%q) = %q, want canonical input unchanged", d, once)
		}
		if twice := duration.Normalize(once); twice != once {
			t.Fatalf("Normalize(Normalize(%q)) = %q, want %q", d, twice, once)
		}
	}
}

func TestToMinutes(t *testing.T) {
	tests := []struct {
		d    string
		want int
	}{
		{"00:00", 0},
		{"02:30", 150},
		{"100:01", 6001},
		{"", 0},
		{"abc", 0},
		{"xx:15", 15},
		{"3:yy", 180},
		{"-1:30", 0},
		{"-05:30", 0},
		{"-00:30", 0},
		{"01:-15", 0},
		{" 01:05 ", 65},
	}
	for _, tt := range tests {
		got := duration.ToMinutes(tt.d)
		if got != tt.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestFromMinutes(t *testing.T) {
	tests := []struct {
		m    int
		want string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{225, "03:45"},
		{6000, "100:00"},
		{-10, "00:00"},
	}
	for _, tt := range tests {
		got := duration.FromMinutes(tt.m)
		if got != tt.want {
			t.Errorf("FromMinutes(%d) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, m := range []int{0, 1, 59, 60, 61, 599, 600, 1439, 1440, 99 * 60, 12345, 1 << 30} {
		if got := duration.ToMinutes(duration.FromMinutes(m)); got != m {
			t.Errorf("ToMinutes(FromMinutes(%d)) = %d", m, got)
		}
	}
}

func TestSum(t *testing.T) {
	if got := duration.Sum(); got != "00:00" {
		t.Errorf("Sum() = %q, want %q", got, "00:00")
	}
	a, b, c := "01:45", "00:30", "12:59"
	if got := duration.Sum(a, b, c); got != "15:14" {
		t.Errorf("Sum(%q, %q, %q) = %q, want %q", a, b, c, got, "15:14")
	}
	if duration.Sum(a, b, c) != duration.Sum(c, a, b) {
		t.Error("Sum is not order independent")
	}
	if got := duration.Sum("bad", "01:00", ""); got != "01:00" {
		t.Errorf("Sum with malformed input = %q, want %q", got, "01:00")
	}
}

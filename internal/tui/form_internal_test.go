package tui

import "testing"

func TestRequired(t *testing.T) {
	check := required("project")
	if err := check("  "); err == nil {
		t.Error("required accepted blank input")
	}
	if err := check("ECM"); err != nil {
		t.Errorf("required(%q) = %v", "ECM", err)
	}
}

func TestNewEntryFormDefaultsDay(t *testing.T) {
	var fm EntryForm
	if f := NewEntryForm([]string{"Mon, 23 Feb", "Tue, 24 Feb"}, &fm); f == nil {
		t.Fatal("NewEntryForm returned nil")
	}
	if fm.Day != "Mon, 23 Feb" {
		t.Errorf("Day = %q, want first day", fm.Day)
	}

	fm = EntryForm{Day: "Tue, 24 Feb"}
	NewEntryForm([]string{"Mon, 23 Feb", "Tue, 24 Feb"}, &fm)
	if fm.Day != "Tue, 24 Feb" {
		t.Errorf("Day = %q, want preset kept", fm.Day)
	}
}

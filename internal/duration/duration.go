// Package duration converts between typed or stored "HH:MM" strings and minutes.
//
// Every function here is total: malformed input degrades to "00:00" or to a
// zero contribution, never to an error.
package duration

import (
	"fmt"
	"strconv"
	"strings"
)

// Zero is the canonical empty duration.
const Zero = "00:00"

// maxHourDigits bounds the hour part so hours*60 cannot overflow an int.
const maxHourDigits = 15

// digitsOnly returns s with every non-digit character removed.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatProgressive renders the digits typed so far into an HH:MM mask that
// fills from the right: "5" -> "00:05", "145" -> "01:45". Only the last four
// digits are kept. Minutes are not carried, the result is a display mask.
func FormatProgressive(raw string) string {
	d := digitsOnly(raw)
	if len(d) > 4 {
		d = d[len(d)-4:]
	}
	switch len(d) {
	case 0:
		return Zero
	case 1:
		return "00:0" + d
	case 2:
		return "00:" + d
	case 3:
		return "0" + d[:1] + ":" + d[1:]
	default:
		return d[:2] + ":" + d[2:]
	}
}

// Normalize converts a stored or committed value into a canonical duration.
// Short input fills hours first: "5" -> "05:00", "12" -> "12:00". With three or
// more digits the last two are minutes and the rest hours; minutes above 59
// carry into hours.
func Normalize(input string) string {
	d := digitsOnly(input)
	var hours, mins string
	switch {
	case len(d) == 0:
		return Zero
	case len(d) <= 2:
		hours, mins = d, "00"
	default:
		hours, mins = d[:len(d)-2], d[len(d)-2:]
	}

	hours = strings.TrimLeft(hours, "0")
	if hours == "" {
		hours = "0"
	}
	if len(hours) > maxHourDigits {
		return Zero
	}
	h, err := strconv.Atoi(hours)
	if err != nil {
		return Zero
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return Zero
	}
	return FromMinutes(h*60 + m)
}

// ToMinutes parses "HH:MM" into a minute count. A part that does not parse
// contributes zero; a negative duration contributes nothing at all.
func ToMinutes(d string) int {
	d = strings.TrimSpace(d)
	if strings.Contains(d, "-") {
		return 0
	}
	hh, mm, _ := strings.Cut(d, ":")
	return part(hh, maxHourDigits)*60 + part(mm, 2)
}

func part(s string, maxDigits int) int {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxDigits {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FromMinutes formats a minute count as "HH:MM". Negative counts yield "00:00".
func FromMinutes(total int) string {
	if total < 0 {
		return Zero
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Sum adds durations; no arguments sum to "00:00".
func Sum(ds ...string) string {
	total := 0
	for _, d := range ds {
		total += ToMinutes(d)
	}
	return FromMinutes(total)
}

// Package tui holds the interactive pieces of tsheet: a progressive HH:MM
// input and the form used to pick where a time goes.
package tui

import (
	"errors"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/tsheet/internal/duration"
)

// ErrCancelled is returned when the user leaves an input without saving.
var ErrCancelled = errors.New("input cancelled")

// maxDigits is how many typed digits the mask keeps.
const maxDigits = 4

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// TimeInput is a bubbletea model for typing an HH:MM time as bare digits.
// Digits fill the mask from the right: typing 1, 3, 0 shows 00:01, 00:13, 01:30.
type TimeInput struct {
	Title string

	digits    string
	committed bool
	cancelled bool
	keys      KeyMap
	help      help.Model
}

// NewTimeInput returns an input preloaded with the digits of initial.
func NewTimeInput(title, initial string) TimeInput {
	m := TimeInput{
		Title: title,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	if initial != "" && initial != duration.Zero {
		m.digits = keepLast(digitsOf(initial))
	}
	return m
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func keepLast(digits string) string {
	if len(digits) > maxDigits {
		return digits[len(digits)-maxDigits:]
	}
	return digits
}

func (m TimeInput) Init() tea.Cmd { return nil }

func (m TimeInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Commit):
		m.committed = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Erase):
		if m.digits != "" {
			m.digits = m.digits[:len(m.digits)-1]
		}
	case key.Matches(keyMsg, m.keys.Clear):
		m.digits = ""
	case keyMsg.Type == tea.KeyRunes:
		m.digits = keepLast(m.digits + digitsOf(string(keyMsg.Runes)))
	}
	return m, nil
}

func (m TimeInput) View() string {
	if m.committed || m.cancelled {
		return ""
	}
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(titleStyle.Render(m.Title))
		b.WriteString(" ")
	}
	b.WriteString(valueStyle.Render(duration.FormatProgressive(m.digits)))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Display is the masked value as currently shown.
func (m TimeInput) Display() string {
	return duration.FormatProgressive(m.digits)
}

// Value is the normalized HH:MM of the typed digits.
func (m TimeInput) Value() string {
	return duration.Normalize(m.Display())
}

// Committed reports whether the user pressed enter.
func (m TimeInput) Committed() bool { return m.committed }

// Cancelled reports whether the user left without saving.
func (m TimeInput) Cancelled() bool { return m.cancelled }

// ReadTime runs a TimeInput on the terminal and returns the committed value.
func ReadTime(title, initial string) (string, error) {
	final, err := tea.NewProgram(NewTimeInput(title, initial)).Run()
	if err != nil {
		return "", err
	}
	m := final.(TimeInput)
	if !m.Committed() {
		return "", ErrCancelled
	}
	return m.Value(), nil
}

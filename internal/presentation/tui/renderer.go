package tui

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the column answers are wrapped at.
const DefaultWordWrap = 80

// NewRenderer returns a function that renders markdown answers using glamour.
// It falls back to the plain text when glamour cannot be initialized.
func NewRenderer(wordWrap int) func(string) (string, error) {
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return func(s string) (string, error) { return s, nil }
	}
	return r.Render
}

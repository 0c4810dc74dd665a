package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// DefaultWrap is the word-wrap width used for rendered documents.
const DefaultWrap = 80

// MarkdownRenderer returns a function that renders markdown for the
// terminal. Without color it uses glamour's plain ASCII style.
func (t *Theme) MarkdownRenderer(width int) func(string) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	return func(md string) (string, error) {
		style := glamour.WithAutoStyle()
		if t.NoColor {
			style = glamour.WithStandardStyle(styles.NoTTYStyle)
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
		if err != nil {
			return "", fmt.Errorf("create markdown renderer: %w", err)
		}
		out, err := r.Render(md)
		if err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return out, nil
	}
}

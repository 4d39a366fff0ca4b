package tui

import "github.com/charmbracelet/lipgloss"

// Styles formats the messages the renderer prints between prompts.
type Styles struct {
	Title   lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Success lipgloss.Style
}

// DefaultStyles returns the colored styles used by the survey driver.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// PlainStyles returns unformatted styles, for non-interactive output and
// tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Error: plain, Help: plain, Success: plain}
}

func (s Styles) errorLine(label, msg string) string {
	return s.Error.Render("✗ " + label + ": " + msg)
}

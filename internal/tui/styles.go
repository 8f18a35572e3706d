package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// Styles contains the chrome styles drawn around the active view.
type Styles struct {
	// Header styles
	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderVersion lipgloss.Style
	HeaderUser    lipgloss.Style

	// Subject switcher
	Subject       lipgloss.Style
	SubjectActive lipgloss.Style

	// Footer styles
	Footer      lipgloss.Style
	FooterLeft  lipgloss.Style
	FooterRight lipgloss.Style

	// Status line
	StatusOK    lipgloss.Style
	StatusError lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles using the current theme.
func DefaultStyles() Styles {
	t := theme.Current
	return Styles{
		Header: lipgloss.NewStyle().
			Padding(0, 1),

		HeaderTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HeaderVersion: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Italic(true),

		HeaderUser: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		Subject: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Padding(0, 1),

		SubjectActive: lipgloss.NewStyle().
			Foreground(t.TextHighlight).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Padding(0, 1),

		FooterLeft: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Align(lipgloss.Left),

		FooterRight: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Align(lipgloss.Right),

		StatusOK: lipgloss.NewStyle().
			Foreground(t.Success),

		StatusError: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),
	}
}

// subjectStyle colors the active subject with its own accent.
func (s Styles) subjectStyle(subject models.Subject, active bool) lipgloss.Style {
	if !active {
		return s.Subject
	}
	return s.SubjectActive.Background(theme.SubjectColor(subject))
}

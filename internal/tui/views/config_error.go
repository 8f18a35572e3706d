package views

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// ConfigErrorView explains which settings are missing and how to add them.
type ConfigErrorView struct {
	missing []string
	copied  bool
	copyErr error
	width   int
	height  int

	writeClipboard func(string) error
}

// NewConfigErrorView creates the remediation screen for err.
func NewConfigErrorView(err *config.ConfigError) *ConfigErrorView {
	var missing []string
	if err != nil {
		missing = err.Missing
	}
	return &ConfigErrorView{
		missing:        missing,
		writeClipboard: clipboard.WriteAll,
	}
}

// SetSize sets the width and height of the view.
func (v *ConfigErrorView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key input. c copies the env template, q quits.
func (v *ConfigErrorView) Update(msg tea.KeyMsg) Action {
	switch msg.String() {
	case "c":
		v.copyErr = v.writeClipboard(config.EnvTemplate)
		v.copied = v.copyErr == nil
	case "q", "esc", "ctrl+c":
		return ActionQuit
	}
	return ActionNone
}

// View renders the config error screen.
func (v *ConfigErrorView) View() string {
	var b strings.Builder

	b.WriteString(errorStyle().Render("Configuration Error"))
	b.WriteString("\n\n")
	b.WriteString(textStyle().Render("studydeck needs a store and a sign in provider before it can start."))
	b.WriteString("\n\n")

	if len(v.missing) > 0 {
		b.WriteString(mutedStyle().Render("Missing:"))
		b.WriteString("\n")
		for _, name := range v.missing {
			b.WriteString("  • ")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.Warning).Render(name))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle().Render("Add the following to .env.local in the working directory or export them:"))
	b.WriteString("\n")
	b.WriteString(boxStyle().Render(config.EnvTemplate))
	b.WriteString("\n\n")

	switch {
	case v.copied:
		b.WriteString(successStyle().Render("✓ Copied to clipboard"))
		b.WriteString("\n")
	case v.copyErr != nil:
		b.WriteString(errorStyle().Render("Could not copy: " + v.copyErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpLine("c copy template • q quit"))

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if v.width == 0 || v.height == 0 {
		return content
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

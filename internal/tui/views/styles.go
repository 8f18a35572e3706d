package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current.Accent).
		Bold(true).
		MarginBottom(1)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current.TextMuted)
}

func textStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current.Text)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current.Error).Bold(true)
}

func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current.Success)
}

func selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current.TextHighlight).
		Background(theme.Current.Overlay).
		Bold(true)
}

func boxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current.Overlay).
		Padding(0, 1)
}

func helpLine(text string) string {
	return mutedStyle().Italic(true).Render(text)
}

func checkbox(checked bool) string {
	if checked {
		return lipgloss.NewStyle().Foreground(theme.Current.Success).Render("[x]")
	}
	return mutedStyle().Render("[ ]")
}

func statusBadge(status models.EntryStatus) string {
	return lipgloss.NewStyle().
		Foreground(theme.StatusColor(status)).
		Bold(true).
		Render(string(status))
}

// progressBar draws a fixed width bar filled to percent.
func progressBar(percent float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return lipgloss.NewStyle().Foreground(theme.Current.Success).Render(strings.Repeat("█", filled)) +
		mutedStyle().Render(strings.Repeat("░", width-filled))
}

// truncate shortens s to width runes with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// window returns the [start, end) range of a list of n rows that keeps
// cursor visible in height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}

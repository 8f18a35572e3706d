// Package theme provides color theming for the TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Background colors
	Background lipgloss.AdaptiveColor
	Surface    lipgloss.AdaptiveColor
	Overlay    lipgloss.AdaptiveColor

	// Text colors
	Text          lipgloss.AdaptiveColor
	TextMuted     lipgloss.AdaptiveColor
	TextHighlight lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// Subject colors
	SubjectMaths     lipgloss.AdaptiveColor
	SubjectPhysics   lipgloss.AdaptiveColor
	SubjectChemistry lipgloss.AdaptiveColor

	// Entry status colors
	StatusNotStarted lipgloss.AdaptiveColor
	StatusInProgress lipgloss.AdaptiveColor
	StatusCompleted  lipgloss.AdaptiveColor
}

// DeckTheme is the default color scheme.
var DeckTheme = Theme{
	Primary:   lipgloss.AdaptiveColor{Light: "#1E5FAA", Dark: "#3B82F6"}, // Blue
	Secondary: lipgloss.AdaptiveColor{Light: "#6B3FA0", Dark: "#8B5CF6"}, // Purple
	Accent:    lipgloss.AdaptiveColor{Light: "#B87A00", Dark: "#F59E0B"}, // Amber

	Background: lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0D0D0D"}, // White / Near black
	Surface:    lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1A1A1A"}, // Light gray / Dark gray
	Overlay:    lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#2D2D2D"}, // Medium gray

	Text:          lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E5E5E5"},
	TextMuted:     lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#6B6B6B"},
	TextHighlight: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"},

	Success: lipgloss.AdaptiveColor{Light: "#0D8A5E", Dark: "#10B981"}, // Emerald
	Warning: lipgloss.AdaptiveColor{Light: "#CC5500", Dark: "#FF6B35"}, // Orange
	Error:   lipgloss.AdaptiveColor{Light: "#CC0033", Dark: "#FF0040"}, // Red
	Info:    lipgloss.AdaptiveColor{Light: "#0088CC", Dark: "#00D4FF"}, // Cyan

	SubjectMaths:     lipgloss.AdaptiveColor{Light: "#1E5FAA", Dark: "#3B82F6"}, // Blue
	SubjectPhysics:   lipgloss.AdaptiveColor{Light: "#C41E7A", Dark: "#EC4899"}, // Pink
	SubjectChemistry: lipgloss.AdaptiveColor{Light: "#0D8A5E", Dark: "#10B981"}, // Emerald

	StatusNotStarted: lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#6B6B6B"},
	StatusInProgress: lipgloss.AdaptiveColor{Light: "#B87A00", Dark: "#F59E0B"},
	StatusCompleted:  lipgloss.AdaptiveColor{Light: "#0D8A5E", Dark: "#10B981"},
}

// NightTheme is a low-contrast scheme for late sessions.
var NightTheme = Theme{
	Primary:   lipgloss.AdaptiveColor{Light: "#6B3FA0", Dark: "#9B59B6"},
	Secondary: lipgloss.AdaptiveColor{Light: "#008B8B", Dark: "#5FB3B3"},
	Accent:    lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#D4A84B"},

	Background: lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"},
	Surface:    lipgloss.AdaptiveColor{Light: "#F0F0F0", Dark: "#111111"},
	Overlay:    lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#222222"},

	Text:          lipgloss.AdaptiveColor{Light: "#222222", Dark: "#BBBBBB"},
	TextMuted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"},
	TextHighlight: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#EEEEEE"},

	Success: lipgloss.AdaptiveColor{Light: "#228B22", Dark: "#6FBF73"},
	Warning: lipgloss.AdaptiveColor{Light: "#CC7700", Dark: "#D9A441"},
	Error:   lipgloss.AdaptiveColor{Light: "#CC0022", Dark: "#D45D5D"},
	Info:    lipgloss.AdaptiveColor{Light: "#0077BB", Dark: "#5FA8D3"},

	SubjectMaths:     lipgloss.AdaptiveColor{Light: "#0077BB", Dark: "#5FA8D3"},
	SubjectPhysics:   lipgloss.AdaptiveColor{Light: "#AA0077", Dark: "#C77DBA"},
	SubjectChemistry: lipgloss.AdaptiveColor{Light: "#228B22", Dark: "#6FBF73"},

	StatusNotStarted: lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"},
	StatusInProgress: lipgloss.AdaptiveColor{Light: "#CC7700", Dark: "#D9A441"},
	StatusCompleted:  lipgloss.AdaptiveColor{Light: "#228B22", Dark: "#6FBF73"},
}

// Current is the active theme (can be changed at runtime).
var Current = DeckTheme

// SubjectColor returns the color used for a subject's accents.
func SubjectColor(subject models.Subject) lipgloss.AdaptiveColor {
	switch subject {
	case models.SubjectMaths:
		return Current.SubjectMaths
	case models.SubjectPhysics:
		return Current.SubjectPhysics
	case models.SubjectChemistry:
		return Current.SubjectChemistry
	default:
		return Current.Primary
	}
}

// StatusColor returns the color for an entry status badge.
func StatusColor(status models.EntryStatus) lipgloss.AdaptiveColor {
	switch status {
	case models.StatusCompleted:
		return Current.StatusCompleted
	case models.StatusInProgress:
		return Current.StatusInProgress
	default:
		return Current.StatusNotStarted
	}
}

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// ConfirmDialog is a simple yes/no confirmation dialog.
type ConfirmDialog struct {
	title    string
	message  string
	selected bool // false = no, true = yes
}

// NewConfirmDialog creates a new confirmation dialog defaulting to "No".
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		title:   title,
		message: message,
	}
}

// SelectYes selects the "Yes" option.
func (c *ConfirmDialog) SelectYes() {
	c.selected = true
}

// SelectNo selects the "No" option.
func (c *ConfirmDialog) SelectNo() {
	c.selected = false
}

// IsYesSelected returns whether "Yes" is selected.
func (c *ConfirmDialog) IsYesSelected() bool {
	return c.selected
}

// Toggle switches between Yes and No.
func (c *ConfirmDialog) Toggle() {
	c.selected = !c.selected
}

// ConfirmResult is what a key press did to the dialog.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmAccepted
	ConfirmCancelled
)

// HandleKey applies a key press. y and n answer directly, enter answers
// with the current selection.
func (c *ConfirmDialog) HandleKey(key string) ConfirmResult {
	switch key {
	case "left", "right", "h", "l", "tab":
		c.Toggle()
	case "y", "Y":
		return ConfirmAccepted
	case "n", "N", "esc":
		return ConfirmCancelled
	case "enter":
		if c.selected {
			return ConfirmAccepted
		}
		return ConfirmCancelled
	}
	return ConfirmPending
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	yesStyle := lipgloss.NewStyle().
		Foreground(theme.Current.TextMuted).
		Padding(0, 2)

	noStyle := lipgloss.NewStyle().
		Foreground(theme.Current.TextMuted).
		Padding(0, 2)

	active := func(s lipgloss.Style) lipgloss.Style {
		return s.Background(theme.Current.Accent).
			Foreground(theme.Current.Background).
			Bold(true)
	}
	if c.selected {
		yesStyle = active(yesStyle)
	} else {
		noStyle = active(noStyle)
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		"[ ",
		yesStyle.Render("Yes"),
		" ] [ ",
		noStyle.Render("No"),
		" ]",
	)

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current.Primary).
		Padding(1, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				lipgloss.NewStyle().Bold(true).Render(c.title),
				"",
				c.message,
				"",
				buttons,
			),
		)

	return dialog
}

// CenteredView renders the dialog centered on the screen.
func (c *ConfirmDialog) CenteredView(width, height int) string {
	dialog := c.View()
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}

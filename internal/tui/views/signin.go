package views

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/tui/design"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// signInTimeout bounds the wait for the browser consent flow.
const signInTimeout = 5 * time.Minute

// SignInDoneMsg is sent when the OAuth flow returns.
type SignInDoneMsg struct {
	Err error
}

// SignInView is the signed-out landing screen.
type SignInView struct {
	signIn    func(ctx context.Context) error
	signingIn bool
	err       error
	width     int
	height    int
}

// NewSignInView creates the sign in screen. signIn runs the OAuth flow.
func NewSignInView(signIn func(ctx context.Context) error) *SignInView {
	return &SignInView{signIn: signIn}
}

// SetSize sets the width and height of the view.
func (v *SignInView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetError shows err inline, e.g. an expired stored session.
func (v *SignInView) SetError(err error) {
	v.err = err
}

// SigningIn reports whether the browser flow is running.
func (v *SignInView) SigningIn() bool {
	return v.signingIn
}

// Update handles key input.
func (v *SignInView) Update(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch msg.String() {
	case "enter", "s":
		if v.signingIn {
			return ActionNone, nil
		}
		v.signingIn = true
		v.err = nil
		signIn := v.signIn
		return ActionNone, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), signInTimeout)
			defer cancel()
			return SignInDoneMsg{Err: signIn(ctx)}
		}
	case "q", "esc":
		if v.signingIn {
			return ActionNone, nil
		}
		return ActionQuit, nil
	}
	return ActionNone, nil
}

// HandleDone records the flow's result. Success is reported separately by
// the session event.
func (v *SignInView) HandleDone(msg SignInDoneMsg) {
	v.signingIn = false
	v.err = msg.Err
}

// View renders the sign in screen.
func (v *SignInView) View() string {
	logo := lipgloss.NewStyle().Foreground(lipgloss.Color(design.LogoColorPrimary)).Bold(true).Render(design.Logo)
	if v.width > 0 && v.width < 80 {
		logo = lipgloss.NewStyle().Foreground(lipgloss.Color(design.LogoColorPrimary)).Bold(true).Render(design.LogoMinimal)
	}
	tagline := lipgloss.NewStyle().Foreground(lipgloss.Color(design.LogoColorAccent)).Render(design.Tagline)

	var b strings.Builder
	b.WriteString(logo)
	b.WriteString("\n\n")
	b.WriteString(tagline)
	b.WriteString("\n\n")

	if v.signingIn {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.Info).Render("Waiting for Google sign in in your browser…"))
	} else {
		button := lipgloss.NewStyle().
			Foreground(theme.Current.Background).
			Background(theme.Current.Primary).
			Bold(true).
			Padding(0, 3).
			Render("Sign in with Google")
		b.WriteString(button)
	}
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(errorStyle().Render(signInErrorText(v.err)))
		b.WriteString("\n\n")
	}
	b.WriteString(helpLine("enter sign in • q quit"))

	content := lipgloss.JoinVertical(lipgloss.Center, strings.Split(b.String(), "\n")...)
	if v.width == 0 || v.height == 0 {
		return content
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

func signInErrorText(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Sign in timed out. Try again."
	}
	return err.Error()
}

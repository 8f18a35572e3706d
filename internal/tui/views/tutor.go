package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/chat"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/notes"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tui/components"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// replyTimeout bounds one tutor round trip, including the image upload.
const replyTimeout = 2 * time.Minute

// TutorLoadedMsg carries a subject's saved transcript.
type TutorLoadedMsg struct {
	Scope Scope
	Turns []models.ChatTurn
	Err   error
}

// TutorReplyMsg is sent when the tutor answered, or failed to.
type TutorReplyMsg struct {
	Scope    Scope
	Turns    []models.ChatTurn
	HasImage bool
	SaveErr  error
	Err      error
}

// TutorClearedMsg is sent when a transcript was deleted.
type TutorClearedMsg struct {
	Scope Scope
	Err   error
}

type tutorMode int

const (
	tutorBrowse tutorMode = iota
	tutorCompose
	tutorAttach
	tutorPickModel
)

// TutorView is the per-subject chat with the tutor.
type TutorView struct {
	relay     *chat.Relay
	telemetry telemetry.Client
	gate      gate

	scope   Scope
	turns   []models.ChatTurn
	model   string
	models  []string
	loaded  bool
	pending string
	err     error
	notice  string

	mode      tutorMode
	input     textarea.Model
	imagePath textinput.Model
	image     string
	modelIdx  int
	confirm   *components.ConfirmDialog
	history   viewport.Model
	width     int
	height    int

	copyTurn func(models.ChatTurn) error
}

// NewTutorView creates the tutor tab over relay.
func NewTutorView(relay *chat.Relay, tc telemetry.Client) *TutorView {
	ta := textarea.New()
	ta.Placeholder = "Ask a question…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	ti := textinput.New()
	ti.Placeholder = "/path/to/problem.png"
	ti.CharLimit = 1024
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Current.Accent)

	return &TutorView{
		relay:     relay,
		telemetry: tc,
		model:     relay.Model(),
		models:    relay.Models(),
		input:     ta,
		imagePath: ti,
		history:   viewport.New(80, 10),
		copyTurn:  chat.Copy,
	}
}

// SetSize sets the width and height of the view.
func (v *TutorView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(max(20, width-2))
	v.history.Width = max(20, width)
	v.history.Height = max(3, height-10)
	v.renderHistory()
}

// Typing reports whether key presses go to an input.
func (v *TutorView) Typing() bool {
	return v.mode != tutorBrowse || v.confirm != nil
}

// Load reads scope's transcript.
func (v *TutorView) Load(scope Scope) tea.Cmd {
	return v.gate.queue(func() tea.Cmd {
		v.scope = scope
		v.loaded = false
		v.err = nil
		v.notice = ""
		v.pending = ""
		v.image = ""
		relay := v.relay
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			turns, err := relay.Load(ctx, scope.UserID, scope.Subject)
			return TutorLoadedMsg{Scope: scope, Turns: turns, Err: err}
		})
	})
}

// HandleLoaded installs a loaded transcript.
func (v *TutorView) HandleLoaded(msg TutorLoadedMsg) tea.Cmd {
	if msg.Scope == v.scope {
		v.turns = msg.Turns
		v.err = msg.Err
		v.loaded = true
		v.renderHistory()
	}
	return v.gate.done()
}

// HandleReply installs the transcript returned by the relay.
func (v *TutorView) HandleReply(msg TutorReplyMsg) tea.Cmd {
	v.pending = ""
	if msg.Scope == v.scope {
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.turns = msg.Turns
			v.err = nil
			if msg.SaveErr != nil {
				v.err = fmt.Errorf("reply not saved: %w", msg.SaveErr)
			}
			failed := len(msg.Turns) > 0 && chat.IsErrorTurn(msg.Turns[len(msg.Turns)-1])
			v.telemetry.TrackTutorMessageSent(string(msg.Scope.Subject), v.model, msg.HasImage, failed)
		}
		v.renderHistory()
	}
	return v.gate.done()
}

// HandleCleared empties the transcript.
func (v *TutorView) HandleCleared(msg TutorClearedMsg) tea.Cmd {
	if msg.Scope == v.scope {
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.turns = nil
			v.err = nil
			v.notice = "Conversation cleared"
		}
		v.renderHistory()
	}
	return v.gate.done()
}

// Update handles key input.
func (v *TutorView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.confirm != nil {
		return v.updateConfirm(msg)
	}
	switch v.mode {
	case tutorCompose:
		return v.updateCompose(msg)
	case tutorAttach:
		return v.updateAttach(msg)
	case tutorPickModel:
		return v.updatePicker(msg)
	}
	if !v.loaded {
		return nil
	}

	v.notice = ""
	switch k := msg.String(); k {
	case "enter", "i":
		v.mode = tutorCompose
		return v.input.Focus()
	case "a":
		v.mode = tutorAttach
		v.imagePath.SetValue(v.image)
		return v.imagePath.Focus()
	case "m":
		if !v.gate.busy {
			v.mode = tutorPickModel
			v.modelIdx = max(0, indexOf(v.models, v.model))
		}
	case "c":
		v.copyLastReply()
	case "x":
		if len(v.turns) > 0 && !v.gate.busy {
			v.confirm = components.NewConfirmDialog("Clear conversation",
				fmt.Sprintf("Delete the %s conversation?", v.scope.Subject.Title()))
		}
	case "1", "2", "3", "4", "5", "6":
		prompts := chat.QuickPrompts(v.scope.Subject)
		if i := int(k[0] - '1'); i < len(prompts) {
			return v.send(prompts[i])
		}
	default:
		var cmd tea.Cmd
		v.history, cmd = v.history.Update(msg)
		return cmd
	}
	return nil
}

func (v *TutorView) updateCompose(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = tutorBrowse
		v.input.Blur()
		return nil
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		if text == "" && v.image == "" {
			return nil
		}
		cmd := v.send(text)
		if cmd != nil {
			v.input.Reset()
		}
		return cmd
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *TutorView) updateAttach(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = tutorBrowse
		v.imagePath.Blur()
		return nil
	case "enter":
		p := expandHome(strings.TrimSpace(v.imagePath.Value()))
		if p != "" {
			if _, err := os.Stat(p); err != nil {
				v.err = fmt.Errorf("attach image: %w", err)
				return nil
			}
		}
		v.image = p
		v.err = nil
		v.mode = tutorBrowse
		v.imagePath.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.imagePath, cmd = v.imagePath.Update(msg)
	return cmd
}

func (v *TutorView) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.modelIdx > 0 {
			v.modelIdx--
		}
	case "down", "j":
		if v.modelIdx < len(v.models)-1 {
			v.modelIdx++
		}
	case "enter":
		if len(v.models) > 0 {
			v.relay.SetModel(v.models[v.modelIdx])
			v.model = v.relay.Model()
		}
		v.mode = tutorBrowse
	case "esc":
		v.mode = tutorBrowse
	}
	return nil
}

func (v *TutorView) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch v.confirm.HandleKey(msg.String()) {
	case components.ConfirmAccepted:
		v.confirm = nil
		relay, scope := v.relay, v.scope
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			return TutorClearedMsg{Scope: scope, Err: relay.Clear(ctx, scope.UserID, scope.Subject)}
		})
	case components.ConfirmCancelled:
		v.confirm = nil
	}
	return nil
}

func (v *TutorView) send(text string) tea.Cmd {
	if v.gate.busy {
		return nil
	}
	relay, scope, image := v.relay, v.scope, v.image
	transcript := v.turns
	v.pending = text
	if v.pending == "" {
		v.pending = chat.DefaultImagePrompt
	}
	v.image = ""
	v.err = nil
	v.renderHistory()
	return v.gate.run(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()

		var img *chat.Image
		if image != "" {
			f, err := os.Open(image)
			if err != nil {
				return TutorReplyMsg{Scope: scope, Err: fmt.Errorf("open image: %w", err)}
			}
			defer func() { _ = f.Close() }()
			info, err := f.Stat()
			if err != nil {
				return TutorReplyMsg{Scope: scope, Err: fmt.Errorf("stat image: %w", err)}
			}
			img = &chat.Image{Name: filepath.Base(image), Data: f, Length: info.Size()}
		}
		turns, saveErr := relay.Send(ctx, scope.UserID, scope.Subject, transcript, text, img)
		return TutorReplyMsg{Scope: scope, Turns: turns, HasImage: img != nil, SaveErr: saveErr}
	})
}

func (v *TutorView) copyLastReply() {
	for i := len(v.turns) - 1; i >= 0; i-- {
		if v.turns[i].Role == models.RoleAssistant {
			if err := v.copyTurn(v.turns[i]); err != nil {
				v.err = fmt.Errorf("copy: %w", err)
			} else {
				v.notice = "Reply copied to clipboard"
			}
			return
		}
	}
}

func (v *TutorView) renderHistory() {
	v.history.SetContent(v.transcript())
	v.history.GotoBottom()
}

// transcript renders the turns, plus the message waiting for a reply.
func (v *TutorView) transcript() string {
	width := max(20, v.history.Width-2)
	if len(v.turns) == 0 && v.pending == "" {
		var b strings.Builder
		b.WriteString(mutedStyle().Render(fmt.Sprintf("Ask your %s tutor anything, or pick a quick prompt:", v.scope.Subject.Title())))
		b.WriteString("\n\n")
		for i, p := range chat.QuickPrompts(v.scope.Subject) {
			b.WriteString(fmt.Sprintf("  %s %s\n", lipgloss.NewStyle().Foreground(theme.Current.Accent).Render(fmt.Sprintf("%d", i+1)), p))
		}
		return b.String()
	}

	userLabel := lipgloss.NewStyle().Foreground(theme.Current.Accent).Bold(true).Render("You")
	tutorLabel := lipgloss.NewStyle().Foreground(theme.SubjectColor(v.scope.Subject)).Bold(true).Render("Tutor")
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, t := range v.turns {
		if t.Role == models.RoleUser {
			b.WriteString(userLabel + mutedStyle().Render(" · "+t.Timestamp.Local().Format("15:04")))
			b.WriteString("\n")
			b.WriteString(body.Render(t.Content))
			if t.ImageURL != "" {
				b.WriteString("\n" + mutedStyle().Render("📎 image attached"))
			}
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(tutorLabel)
		b.WriteString("\n")
		if chat.IsErrorTurn(t) {
			b.WriteString(errorStyle().Width(width).Render(t.Content))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(notes.RenderTerminal(t.Content, width))
		b.WriteString("\n")
	}
	if v.pending != "" {
		b.WriteString(userLabel)
		b.WriteString("\n")
		b.WriteString(body.Render(v.pending))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle().Italic(true).Render("Tutor is thinking…"))
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the transcript and the input area.
func (v *TutorView) View() string {
	if v.confirm != nil {
		return v.confirm.CenteredView(v.width, max(v.height, 10))
	}
	if !v.loaded {
		return mutedStyle().Render("Loading conversation…")
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(theme.SubjectColor(v.scope.Subject)).Bold(true).
		Render(v.scope.Subject.Title() + " tutor")
	b.WriteString(title)
	b.WriteString(mutedStyle().Render(" · " + v.model))
	b.WriteString("\n")

	if v.mode == tutorPickModel {
		b.WriteString("\n")
		b.WriteString(v.viewPicker())
		return b.String()
	}

	b.WriteString(v.history.View())
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(errorStyle().Render("⚠ " + v.err.Error()))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(successStyle().Render("✓ " + v.notice))
		b.WriteString("\n")
	}
	if v.image != "" {
		b.WriteString(mutedStyle().Render("📎 " + filepath.Base(v.image)))
		b.WriteString("\n")
	}

	switch v.mode {
	case tutorCompose:
		b.WriteString(v.input.View())
		b.WriteString("\n")
		b.WriteString(helpLine("enter send • alt+enter newline • esc done"))
	case tutorAttach:
		b.WriteString(mutedStyle().Render("Image to attach (empty to remove):"))
		b.WriteString("\n")
		b.WriteString(v.imagePath.View())
		b.WriteString("\n")
		b.WriteString(helpLine("enter attach • esc cancel"))
	default:
		b.WriteString(helpLine("enter type • 1-6 quick prompt • a attach image • m model • c copy reply • x clear • ↑↓ scroll"))
	}
	return b.String()
}

func (v *TutorView) viewPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle().Render("Choose a model"))
	b.WriteString("\n")
	for i, m := range v.models {
		line := "  " + m
		if m == v.model {
			line += mutedStyle().Render(" (current)")
		}
		if i == v.modelIdx {
			line = selectedStyle().Render("▸ " + m)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(helpLine("↑↓ move • enter select • esc cancel"))
	return b.String()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

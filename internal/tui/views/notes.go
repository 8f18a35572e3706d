package views

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/notes"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// NotesProfile reads and saves the user's notes repository.
type NotesProfile interface {
	NotesRepo(ctx context.Context, userID string) (string, error)
	SetNotesRepo(ctx context.Context, userID, url string) error
}

// NotesLoadedMsg is sent when the browser finished a listing or fetch.
type NotesLoadedMsg struct {
	UserID string
	// RepoSet is true when the call saved a new repository.
	RepoSet bool
	Err     error
}

// NotesView browses the user's GitHub notes repository.
type NotesView struct {
	browser   *notes.Browser
	profile   NotesProfile
	telemetry telemetry.Client
	gate      gate

	// Snapshot of the browser, refreshed whenever no call is in flight.
	userID  string
	repo    string
	hasRepo bool
	dir     string
	entries []notes.Entry
	file    *notes.Entry
	content string

	loaded  bool
	editing bool
	input   textinput.Model
	cursor  int
	err     error
	reader  viewport.Model
	width   int
	height  int

	openLink func(string) error
}

// NewNotesView creates the notes tab.
func NewNotesView(b *notes.Browser, profile NotesProfile, tc telemetry.Client) *NotesView {
	ti := textinput.New()
	ti.Placeholder = "https://github.com/you/jee-notes"
	ti.CharLimit = 300
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Current.Accent)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Current.Text)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Current.TextMuted)

	return &NotesView{
		browser:   b,
		profile:   profile,
		telemetry: tc,
		input:     ti,
		reader:    viewport.New(80, 20),
		openLink:  auth.OpenBrowser,
	}
}

// SetSize sets the width and height of the view.
func (v *NotesView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.reader.Width = max(20, width)
	v.reader.Height = max(3, height-4)
	if v.file != nil {
		v.reader.SetContent(v.render())
	}
}

// Typing reports whether key presses go to the URL input.
func (v *NotesView) Typing() bool {
	return v.editing
}

// Load reads the saved repository for userID and lists its root.
func (v *NotesView) Load(userID string) tea.Cmd {
	return v.gate.queue(func() tea.Cmd {
		v.userID = userID
		v.loaded = false
		v.err = nil
		b, profile := v.browser, v.profile
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			url, err := profile.NotesRepo(ctx, userID)
			if err != nil {
				return NotesLoadedMsg{UserID: userID, Err: fmt.Errorf("load profile: %w", err)}
			}
			if url == "" {
				return NotesLoadedMsg{UserID: userID}
			}
			if err := b.SetRepo(url); err != nil {
				return NotesLoadedMsg{UserID: userID, Err: err}
			}
			return NotesLoadedMsg{UserID: userID, Err: b.Load(ctx, "")}
		})
	})
}

// HandleLoaded refreshes the snapshot after any browser call.
func (v *NotesView) HandleLoaded(msg NotesLoadedMsg) tea.Cmd {
	v.err = msg.Err
	v.loaded = true
	if msg.RepoSet {
		v.telemetry.TrackNotesRepoSet()
		v.editing = false
		v.input.Blur()
	}
	hadFile := v.file != nil
	v.refresh()
	if v.file != nil && !hadFile {
		v.telemetry.TrackNotesFileOpened(path.Ext(v.file.Name))
	}
	if !v.hasRepo && v.err == nil {
		v.startEditing()
	}
	v.cursor = min(v.cursor, max(0, len(v.entries)-1))
	return v.gate.done()
}

func (v *NotesView) refresh() {
	repo, ok := v.browser.Repo()
	v.hasRepo = ok
	v.repo = ""
	if ok {
		v.repo = repo.String()
	}
	v.dir = v.browser.Path()
	v.entries = slices.Clone(v.browser.Entries())
	v.file = nil
	v.content = ""
	if f := v.browser.File(); f != nil {
		entry := *f
		v.file = &entry
		v.content = v.browser.Content()
		v.reader.SetContent(v.render())
		v.reader.GotoTop()
	}
}

// render produces the reader text for the open file.
func (v *NotesView) render() string {
	if v.file != nil && strings.EqualFold(path.Ext(v.file.Name), ".md") && v.content != notes.LoadErrorContent {
		return notes.RenderTerminal(v.content, max(20, v.reader.Width-2))
	}
	return v.content
}

func (v *NotesView) startEditing() {
	v.editing = true
	v.input.SetValue("")
	if repo, ok := v.browser.Repo(); ok {
		v.input.SetValue(repo.URL())
	}
	v.input.Focus()
}

// Update handles key input.
func (v *NotesView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.editing {
		return v.updateInput(msg)
	}
	if !v.loaded || v.gate.busy {
		return nil
	}
	if v.file != nil {
		return v.updateReader(msg)
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.entries)-1 {
			v.cursor++
		}
	case "enter", "right", "l":
		if len(v.entries) > 0 {
			entry := v.entries[v.cursor]
			if entry.IsDir() {
				v.cursor = 0
			}
			return v.call(func(ctx context.Context, b *notes.Browser) error {
				return b.Open(ctx, entry)
			})
		}
	case "backspace", "left", "h":
		if v.hasRepo && v.dir != "" {
			v.cursor = 0
			return v.call(func(ctx context.Context, b *notes.Browser) error { return b.Up(ctx) })
		}
	case "e":
		v.startEditing()
		return textinput.Blink
	case "o":
		if len(v.entries) > 0 {
			v.open(v.entries[v.cursor].HTMLURL)
		}
	}
	return nil
}

func (v *NotesView) updateReader(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "backspace", "left", "h":
		// Closing a file needs no network.
		_ = v.browser.Up(context.Background())
		v.refresh()
		return nil
	case "o":
		v.open(v.file.HTMLURL)
		return nil
	}
	var cmd tea.Cmd
	v.reader, cmd = v.reader.Update(msg)
	return cmd
}

func (v *NotesView) open(url string) {
	if url == "" {
		return
	}
	if err := v.openLink(url); err != nil {
		v.err = fmt.Errorf("open in browser: %w", err)
	}
}

func (v *NotesView) updateInput(msg tea.KeyMsg) tea.Cmd {
	if v.gate.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.editing = false
		v.input.Blur()
		return nil
	case "enter":
		repo, err := notes.ParseRepoURL(strings.TrimSpace(v.input.Value()))
		if err != nil {
			v.err = err
			return nil
		}
		v.err = nil
		v.cursor = 0
		b, profile, userID := v.browser, v.profile, v.userID
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			if err := profile.SetNotesRepo(ctx, userID, repo.URL()); err != nil {
				return NotesLoadedMsg{UserID: userID, Err: err}
			}
			if err := b.SetRepo(repo.URL()); err != nil {
				return NotesLoadedMsg{UserID: userID, Err: err}
			}
			return NotesLoadedMsg{UserID: userID, RepoSet: true, Err: b.Load(ctx, "")}
		})
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *NotesView) call(fn func(ctx context.Context, b *notes.Browser) error) tea.Cmd {
	b, userID := v.browser, v.userID
	return v.gate.run(func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		return NotesLoadedMsg{UserID: userID, Err: fn(ctx, b)}
	})
}

// View renders the URL input, the listing or the open file.
func (v *NotesView) View() string {
	var b strings.Builder

	title := "Notes"
	if v.hasRepo {
		title += " · " + v.repo
		if v.dir != "" {
			title += "/" + v.dir
		}
		if v.file != nil {
			title += " › " + v.file.Name
		}
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.Secondary).Bold(true).Render(title))
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(errorStyle().Render("⚠ " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.editing:
		b.WriteString(mutedStyle().Render("GitHub repository with your notes:"))
		b.WriteString("\n")
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
		help := "enter save • esc cancel"
		if v.gate.busy {
			help = "loading…"
		}
		b.WriteString(helpLine(help))
	case !v.loaded:
		b.WriteString(mutedStyle().Render("Loading notes…"))
	case !v.hasRepo:
		b.WriteString(mutedStyle().Render("No notes repository set. Press e to add one."))
	case v.file != nil:
		b.WriteString(v.reader.View())
		b.WriteString("\n")
		b.WriteString(helpLine(fmt.Sprintf("↑↓ scroll • esc back • o open on GitHub • %3.f%%", v.reader.ScrollPercent()*100)))
	default:
		b.WriteString(v.viewListing())
	}
	return b.String()
}

func (v *NotesView) viewListing() string {
	var b strings.Builder
	if len(v.entries) == 0 {
		b.WriteString(mutedStyle().Render("No markdown or text files here."))
		b.WriteString("\n")
	}
	start, end := window(len(v.entries), v.cursor, max(1, v.height-6))
	for i := start; i < end; i++ {
		e := v.entries[i]
		icon, name := "📄 ", e.Name
		if e.IsDir() {
			icon, name = "📁 ", e.Name+"/"
		}
		line := icon + truncate(name, max(10, v.width-6))
		if i == v.cursor {
			line = selectedStyle().Render("▸ " + line)
		} else {
			line = textStyle().Render("  " + line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	help := "enter open • backspace up • e change repo • o open on GitHub"
	if v.gate.busy {
		help += " • loading…"
	}
	b.WriteString(helpLine(help))
	return b.String()
}

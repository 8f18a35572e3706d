package views

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
	"github.com/asteroid-belt/studydeck/internal/playlist"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tui/components"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// volumeStep is how much +/- changes the volume.
const volumeStep = 10

// PlaylistLoadedMsg is sent when the user's tracks have been listed.
type PlaylistLoadedMsg struct {
	UserID string
	Err    error
}

// TrackUploadedMsg is sent when an upload finishes.
type TrackUploadedMsg struct {
	Asset *models.AudioAsset
	Err   error
}

// TrackRemovedMsg is sent when a removal finishes.
type TrackRemovedMsg struct {
	WasCurrent bool
	Result     mutation.Result
}

// TrackFinishedMsg is sent when the player reaches the end of a track.
type TrackFinishedMsg struct {
	URL string
}

// Player is the part of *playlist.Player the panel drives.
type Player interface {
	Finished() <-chan string
	Playing() bool
	Volume() int
	Play(url string, volume int) error
	Stop()
	Toggle() error
	SetVolume(volume int) error
}

// PlaylistPanel is the audio queue under the study timer.
type PlaylistPanel struct {
	library   *playlist.Library
	player    Player
	playerErr error
	telemetry telemetry.Client
	gate      gate

	userID  string
	tracks  []models.AudioAsset
	index   int
	cursor  int
	loaded  bool
	err     error
	notice  string
	confirm *components.ConfirmDialog

	uploading bool
	path      textinput.Model
}

// NewPlaylistPanel creates the panel. player may be nil with playerErr
// saying why, in which case tracks can be managed but not played.
func NewPlaylistPanel(library *playlist.Library, player Player, playerErr error, tc telemetry.Client) *PlaylistPanel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/track.mp3"
	ti.CharLimit = 1024
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Current.Accent)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Current.Text)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Current.TextMuted)

	return &PlaylistPanel{
		library:   library,
		player:    player,
		playerErr: playerErr,
		telemetry: tc,
		path:      ti,
	}
}

// Typing reports whether key presses go to the path input or a dialog.
func (p *PlaylistPanel) Typing() bool {
	return p.uploading || p.confirm != nil
}

// Load lists userID's tracks.
func (p *PlaylistPanel) Load(userID string) tea.Cmd {
	return p.gate.queue(func() tea.Cmd {
		p.userID = userID
		p.loaded = false
		p.err = nil
		lib := p.library
		return p.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			return PlaylistLoadedMsg{UserID: userID, Err: lib.Load(ctx, userID)}
		})
	})
}

// Stop silences the player, e.g. on sign out.
func (p *PlaylistPanel) Stop() {
	if p.player != nil {
		p.player.Stop()
	}
}

// WaitForFinished returns a command that delivers the next finished track.
func (p *PlaylistPanel) WaitForFinished() tea.Cmd {
	if p.player == nil {
		return nil
	}
	ch := p.player.Finished()
	return func() tea.Msg {
		url, ok := <-ch
		if !ok {
			return nil
		}
		return TrackFinishedMsg{URL: url}
	}
}

// HandleLoaded installs the loaded queue.
func (p *PlaylistPanel) HandleLoaded(msg PlaylistLoadedMsg) tea.Cmd {
	p.err = msg.Err
	p.loaded = true
	p.refresh()
	p.cursor = 0
	return p.gate.done()
}

// HandleUploaded closes the path input on success.
func (p *PlaylistPanel) HandleUploaded(msg TrackUploadedMsg) tea.Cmd {
	p.refresh()
	if msg.Err != nil {
		p.err = msg.Err
	} else {
		p.telemetry.TrackAudioUploaded(msg.Asset.MimeType, msg.Asset.FileSize)
		p.uploading = false
		p.path.Blur()
		p.err = nil
		p.cursor = 0
		p.notice = "Uploaded " + msg.Asset.Name
	}
	return p.gate.done()
}

// HandleRemoved reports the outcome and stops a removed current track.
func (p *PlaylistPanel) HandleRemoved(msg TrackRemovedMsg) tea.Cmd {
	p.telemetry.TrackAudioRemoved(msg.Result.Outcome.String())
	p.refresh()
	p.cursor = min(p.cursor, max(0, len(p.tracks)-1))
	if msg.WasCurrent && p.player != nil {
		p.player.Stop()
	}
	p.err = nil
	switch {
	case msg.Result.Diverged():
		p.err = fmt.Errorf("removed locally only: %w", msg.Result.Err)
	case !msg.Result.Committed():
		p.err = msg.Result.Err
	default:
		p.notice = "Track removed"
	}
	return p.gate.done()
}

// HandleFinished moves to the next track and keeps listening.
func (p *PlaylistPanel) HandleFinished(msg TrackFinishedMsg) tea.Cmd {
	advance := p.gate.queue(func() tea.Cmd {
		if cur, ok := p.library.Queue().Current(); ok && cur.FileURL == msg.URL {
			p.library.Queue().Next()
			p.play()
		}
		return nil
	})
	return tea.Batch(advance, p.WaitForFinished())
}

// refresh copies the queue into the snapshot. Only called while idle.
func (p *PlaylistPanel) refresh() {
	q := p.library.Queue()
	p.tracks = slices.Clone(q.Tracks())
	p.index = q.Index()
}

func (p *PlaylistPanel) play() {
	if p.player == nil {
		p.err = p.playerErr
		return
	}
	cur, ok := p.library.Queue().Current()
	if !ok {
		return
	}
	if err := p.player.Play(cur.FileURL, p.player.Volume()); err != nil {
		p.err = err
		return
	}
	p.refresh()
}

// Update handles the playlist keys.
func (p *PlaylistPanel) Update(msg tea.KeyMsg) tea.Cmd {
	if p.confirm != nil {
		return p.updateConfirm(msg)
	}
	if p.uploading {
		return p.updateUpload(msg)
	}
	if !p.loaded || p.gate.busy {
		return nil
	}

	p.notice = ""
	q := p.library.Queue()
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.tracks)-1 {
			p.cursor++
		}
	case "enter":
		if q.Select(p.cursor) {
			p.play()
		}
	case "p":
		p.togglePlay()
	case "]", ">":
		q.Next()
		p.cursor = q.Index()
		p.play()
	case "[", "<":
		q.Prev()
		p.cursor = q.Index()
		p.play()
	case "+", "=":
		p.changeVolume(volumeStep)
	case "-", "_":
		p.changeVolume(-volumeStep)
	case "u":
		p.uploading = true
		p.err = nil
		p.path.SetValue("")
		p.path.Focus()
		return textinput.Blink
	case "x":
		if len(p.tracks) > 0 {
			t := p.tracks[p.cursor]
			p.confirm = components.NewConfirmDialog("Remove track", fmt.Sprintf("Remove %q from your playlist?", t.Name))
		}
	}
	p.refresh()
	return nil
}

func (p *PlaylistPanel) togglePlay() {
	if p.player == nil {
		p.err = p.playerErr
		return
	}
	if p.player.Playing() {
		if err := p.player.Toggle(); err != nil {
			p.err = err
		}
		return
	}
	p.play()
}

func (p *PlaylistPanel) changeVolume(delta int) {
	if p.player == nil {
		p.err = p.playerErr
		return
	}
	if err := p.player.SetVolume(p.player.Volume() + delta); err != nil {
		p.err = err
	}
}

func (p *PlaylistPanel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch p.confirm.HandleKey(msg.String()) {
	case components.ConfirmAccepted:
		p.confirm = nil
		if len(p.tracks) == 0 {
			return nil
		}
		track := p.tracks[p.cursor]
		wasCurrent := p.index == p.cursor && p.player != nil && p.player.Playing()
		lib, userID := p.library, p.userID
		return p.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			return TrackRemovedMsg{WasCurrent: wasCurrent, Result: lib.Remove(ctx, userID, track.ID)}
		})
	case components.ConfirmCancelled:
		p.confirm = nil
	}
	return nil
}

func (p *PlaylistPanel) updateUpload(msg tea.KeyMsg) tea.Cmd {
	if p.gate.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		p.uploading = false
		p.path.Blur()
		return nil
	case "enter":
		path := expandHome(strings.TrimSpace(p.path.Value()))
		if path == "" {
			return nil
		}
		lib, userID := p.library, p.userID
		return p.gate.run(func() tea.Msg {
			asset, err := uploadFile(lib, userID, path)
			return TrackUploadedMsg{Asset: asset, Err: err}
		})
	}
	var cmd tea.Cmd
	p.path, cmd = p.path.Update(msg)
	return cmd
}

func uploadFile(lib *playlist.Library, userID, path string) (*models.AudioAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	ctx, cancel := opContext()
	defer cancel()
	return lib.Upload(ctx, userID, filepath.Base(path), f, info.Size())
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// View renders the playlist.
func (p *PlaylistPanel) View(width, height int) string {
	if p.confirm != nil {
		return p.confirm.View()
	}

	var b strings.Builder
	header := lipgloss.NewStyle().Foreground(theme.Current.Secondary).Bold(true).Render("♫ Playlist")
	b.WriteString(header)
	if p.player != nil {
		state := "stopped"
		if p.player.Playing() {
			state = "playing"
		}
		b.WriteString(mutedStyle().Render(fmt.Sprintf("  %s · volume %d%%", state, p.player.Volume())))
	}
	b.WriteString("\n")

	switch {
	case p.err != nil && errors.Is(p.err, playlist.ErrNoPlayer):
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.Warning).Render("⚠ " + p.err.Error()))
		b.WriteString("\n")
	case p.err != nil:
		b.WriteString(errorStyle().Render("⚠ " + p.err.Error()))
		b.WriteString("\n")
	case p.notice != "":
		b.WriteString(successStyle().Render("✓ " + p.notice))
		b.WriteString("\n")
	}

	if p.uploading {
		b.WriteString(mutedStyle().Render("Audio file to upload:"))
		b.WriteString("\n")
		b.WriteString(p.path.View())
		b.WriteString("\n")
		help := "enter upload • esc cancel"
		if p.gate.busy {
			help = "uploading…"
		}
		b.WriteString(helpLine(help))
		return b.String()
	}

	if !p.loaded {
		b.WriteString(mutedStyle().Render("Loading tracks…"))
		return b.String()
	}
	if len(p.tracks) == 0 {
		b.WriteString(mutedStyle().Render("No tracks yet. Press u to upload one."))
		b.WriteString("\n")
	}

	start, end := window(len(p.tracks), p.cursor, max(1, height-4))
	for i := start; i < end; i++ {
		t := p.tracks[i]
		marker := "  "
		if i == p.index {
			marker = lipgloss.NewStyle().Foreground(theme.Current.Success).Render("♪ ")
		}
		name := truncate(t.Name, max(10, width-6))
		if i == p.cursor {
			name = selectedStyle().Render(name)
		} else {
			name = textStyle().Render(name)
		}
		b.WriteString(marker + name + "\n")
	}
	b.WriteString(helpLine("enter play • p pause • [ ] prev/next • +/- volume • u upload • x remove"))
	return b.String()
}

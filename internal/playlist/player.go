package playlist

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/log"
)

// ErrNoPlayer is returned when no supported audio player is installed.
var ErrNoPlayer = errors.New("no audio player found (install mpv or ffplay)")

var (
	lookPath = exec.LookPath
	command  = exec.Command
)

// Player drives an external audio player process, one track at a time.
type Player struct {
	binary string

	mu       sync.Mutex
	cmd      *exec.Cmd
	url      string
	volume   int
	playing  bool
	finished chan string
}

// NewPlayer resolves the configured player binary, or the first of
// config.DefaultPlayers found on PATH.
func NewPlayer(cfg config.AudioConfig) (*Player, error) {
	candidates := config.DefaultPlayers
	if cfg.Player != "" {
		candidates = []string{cfg.Player}
	}
	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			return &Player{
				binary:   path,
				volume:   clampVolume(cfg.Volume),
				finished: make(chan string, 1),
			}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Binary returns the resolved player path.
func (p *Player) Binary() string { return p.binary }

// Finished delivers the URL of each track that played to its end. Tracks
// ended by Stop are not delivered.
func (p *Player) Finished() <-chan string { return p.finished }

// Playing reports whether a track is playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Volume returns the current volume, 0 to 100.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play stops any current track and starts url at volume.
func (p *Player) Play(url string, volume int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.volume = clampVolume(volume)
	return p.startLocked(url)
}

// Stop ends the current track.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Toggle stops a playing track, or restarts the last one.
func (p *Player) Toggle() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.stopLocked()
		return nil
	}
	if p.url == "" {
		return nil
	}
	return p.startLocked(p.url)
}

// SetVolume changes the volume. A playing track is restarted to apply it.
func (p *Player) SetVolume(volume int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(volume)
	if !p.playing {
		return nil
	}
	p.stopLocked()
	return p.startLocked(p.url)
}

func (p *Player) startLocked(url string) error {
	cmd := command(p.binary, playerArgs(p.binary, url, p.volume)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", filepath.Base(p.binary), err)
	}
	p.cmd = cmd
	p.url = url
	p.playing = true

	go p.wait(cmd, url)
	return nil
}

func (p *Player) wait(cmd *exec.Cmd, url string) {
	err := cmd.Wait()

	p.mu.Lock()
	current := p.cmd == cmd
	if current {
		p.cmd = nil
		p.playing = false
	}
	p.mu.Unlock()

	if !current {
		return
	}
	if err != nil {
		log.Printf("audio player exited: %v", err)
	}
	select {
	case p.finished <- url:
	default:
	}
}

func (p *Player) stopLocked() {
	if p.cmd == nil {
		return
	}
	cmd := p.cmd
	p.cmd = nil
	p.playing = false
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// playerArgs builds the command line for the known players. Volume is 0..100.
// afplay only reads local files.
func playerArgs(binary, url string, volume int) []string {
	switch filepath.Base(binary) {
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-volume", fmt.Sprint(volume), url}
	case "afplay":
		return []string{"-v", fmt.Sprintf("%.2f", float64(volume)/100), strings.TrimPrefix(url, "file://")}
	default:
		return []string{"--no-video", "--really-quiet", fmt.Sprintf("--volume=%d", volume), url}
	}
}

func clampVolume(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

package playlist

import (
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/config"
)

// TestHelperProcess stands in for the audio player binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("STUDYDECK_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("STUDYDECK_HELPER_MODE") == "hang" {
		time.Sleep(time.Minute)
	}
	os.Exit(0)
}

func fakePlayer(t *testing.T, mode string) *Player {
	t.Helper()
	origCommand, origLook := command, lookPath
	t.Cleanup(func() { command, lookPath = origCommand, origLook })

	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	command = func(name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "STUDYDECK_HELPER_PROCESS=1", "STUDYDECK_HELPER_MODE="+mode)
		return cmd
	}

	p, err := NewPlayer(config.AudioConfig{Player: "mpv", Volume: 50})
	require.NoError(t, err)
	t.Cleanup(p.Stop)
	return p
}

func TestNewPlayer_Resolution(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) {
		if name == "ffplay" {
			return "/opt/bin/ffplay", nil
		}
		return "", errors.New("not found")
	}

	p, err := NewPlayer(config.AudioConfig{Volume: 150})
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/ffplay", p.Binary())
	assert.Equal(t, 100, p.Volume())

	_, err = NewPlayer(config.AudioConfig{Player: "vlc"})
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestPlayerArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--no-video", "--really-quiet", "--volume=40", "file:///a.mp3"},
		playerArgs("/usr/bin/mpv", "file:///a.mp3", 40))
	assert.Equal(t,
		[]string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-volume", "40", "https://x/a.mp3"},
		playerArgs("ffplay", "https://x/a.mp3", 40))
	assert.Equal(t,
		[]string{"-v", "0.40", "/a.mp3"},
		playerArgs("/usr/bin/afplay", "file:///a.mp3", 40))
}

func TestPlayer_FinishedTrack(t *testing.T) {
	p := fakePlayer(t, "exit")

	require.NoError(t, p.Play("file:///a.mp3", 30))
	assert.Equal(t, 30, p.Volume())

	select {
	case url := <-p.Finished():
		assert.Equal(t, "file:///a.mp3", url)
	case <-time.After(10 * time.Second):
		t.Fatal("player did not report the finished track")
	}
	assert.Eventually(t, func() bool { return !p.Playing() }, time.Second, 10*time.Millisecond)
}

func TestPlayer_StopDoesNotReportFinished(t *testing.T) {
	p := fakePlayer(t, "hang")

	require.NoError(t, p.Play("file:///a.mp3", 50))
	assert.True(t, p.Playing())

	p.Stop()
	assert.False(t, p.Playing())

	select {
	case url := <-p.Finished():
		t.Fatalf("stopped track reported as finished: %s", url)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPlayer_ToggleAndVolume(t *testing.T) {
	p := fakePlayer(t, "hang")

	assert.NoError(t, p.Toggle(), "toggle with nothing loaded is a no-op")
	assert.False(t, p.Playing())

	require.NoError(t, p.Play("file:///a.mp3", 50))
	require.NoError(t, p.Toggle())
	assert.False(t, p.Playing())

	require.NoError(t, p.Toggle())
	assert.True(t, p.Playing())

	require.NoError(t, p.SetVolume(-5))
	assert.Equal(t, 0, p.Volume())
	assert.True(t, p.Playing())
}

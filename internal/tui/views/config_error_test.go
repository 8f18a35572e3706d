package views

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asteroid-belt/studydeck/internal/config"
)

func TestConfigErrorView_ListsMissing(t *testing.T) {
	v := NewConfigErrorView(&config.ConfigError{Missing: []string{config.EnvStoreURL, config.EnvStoreKey}})
	out := v.View()

	assert.Contains(t, out, "Configuration Error")
	assert.Contains(t, out, config.EnvStoreURL)
	assert.Contains(t, out, config.EnvStoreKey)
	assert.Contains(t, out, ".env.local")
}

func TestConfigErrorView_CopyTemplate(t *testing.T) {
	v := NewConfigErrorView(&config.ConfigError{Missing: []string{config.EnvStoreURL}})
	var copied string
	v.writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	assert.Equal(t, ActionNone, v.Update(keyPress("c")))
	assert.Equal(t, config.EnvTemplate, copied)
	assert.Contains(t, v.View(), "Copied to clipboard")
}

func TestConfigErrorView_CopyFailure(t *testing.T) {
	v := NewConfigErrorView(nil)
	v.writeClipboard = func(string) error { return errors.New("no clipboard utility") }

	v.Update(keyPress("c"))
	out := v.View()
	assert.NotContains(t, out, "Copied to clipboard")
	assert.Contains(t, out, "no clipboard utility")
}

func TestConfigErrorView_Quit(t *testing.T) {
	v := NewConfigErrorView(nil)
	assert.Equal(t, ActionQuit, v.Update(keyPress("q")))
	assert.Equal(t, ActionQuit, v.Update(keyPress("esc")))
	assert.Equal(t, ActionNone, v.Update(keyPress("x")))
}

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialog_DefaultsToNo(t *testing.T) {
	d := NewConfirmDialog("Delete", "Delete 2 questions?")
	assert.False(t, d.IsYesSelected())
	assert.Equal(t, ConfirmCancelled, d.HandleKey("enter"))
}

func TestConfirmDialog_HandleKey(t *testing.T) {
	d := NewConfirmDialog("Quit", "Quit StudyDeck?")

	assert.Equal(t, ConfirmPending, d.HandleKey("tab"))
	assert.True(t, d.IsYesSelected())
	assert.Equal(t, ConfirmAccepted, d.HandleKey("enter"))

	assert.Equal(t, ConfirmAccepted, d.HandleKey("y"))
	assert.Equal(t, ConfirmCancelled, d.HandleKey("esc"))
	assert.Equal(t, ConfirmCancelled, d.HandleKey("N"))
	assert.Equal(t, ConfirmPending, d.HandleKey("x"))
}

func TestConfirmDialog_View(t *testing.T) {
	d := NewConfirmDialog("Clear chat", "Clear the Physics conversation?")
	out := d.View()
	assert.Contains(t, out, "Clear chat")
	assert.Contains(t, out, "Clear the Physics conversation?")
}

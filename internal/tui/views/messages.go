package views

import (
	"context"
	"time"

	"github.com/asteroid-belt/studydeck/internal/models"
)

// opTimeout bounds one store or network call started from a view.
const opTimeout = 30 * time.Second

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Scope is the user and subject a view is showing.
type Scope struct {
	UserID  string
	Subject models.Subject
}

// Action is what a key press asks the surrounding model to do.
type Action int

const (
	ActionNone Action = iota
	ActionBack
	ActionQuit
	ActionSignIn
)

// Package session owns the signed-in identity and notifies listeners when it
// changes.
package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"

	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/log"
)

// ErrNotSignedIn is returned by operations that need an identity.
var ErrNotSignedIn = errors.New("not signed in (run: studydeck login)")

// EventKind distinguishes session events.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
)

func (k EventKind) String() string {
	if k == SignedIn {
		return "signed_in"
	}
	return "signed_out"
}

// Event is delivered to listeners on every identity change.
type Event struct {
	Kind EventKind
	User *auth.Identity
}

// Listener receives session events.
type Listener func(Event)

// LoginFunc runs an interactive sign in. *auth.Authenticator's Login fits.
type LoginFunc func(ctx context.Context) (*oauth2.Token, error)

// IdentifyFunc loads the identity behind a token source.
type IdentifyFunc func(ctx context.Context, ts oauth2.TokenSource) (*auth.Identity, error)

// Options configure a Session.
type Options struct {
	CredentialsPath string
	Exchanger       auth.Exchanger
	Login           LoginFunc
	// Identify defaults to auth.FetchIdentity.
	Identify IdentifyFunc
}

type subscription struct {
	id int
	fn Listener
}

// Session holds the current identity. Events are delivered synchronously, in
// subscription order, on the goroutine that caused them.
type Session struct {
	opts Options

	mu        sync.Mutex
	user      *auth.Identity
	err       error
	listeners []subscription
	nextID    int
}

// New creates a signed-out session.
func New(opts Options) *Session {
	if opts.Identify == nil {
		opts.Identify = func(ctx context.Context, ts oauth2.TokenSource) (*auth.Identity, error) {
			return auth.FetchIdentity(ctx, ts)
		}
	}
	return &Session{opts: opts}
}

// Init restores persisted credentials. No credentials is not an error; the
// session simply stays signed out.
func (s *Session) Init(ctx context.Context) error {
	token, err := loadCredentials(s.opts.CredentialsPath)
	if err != nil {
		return s.fail(err)
	}
	if token == nil {
		return nil
	}

	ts := s.opts.Exchanger.TokenSource(ctx, token)
	fresh, err := ts.Token()
	if err != nil {
		log.Warnw("token refresh failed", "op", "session.init", "error", err)
		return s.fail(&auth.Error{Message: "your sign-in expired, please sign in again", Err: err})
	}
	if fresh.AccessToken != token.AccessToken {
		if err := saveCredentials(s.opts.CredentialsPath, fresh); err != nil {
			log.Printf("session: %v", err)
		}
	}
	return s.establish(ctx, ts)
}

// SignIn runs the interactive flow and persists the token.
func (s *Session) SignIn(ctx context.Context) error {
	if s.opts.Login == nil {
		return s.fail(&auth.Error{Message: "sign in is not available"})
	}
	token, err := s.opts.Login(ctx)
	if err != nil {
		return s.fail(err)
	}
	if err := saveCredentials(s.opts.CredentialsPath, token); err != nil {
		return s.fail(err)
	}
	return s.establish(ctx, s.opts.Exchanger.TokenSource(ctx, token))
}

// SignOut forgets the identity and its stored credentials.
func (s *Session) SignOut() error {
	err := removeCredentials(s.opts.CredentialsPath)

	s.mu.Lock()
	s.user = nil
	s.err = err
	s.mu.Unlock()

	s.emit(Event{Kind: SignedOut})
	return err
}

// Subscribe registers fn and returns a func that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Teardown drops every listener.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = nil
}

// User returns the signed-in identity, or nil.
func (s *Session) User() *auth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// UserID returns the signed-in user's id, or ErrNotSignedIn.
func (s *Session) UserID() (string, error) {
	if u := s.User(); u != nil {
		return u.ID, nil
	}
	return "", ErrNotSignedIn
}

// Err returns the last sign-in error, cleared by a successful sign in.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) establish(ctx context.Context, ts oauth2.TokenSource) error {
	user, err := s.opts.Identify(ctx, ts)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.user = user
	s.err = nil
	s.mu.Unlock()

	s.emit(Event{Kind: SignedIn, User: user})
	return nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}

func (s *Session) emit(ev Event) {
	s.mu.Lock()
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}

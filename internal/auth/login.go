package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/asteroid-belt/studydeck/internal/log"
)

// landingTimeout bounds how long the callback server stays up for the browser
// to load the landing page after the flow finished.
const landingTimeout = 3 * time.Second

// Authenticator runs the browser sign-in flow.
type Authenticator struct {
	exchanger Exchanger
	addr      string

	// OpenURL shows the consent page. It defaults to the system browser.
	OpenURL func(url string) error
}

// NewAuthenticator creates an authenticator listening on 127.0.0.1:port.
func NewAuthenticator(exchanger Exchanger, port int) *Authenticator {
	return &Authenticator{
		exchanger: exchanger,
		addr:      fmt.Sprintf("127.0.0.1:%d", port),
		OpenURL:   OpenBrowser,
	}
}

// AuthURL returns the consent URL for state. Offline access and forced consent
// make the provider issue a refresh token every time.
func (a *Authenticator) AuthURL(state string) string {
	return a.exchanger.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Login opens the consent page and blocks until the callback delivers a token
// or ctx ends.
func (a *Authenticator) Login(ctx context.Context) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return nil, &Error{Message: "could not start the sign-in callback server", Err: err}
	}

	state := uuid.New().String()
	flow := newCallbackFlow(a.exchanger, state)
	srv := &http.Server{
		Handler:           flow.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("auth callback server: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := a.AuthURL(state)
	if a.OpenURL != nil {
		if err := a.OpenURL(authURL); err != nil {
			log.Printf("open browser failed, visit %s", authURL)
		}
	}

	token, err := flow.wait(ctx)
	if ctx.Err() == nil && !flow.waitLanding(landingTimeout) {
		log.Printf("auth callback: landing page was not requested")
	}
	if err != nil {
		log.Warnw("sign in failed", "op", "auth.login", "error", err)
		return nil, err
	}
	return token, nil
}

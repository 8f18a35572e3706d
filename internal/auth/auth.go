// Package auth signs the user in with Google through a loopback OAuth flow.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/asteroid-belt/studydeck/internal/config"
)

// CallbackPath is the loopback redirect path registered with the provider.
const CallbackPath = "/auth/callback"

// Scopes requested at sign in.
var Scopes = []string{"openid", "email", "profile"}

// Error is an authentication failure with a message fit for the sign-in screen.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Identity is the signed-in user as reported by the provider.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Exchanger is the part of *oauth2.Config the flow needs.
type Exchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	TokenSource(ctx context.Context, t *oauth2.Token) oauth2.TokenSource
}

// NewOAuthConfig returns the Google OAuth client for cfg. The client id is the
// store's public key.
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.Store.PublicKey,
		ClientSecret: cfg.Auth.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  RedirectURL(cfg.Auth.CallbackPort),
		Scopes:       Scopes,
	}
}

// RedirectURL returns the loopback callback URL for port.
func RedirectURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", port, CallbackPath)
}

// FetchIdentity loads the user's profile with the token from ts.
func FetchIdentity(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*Identity, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, &Error{Message: "could not load your Google profile", Err: err}
	}
	if info.Id == "" {
		return nil, &Error{Message: "Google returned a profile without an id"}
	}
	return &Identity{
		ID:        info.Id,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}

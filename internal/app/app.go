// Package app wires the store, blob buckets, session, tutor provider and
// notes client into one handle shared by the CLI, the TUI and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/chat"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/db"
	"github.com/asteroid-belt/studydeck/internal/llm"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/logbook"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/notes"
	"github.com/asteroid-belt/studydeck/internal/playlist"
	"github.com/asteroid-belt/studydeck/internal/session"
	"github.com/asteroid-belt/studydeck/internal/storage"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tracker"
	"github.com/asteroid-belt/studydeck/pkg/version"
)

// App is the wired application.
type App struct {
	Cfg       *config.Config
	DB        *db.DB
	Buckets   *storage.Buckets
	Session   *session.Session
	Notes     *notes.Client
	Telemetry telemetry.Client

	// Provider is nil when no LLM key is configured.
	Provider llm.Provider

	unsubscribe []func()
	now         func() time.Time
}

// New validates cfg and opens every dependency. A *config.ConfigError is
// returned unwrapped so callers can show the remediation screen.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbCfg := db.DefaultConfig(cfg.Store.URL)
	dbCfg.Debug = cfg.Store.Debug
	database, err := db.New(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	buckets, err := storage.Open(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	oauthCfg := auth.NewOAuthConfig(cfg)
	authenticator := auth.NewAuthenticator(oauthCfg, cfg.Auth.CallbackPort)
	sess := session.New(session.Options{
		CredentialsPath: config.GetPaths(cfg).Credentials,
		Exchanger:       oauthCfg,
		Login:           authenticator.Login,
	})

	a := &App{
		Cfg:       cfg,
		DB:        database,
		Buckets:   buckets,
		Session:   sess,
		Notes:     notes.NewClient(cfg.GitHub),
		Telemetry: telemetry.New(database),
		now:       time.Now,
	}
	// The tracking listener runs first so it still sees a missing profile on
	// a first sign in.
	a.unsubscribe = append(a.unsubscribe,
		sess.Subscribe(a.trackSession),
		sess.Subscribe(session.ProfileProvisioner(database)),
	)

	if llm.IsConfigured(cfg.LLM) {
		provider, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			log.Warnw("llm provider unavailable", "op", "app.new", "error", err)
		} else {
			a.Provider = provider
		}
	}

	prev, err := database.RecordAppVersion(version.Version)
	switch {
	case err != nil:
		log.Warnw("record app version failed", "op", "app.new", "error", err)
	case prev != "" && version.IsOlderThan(prev):
		log.Warnw("store was last written by a newer studydeck", "store_version", prev, "version", version.Version)
	}

	return a, nil
}

// Restore signs in from stored credentials. An expired token leaves the
// session signed out and returns the *auth.Error to show.
func (a *App) Restore(ctx context.Context) error {
	return a.Session.Init(ctx)
}

// UserID returns the signed-in user's id or session.ErrNotSignedIn.
func (a *App) UserID() (string, error) {
	return a.Session.UserID()
}

// Tracker returns a checklist tracker over the store.
func (a *App) Tracker() *tracker.Tracker {
	return tracker.New(a.DB)
}

// Questions returns an empty question log over the store.
func (a *App) Questions() *logbook.QuestionLog {
	return logbook.NewQuestionLog(logbook.QuestionStore{DB: a.DB})
}

// Activities returns an empty activity log over the store.
func (a *App) Activities() *logbook.ActivityLog {
	return logbook.NewActivityLog(logbook.ActivityStore{DB: a.DB})
}

// Relay returns a tutor relay using the configured provider.
func (a *App) Relay() *chat.Relay {
	return chat.NewRelay(a.Provider, a.DB, a.Buckets.Images, a.Cfg.LLM)
}

// Library returns the audio library over the audio bucket.
func (a *App) Library() *playlist.Library {
	return playlist.NewLibrary(a.DB, a.Buckets.Audio)
}

// NotesBrowser returns a browser over the GitHub client.
func (a *App) NotesBrowser() *notes.Browser {
	return notes.NewBrowser(a.Notes)
}

// NotesRepo returns the user's saved notes repository URL, empty if unset.
func (a *App) NotesRepo(ctx context.Context, userID string) (string, error) {
	p, err := a.DB.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", nil
	}
	return p.NotesRepoURL, nil
}

// SetNotesRepo saves the user's notes repository URL.
func (a *App) SetNotesRepo(ctx context.Context, userID, url string) error {
	if err := a.DB.SetNotesRepo(ctx, userID, url); err != nil {
		return fmt.Errorf("save notes repo: %w", err)
	}
	return nil
}

// StudyToday returns today's recorded study seconds.
func (a *App) StudyToday(ctx context.Context, userID string) (int64, error) {
	return a.DB.GetStudySeconds(ctx, userID, models.SessionDate(a.now()))
}

// RecordStudy adds seconds to today's total and returns the new total.
func (a *App) RecordStudy(ctx context.Context, userID string, seconds int64) (int64, error) {
	total, err := a.DB.AddStudySeconds(ctx, userID, models.SessionDate(a.now()), seconds)
	if err != nil {
		log.Warnw("record study failed", "op", "app.record_study", "user", userID, "seconds", seconds, "error", err)
		return 0, fmt.Errorf("record study: %w", err)
	}
	a.Telemetry.TrackStudyCommitted(seconds)
	return total, nil
}

// StudyHistory returns the last days days of study, oldest first.
func (a *App) StudyHistory(ctx context.Context, userID string, days int) ([]models.StudySession, error) {
	return a.DB.StudyHistory(ctx, userID, a.now(), days)
}

func (a *App) trackSession(ev session.Event) {
	switch ev.Kind {
	case session.SignedIn:
		firstTime := false
		if ev.User != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			p, err := a.DB.GetProfile(ctx, ev.User.ID)
			cancel()
			firstTime = err == nil && p == nil
		}
		a.Telemetry.TrackSignedIn(firstTime)
	case session.SignedOut:
		a.Telemetry.TrackSignedOut()
	}
}

// Close releases everything New opened.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	a.Session.Teardown()
	a.Telemetry.Close()
	return errors.Join(a.Buckets.Close(), a.DB.Close())
}

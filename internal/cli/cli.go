// Package cli provides the command-line interface for studydeck.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/session"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/pkg/version"
)

// Options carry what main opened before handing over to the CLI.
type Options struct {
	Config *config.Config
	// App is nil when configuration is incomplete; StartErr then says why.
	App       *app.App
	StartErr  error
	Telemetry telemetry.Client
}

var (
	telemetryClient  telemetry.Client
	cfg              *config.Config
	deck             *app.App
	startErr         error
	restored         bool
	commandStartTime time.Time
)

var rootCmd = &cobra.Command{
	Use:   "studydeck",
	Short: "JEE study planner for the terminal",
	Long: `JEE study planner for the terminal

Track syllabus progress, log questions and activities, time study
sessions, browse your notes repository and ask the subject tutor.

Run without arguments to launch the interactive TUI.

Telemetry:
  Telemetry is enabled by default, always anonymous, and will never track
  your notes, questions, tutor messages or IP address.

  Opt-out with:
  	STUDYDECK_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	RunE:         runTUI,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// The TUI reports its own session.
		if cmd.Name() != "studydeck" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.CommandPath(), hasFlags, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(exportCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, opts Options) error {
	telemetryClient = opts.Telemetry
	if telemetryClient == nil {
		telemetryClient = telemetry.New(nil)
	}
	cfg = opts.Config
	deck = opts.App
	startErr = opts.StartErr

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)

	if rootCmd.CalledAs() != "" && rootCmd.CalledAs() != "studydeck" {
		durationMs := time.Since(commandStartTime).Milliseconds()
		telemetryClient.TrackAppExited("cli", durationMs, 1)
	}

	return err
}

// ensureApp returns the wired app or the reason it could not be built.
func ensureApp(cmdName string) (*app.App, error) {
	if deck != nil {
		return deck, nil
	}
	if startErr == nil {
		startErr = errors.New("studydeck is not initialized")
	}
	return nil, trackCLIError(cmdName, startErr)
}

// ensureReady returns the wired app and the signed-in user's id. The stored
// session is restored on first use.
func ensureReady(ctx context.Context, cmdName string) (*app.App, string, error) {
	a, err := ensureApp(cmdName)
	if err != nil {
		return nil, "", err
	}
	if !restored {
		restored = true
		if err := a.Restore(ctx); err != nil {
			return nil, "", trackCLIError(cmdName, err)
		}
	}
	userID, err := a.UserID()
	if err != nil {
		return nil, "", trackCLIError(cmdName, err)
	}
	return a, userID, nil
}

// parseSubject resolves a subject argument.
func parseSubject(arg string) (models.Subject, error) {
	subject, ok := models.ParseSubject(arg)
	if !ok {
		return "", fmt.Errorf("invalid subject %q (want maths, physics or chemistry)", arg)
	}
	return subject, nil
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	errorType := classifyError(err)
	telemetryClient.TrackCLIError(cmdName, errorType)
	log.Warnw("command failed", "op", "cli."+cmdName, "type", errorType, "error", err)
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	var authErr *auth.Error
	switch {
	case config.IsConfigError(err):
		return "config_error"
	case errors.As(err, &authErr), errors.Is(err, session.ErrNotSignedIn):
		return "auth_error"
	}

	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration"):
		return "config_error"
	case containsAny(errStr, "database", "db", "store"):
		return "database_error"
	case containsAny(errStr, "network", "timeout", "connection", "rate limit"):
		return "network_error"
	case containsAny(errStr, "permission", "access denied"):
		return "permission_error"
	case containsAny(errStr, "not found", "does not exist", "no such"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

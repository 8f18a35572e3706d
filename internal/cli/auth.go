package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Open the Google consent page in your browser and wait for the
redirect on the local callback port (STUDYDECK_OAUTH_PORT, default 8765).

The refresh token is stored in ~/.studydeck/credentials.json.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := ensureApp("login")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Opening your browser to sign in...")
	if err := a.Session.SignIn(cmd.Context()); err != nil {
		return trackCLIError("login", err)
	}
	printIdentity(out, a.Session.User())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := ensureApp("logout")
	if err != nil {
		return err
	}
	if err := a.Session.SignOut(); err != nil {
		return trackCLIError("logout", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, _, err := ensureReady(cmd.Context(), "whoami")
	if err != nil {
		var authErr *auth.Error
		if errors.Is(err, session.ErrNotSignedIn) || errors.As(err, &authErr) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not signed in. Run `studydeck login`.")
			return nil
		}
		return err
	}
	printIdentity(cmd.OutOrStdout(), a.Session.User())
	return nil
}

func printIdentity(w io.Writer, id *auth.Identity) {
	if id == nil {
		_, _ = fmt.Fprintln(w, "Not signed in.")
		return
	}
	name := id.Name
	if name == "" {
		name = id.Email
	}
	_, _ = fmt.Fprintf(w, "✓ Signed in as %s <%s>\n", name, id.Email)
	_, _ = fmt.Fprintf(w, "  User ID: %s\n", id.ID)
}

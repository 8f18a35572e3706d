package cli

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/notes"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Browse your GitHub notes repository",
	Long: `Browse the markdown and text files of your notes repository.

Set the repository once with 'studydeck notes set <github-url>'. A
GITHUB_TOKEN raises the API rate limit and allows private repositories.`,
}

var notesLsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory of the notes repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		b, err := openNotes(cmd.Context(), "notes.ls")
		if err != nil {
			return err
		}
		if err := b.Load(cmd.Context(), dir); err != nil {
			return trackCLIError("notes.ls", err)
		}
		printNotesDir(cmd.OutOrStdout(), b)
		return nil
	},
}

var notesHTML bool

var notesCatCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openNotes(cmd.Context(), "notes.cat")
		if err != nil {
			return err
		}
		entry, err := findNote(cmd.Context(), b, args[0])
		if err != nil {
			return trackCLIError("notes.cat", err)
		}
		if err := b.Open(cmd.Context(), entry); err != nil {
			return trackCLIError("notes.cat", err)
		}
		telemetryClient.TrackNotesFileOpened(path.Ext(entry.Name))

		out := cmd.OutOrStdout()
		if notesHTML {
			doc, err := notes.RenderHTML(b.Content())
			if err != nil {
				return trackCLIError("notes.cat", err)
			}
			_, _ = fmt.Fprint(out, doc.HTML)
			return nil
		}
		if strings.EqualFold(path.Ext(entry.Name), ".md") {
			_, _ = fmt.Fprintln(out, notes.RenderTerminal(b.Content(), 100))
			return nil
		}
		_, _ = fmt.Fprintln(out, b.Content())
		return nil
	},
}

var notesSetCmd = &cobra.Command{
	Use:   "set <github-url>",
	Short: "Save the notes repository URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := notes.ParseRepoURL(args[0])
		if err != nil {
			return trackCLIError("notes.set", err)
		}
		a, userID, err := ensureReady(cmd.Context(), "notes.set")
		if err != nil {
			return err
		}
		if err := a.SetNotesRepo(cmd.Context(), userID, repo.URL()); err != nil {
			return trackCLIError("notes.set", err)
		}
		telemetryClient.TrackNotesRepoSet()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Notes repository set to %s\n", repo)
		return nil
	},
}

func init() {
	notesCatCmd.Flags().BoolVar(&notesHTML, "html", false, "Print markdown rendered as HTML")
	notesCmd.AddCommand(notesLsCmd, notesCatCmd, notesSetCmd)
}

// openNotes returns a browser on the user's saved repository.
func openNotes(ctx context.Context, cmdName string) (*notes.Browser, error) {
	a, userID, err := ensureReady(ctx, cmdName)
	if err != nil {
		return nil, err
	}
	return notesBrowserFor(ctx, a, userID, cmdName)
}

func notesBrowserFor(ctx context.Context, a *app.App, userID, cmdName string) (*notes.Browser, error) {
	repoURL, err := a.NotesRepo(ctx, userID)
	if err != nil {
		return nil, trackCLIError(cmdName, fmt.Errorf("load profile: %w", err))
	}
	if repoURL == "" {
		return nil, trackCLIError(cmdName, fmt.Errorf("no notes repository configured (run: studydeck notes set <github-url>)"))
	}
	b := a.NotesBrowser()
	if err := b.SetRepo(repoURL); err != nil {
		return nil, trackCLIError(cmdName, err)
	}
	return b, nil
}

// findNote lists the parent directory of p and returns its file entry.
func findNote(ctx context.Context, b *notes.Browser, p string) (notes.Entry, error) {
	p = strings.Trim(p, "/")
	if err := b.Load(ctx, notes.Parent(p)); err != nil {
		return notes.Entry{}, err
	}
	for _, e := range b.Entries() {
		if e.Path == p {
			if e.IsDir() {
				return notes.Entry{}, fmt.Errorf("%s is a directory", p)
			}
			return e, nil
		}
	}
	return notes.Entry{}, fmt.Errorf("note %q not found", p)
}

func printNotesDir(w io.Writer, b *notes.Browser) {
	repo, _ := b.Repo()
	where := repo.String()
	if b.Path() != "" {
		where += "/" + b.Path()
	}
	_, _ = fmt.Fprintln(w, where)
	if len(b.Entries()) == 0 {
		_, _ = fmt.Fprintln(w, "  (no markdown or text files)")
		return
	}
	for _, e := range b.Entries() {
		if e.IsDir() {
			_, _ = fmt.Fprintf(w, "  📁 %s/\n", e.Name)
		} else {
			_, _ = fmt.Fprintf(w, "  📄 %s\n", e.Name)
		}
	}
}

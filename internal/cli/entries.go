package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/cli/prompts"
	"github.com/asteroid-belt/studydeck/internal/logbook"
	"github.com/asteroid-belt/studydeck/internal/models"
)

// shortIDLen is how much of an entry id list output shows. Any unique
// prefix is accepted back.
const shortIDLen = 8

// entryRow is the display form shared by questions and activities.
type entryRow struct {
	ID     string
	Name   string
	Status models.EntryStatus
	Link   string
	Doubts string
	Stamp  string
}

// entryKind describes one of the two logs to the generic commands.
type entryKind[T any, D logbook.Draft[T]] struct {
	name   string // singular, e.g. "question"
	plural string
	open   func(*app.App) *logbook.Log[T, D]
	row    func(T) entryRow
	draft  func(prompts.EntryFields) D
}

var questionKind = entryKind[models.QuestionEntry, logbook.QuestionDraft]{
	name:   "question",
	plural: "questions",
	open:   (*app.App).Questions,
	row: func(q models.QuestionEntry) entryRow {
		return entryRow{ID: q.ID, Name: q.Name, Status: q.Status, Link: q.Link, Doubts: q.Doubts, Stamp: q.Date}
	},
	draft: func(f prompts.EntryFields) logbook.QuestionDraft {
		return logbook.QuestionDraft{Name: f.Name, Status: f.Status, Link: f.Link, Doubts: f.Doubts}
	},
}

var activityKind = entryKind[models.ActivityEntry, logbook.ActivityDraft]{
	name:   "activity",
	plural: "activities",
	open:   (*app.App).Activities,
	row: func(a models.ActivityEntry) entryRow {
		return entryRow{ID: a.ID, Name: a.Name, Status: a.Status, Link: a.ReferenceLink, Doubts: a.Doubts, Stamp: a.Datetime}
	},
	draft: func(f prompts.EntryFields) logbook.ActivityDraft {
		return logbook.ActivityDraft{Name: f.Name, Status: f.Status, ReferenceLink: f.Link, Doubts: f.Doubts}
	},
}

var questionsCmd = newEntryCmd(questionKind)

var activitiesCmd = newEntryCmd(activityKind)

func newEntryCmd[T any, D logbook.Draft[T]](k entryKind[T, D]) *cobra.Command {
	root := &cobra.Command{
		Use:   k.plural,
		Short: fmt.Sprintf("Manage the %s log", k.name),
		Long: fmt.Sprintf(`Manage the per-subject %s log.

Statuses cycle Not Started -> In Progress -> Completed -> Not Started.
Entry ids may be abbreviated to any unique prefix.`, k.name),
	}

	list := &cobra.Command{
		Use:   "list <subject>",
		Short: fmt.Sprintf("List %s, newest first", k.plural),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLog(cmd, k, k.plural+".list", args[0])
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), k, l.Entries())
			return nil
		},
	}

	var fields prompts.EntryFields
	var status string
	var interactive bool
	add := &cobra.Command{
		Use:   "add <subject> [name]",
		Short: fmt.Sprintf("Add a %s", k.name),
		Long: fmt.Sprintf(`Add a %s to a subject's log.

Without a name, or with --interactive, a form asks for the missing fields.`, k.name),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdName := k.plural + ".add"
			l, err := openLog(cmd, k, cmdName, args[0])
			if err != nil {
				return err
			}
			f := fields
			if len(args) == 2 {
				f.Name = args[1]
			}
			if status != "" {
				f.Status = models.ParseStatus(status)
			}
			if f.Name == "" || interactive {
				if err := prompts.RunEntryForm(k.name, &f); err != nil {
					return trackCLIError(cmdName, err)
				}
			}

			entry, res := l.Add(cmd.Context(), k.draft(f))
			if !res.Committed() {
				return trackCLIError(cmdName, res.Err)
			}
			telemetryClient.TrackEntryAdded(k.name, string(l.Subject()))
			r := k.row(entry)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s %s: %s [%s]\n", k.name, shortID(r.ID), r.Name, r.Status)
			return nil
		},
	}
	add.Flags().StringVar(&status, "status", "", "Initial status (not-started, in-progress, completed)")
	add.Flags().StringVar(&fields.Link, "link", "", "Reference link")
	add.Flags().StringVar(&fields.Doubts, "doubts", "", "Open doubts")
	add.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the remaining fields in a form")

	cycle := &cobra.Command{
		Use:   "cycle <subject> <id>",
		Short: fmt.Sprintf("Advance a %s's status", k.name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdName := k.plural + ".cycle"
			l, err := openLog(cmd, k, cmdName, args[0])
			if err != nil {
				return err
			}
			id, err := resolveID(entryIDs(k, l.Entries()), args[1])
			if err != nil {
				return trackCLIError(cmdName, err)
			}
			next, res := l.Cycle(cmd.Context(), id)
			telemetryClient.TrackEntryCycled(k.name, string(next), res.Outcome.String())
			if !res.Committed() {
				return trackCLIError(cmdName, res.Err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s is now %s\n", capitalize(k.name), shortID(id), next)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <subject> <id>...",
		Aliases: []string{"delete"},
		Short:   fmt.Sprintf("Delete %s", k.plural),
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdName := k.plural + ".rm"
			l, err := openLog(cmd, k, cmdName, args[0])
			if err != nil {
				return err
			}
			known := entryIDs(k, l.Entries())
			ids := make([]string, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := resolveID(known, arg)
				if err != nil {
					return trackCLIError(cmdName, err)
				}
				ids = append(ids, id)
			}
			res := l.Delete(cmd.Context(), ids)
			telemetryClient.TrackEntriesDeleted(k.name, len(ids), res.Outcome.String())
			if !res.Committed() {
				return trackCLIError(cmdName, res.Err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d %s\n", len(ids), pluralize(len(ids), k.name, k.plural))
			return nil
		},
	}

	root.AddCommand(list, add, cycle, rm)
	return root
}

func openLog[T any, D logbook.Draft[T]](cmd *cobra.Command, k entryKind[T, D], cmdName, subjectArg string) (*logbook.Log[T, D], error) {
	subject, err := parseSubject(subjectArg)
	if err != nil {
		return nil, trackCLIError(cmdName, err)
	}
	a, userID, err := ensureReady(cmd.Context(), cmdName)
	if err != nil {
		return nil, err
	}
	l := k.open(a)
	if err := l.Load(cmd.Context(), userID, subject); err != nil {
		return nil, trackCLIError(cmdName, err)
	}
	return l, nil
}

func printEntries[T any, D logbook.Draft[T]](w io.Writer, k entryKind[T, D], entries []T) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(w, "No %s yet.\n", k.plural)
		return
	}
	_, _ = fmt.Fprintf(w, "%s (%d)\n", strings.ToUpper(k.plural), len(entries))
	_, _ = fmt.Fprintln(w, "──────────────────────────────────────────────────")
	for _, e := range entries {
		r := k.row(e)
		_, _ = fmt.Fprintf(w, "  %s %s  %s\n", statusMark(r.Status), shortID(r.ID), r.Name)
		_, _ = fmt.Fprintf(w, "    %s · %s\n", r.Status, r.Stamp)
		if r.Link != "" {
			_, _ = fmt.Fprintf(w, "    %s\n", r.Link)
		}
		if r.Doubts != "" {
			_, _ = fmt.Fprintf(w, "    ? %s\n", firstLine(r.Doubts))
		}
	}
}

func entryIDs[T any, D logbook.Draft[T]](k entryKind[T, D], entries []T) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = k.row(e).ID
	}
	return ids
}

// resolveID matches arg against ids exactly or as a unique prefix.
func resolveID(ids []string, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("invalid id %q", arg)
	}
	var matches []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("entry %q not found", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func statusMark(s models.EntryStatus) string {
	switch s {
	case models.StatusCompleted:
		return "✓"
	case models.StatusInProgress:
		return "◐"
	default:
		return "○"
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/auth"
	"github.com/asteroid-belt/studydeck/internal/logbook"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tui/components"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// EntryRow is the display form shared by questions and activities.
type EntryRow struct {
	ID     string
	Name   string
	Status models.EntryStatus
	Link   string
	Doubts string
	Stamp  string
}

// EntryFields are the values collected by the add form.
type EntryFields struct {
	Name   string
	Status models.EntryStatus
	Link   string
	Doubts string
}

// EntryKind adapts one log type to the generic view.
type EntryKind[T any, D logbook.Draft[T]] struct {
	Name   string // singular, e.g. "question"
	Plural string
	Row    func(T) EntryRow
	Draft  func(EntryFields) D
}

// QuestionKind describes the question log.
var QuestionKind = EntryKind[models.QuestionEntry, logbook.QuestionDraft]{
	Name:   "question",
	Plural: "questions",
	Row: func(q models.QuestionEntry) EntryRow {
		return EntryRow{ID: q.ID, Name: q.Name, Status: q.Status, Link: q.Link, Doubts: q.Doubts, Stamp: q.Date}
	},
	Draft: func(f EntryFields) logbook.QuestionDraft {
		return logbook.QuestionDraft{Name: f.Name, Status: f.Status, Link: f.Link, Doubts: f.Doubts}
	},
}

// ActivityKind describes the activity log.
var ActivityKind = EntryKind[models.ActivityEntry, logbook.ActivityDraft]{
	Name:   "activity",
	Plural: "activities",
	Row: func(a models.ActivityEntry) EntryRow {
		return EntryRow{ID: a.ID, Name: a.Name, Status: a.Status, Link: a.ReferenceLink, Doubts: a.Doubts, Stamp: a.Datetime}
	},
	Draft: func(f EntryFields) logbook.ActivityDraft {
		return logbook.ActivityDraft{Name: f.Name, Status: f.Status, ReferenceLink: f.Link, Doubts: f.Doubts}
	},
}

// EntriesLoadedMsg is sent when a log has been read.
type EntriesLoadedMsg struct {
	Kind  string
	Scope Scope
	Err   error
}

// EntryAddedMsg is sent when an add has been written or rejected.
type EntryAddedMsg struct {
	Kind   string
	Result mutation.Result
}

// EntryCycledMsg is sent when a status change has been written.
type EntryCycledMsg struct {
	Kind   string
	Status models.EntryStatus
	Result mutation.Result
}

// EntriesDeletedMsg is sent when a batch delete returns.
type EntriesDeletedMsg struct {
	Kind   string
	Count  int
	Result mutation.Result
}

const (
	fieldName = iota
	fieldStatus
	fieldLink
	fieldDoubts
	fieldCount
)

// EntriesView lists one subject's questions or activities.
type EntriesView[T any, D logbook.Draft[T]] struct {
	kind      EntryKind[T, D]
	log       *logbook.Log[T, D]
	telemetry telemetry.Client
	gate      gate

	// Snapshot of the log, refreshed whenever no call is in flight.
	scope      Scope
	rows       []EntryRow
	deleteMode bool
	selected   map[string]bool
	loaded     bool

	cursor  int
	err     error
	notice  string
	confirm *components.ConfirmDialog

	adding   bool
	focus    int
	status   int
	inputs   [fieldCount]textinput.Model
	formErr  error
	openLink func(string) error
	width    int
	height   int
}

// NewEntriesView creates a list view over l.
func NewEntriesView[T any, D logbook.Draft[T]](kind EntryKind[T, D], l *logbook.Log[T, D], tc telemetry.Client) *EntriesView[T, D] {
	v := &EntriesView[T, D]{
		kind:      kind,
		log:       l,
		telemetry: tc,
		selected:  map[string]bool{},
		openLink:  auth.OpenBrowser,
	}
	placeholders := [fieldCount]string{
		fieldName:   capitalize(kind.Name) + " name",
		fieldLink:   "https://…",
		fieldDoubts: "Open doubts",
	}
	for i := range v.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 500
		ti.Width = 60
		ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Current.Accent)
		ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Current.Text)
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Current.TextMuted)
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Current.Primary)
		v.inputs[i] = ti
	}
	v.inputs[fieldName].CharLimit = 200
	return v
}

// Kind returns the singular entry name routing messages to this view.
func (v *EntriesView[T, D]) Kind() string {
	return v.kind.Name
}

// SetSize sets the width and height of the view.
func (v *EntriesView[T, D]) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Typing reports whether key presses go to a text field.
func (v *EntriesView[T, D]) Typing() bool {
	return v.adding || v.confirm != nil
}

// Load reads scope's entries. It waits for an in-flight call.
func (v *EntriesView[T, D]) Load(scope Scope) tea.Cmd {
	return v.gate.queue(func() tea.Cmd {
		v.scope = scope
		v.loaded = false
		v.err = nil
		v.notice = ""
		v.cursor = 0
		v.adding = false
		v.confirm = nil
		l, kind := v.log, v.kind.Name
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			return EntriesLoadedMsg{Kind: kind, Scope: scope, Err: l.Load(ctx, scope.UserID, scope.Subject)}
		})
	})
}

// HandleLoaded installs a loaded log.
func (v *EntriesView[T, D]) HandleLoaded(msg EntriesLoadedMsg) tea.Cmd {
	if msg.Scope == v.scope {
		v.err = msg.Err
		v.loaded = true
	}
	v.refresh()
	return v.gate.done()
}

// HandleAdded closes the form on success and keeps it open with the error
// otherwise.
func (v *EntriesView[T, D]) HandleAdded(msg EntryAddedMsg) tea.Cmd {
	v.refresh()
	if msg.Result.Committed() {
		v.telemetry.TrackEntryAdded(v.kind.Name, string(v.scope.Subject))
		v.closeForm()
		v.cursor = 0
		v.notice = "Added " + v.kind.Name
	} else {
		v.formErr = msg.Result.Err
	}
	return v.gate.done()
}

// HandleCycled reports a status change that did not reach the store.
func (v *EntriesView[T, D]) HandleCycled(msg EntryCycledMsg) tea.Cmd {
	v.refresh()
	v.telemetry.TrackEntryCycled(v.kind.Name, string(msg.Status), msg.Result.Outcome.String())
	v.err = nil
	if msg.Result.Diverged() {
		v.err = fmt.Errorf("saved locally only: %w", msg.Result.Err)
	} else if !msg.Result.Committed() {
		v.err = msg.Result.Err
	}
	return v.gate.done()
}

// HandleDeleted leaves delete mode on success.
func (v *EntriesView[T, D]) HandleDeleted(msg EntriesDeletedMsg) tea.Cmd {
	v.telemetry.TrackEntriesDeleted(v.kind.Name, msg.Count, msg.Result.Outcome.String())
	if msg.Result.Committed() {
		v.notice = fmt.Sprintf("Deleted %d %s", msg.Count, pluralize(msg.Count, v.kind.Name, v.kind.Plural))
		v.err = nil
	} else {
		v.err = msg.Result.Err
	}
	v.refresh()
	v.cursor = min(v.cursor, max(0, len(v.rows)-1))
	return v.gate.done()
}

// refresh copies the log into the snapshot. Only called while idle.
func (v *EntriesView[T, D]) refresh() {
	entries := v.log.Entries()
	v.rows = make([]EntryRow, len(entries))
	for i, e := range entries {
		v.rows[i] = v.kind.Row(e)
	}
	v.deleteMode = v.log.DeleteMode()
	v.selected = map[string]bool{}
	for _, id := range v.log.Selected() {
		v.selected[id] = true
	}
}

// Update handles key input.
func (v *EntriesView[T, D]) Update(msg tea.KeyMsg) tea.Cmd {
	if v.confirm != nil {
		return v.updateConfirm(msg)
	}
	if v.adding {
		return v.updateForm(msg)
	}
	if !v.loaded || v.gate.busy {
		return nil
	}

	v.notice = ""
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "a", "n":
		if !v.deleteMode {
			v.openForm()
			return textinput.Blink
		}
	case "d":
		v.log.ToggleDeleteMode()
		v.refresh()
	case " ":
		if v.deleteMode && len(v.rows) > 0 {
			v.log.ToggleSelected(v.rows[v.cursor].ID)
			v.refresh()
		}
	case "enter":
		if len(v.rows) == 0 {
			return nil
		}
		if v.deleteMode {
			if n := len(v.selected); n > 0 {
				v.confirm = components.NewConfirmDialog(
					"Delete "+v.kind.Plural,
					fmt.Sprintf("Delete %d %s? This cannot be undone.", n, pluralize(n, v.kind.Name, v.kind.Plural)),
				)
			}
			return nil
		}
		return v.cycle(v.rows[v.cursor].ID)
	case "o":
		if len(v.rows) > 0 && v.rows[v.cursor].Link != "" {
			if err := v.openLink(v.rows[v.cursor].Link); err != nil {
				v.err = fmt.Errorf("open link: %w", err)
			}
		}
	case "esc":
		if v.deleteMode {
			v.log.ToggleDeleteMode()
			v.refresh()
		}
	}
	return nil
}

func (v *EntriesView[T, D]) cycle(id string) tea.Cmd {
	l, kind := v.log, v.kind.Name
	return v.gate.run(func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		status, res := l.Cycle(ctx, id)
		return EntryCycledMsg{Kind: kind, Status: status, Result: res}
	})
}

func (v *EntriesView[T, D]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch v.confirm.HandleKey(msg.String()) {
	case components.ConfirmAccepted:
		v.confirm = nil
		l, kind, n := v.log, v.kind.Name, len(v.selected)
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			return EntriesDeletedMsg{Kind: kind, Count: n, Result: l.DeleteSelected(ctx)}
		})
	case components.ConfirmCancelled:
		v.confirm = nil
	}
	return nil
}

func (v *EntriesView[T, D]) openForm() {
	v.adding = true
	v.formErr = nil
	v.status = 0
	v.focus = fieldName
	for i := range v.inputs {
		v.inputs[i].SetValue("")
		v.inputs[i].Blur()
	}
	v.inputs[fieldName].Focus()
}

func (v *EntriesView[T, D]) closeForm() {
	v.adding = false
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
}

func (v *EntriesView[T, D]) setFocus(i int) {
	v.inputs[v.focus].Blur()
	v.focus = (i + fieldCount) % fieldCount
	if v.focus != fieldStatus {
		v.inputs[v.focus].Focus()
	}
}

func (v *EntriesView[T, D]) updateForm(msg tea.KeyMsg) tea.Cmd {
	if v.gate.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.closeForm()
		return nil
	case "tab", "down":
		v.setFocus(v.focus + 1)
		return nil
	case "shift+tab", "up":
		v.setFocus(v.focus - 1)
		return nil
	case "enter":
		return v.submit()
	}

	if v.focus == fieldStatus {
		switch msg.String() {
		case "left", "h":
			v.status = (v.status + len(models.Statuses) - 1) % len(models.Statuses)
		case "right", "l", " ":
			v.status = (v.status + 1) % len(models.Statuses)
		}
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *EntriesView[T, D]) submit() tea.Cmd {
	fields := EntryFields{
		Name:   strings.TrimSpace(v.inputs[fieldName].Value()),
		Status: models.Statuses[v.status],
		Link:   strings.TrimSpace(v.inputs[fieldLink].Value()),
		Doubts: strings.TrimSpace(v.inputs[fieldDoubts].Value()),
	}
	if fields.Name == "" {
		v.formErr = fmt.Errorf("%s name is required", v.kind.Name)
		return nil
	}
	v.formErr = nil
	l, kind, draft := v.log, v.kind.Name, v.kind.Draft(fields)
	return v.gate.run(func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		_, res := l.Add(ctx, draft)
		return EntryAddedMsg{Kind: kind, Result: res}
	})
}

// View renders the list, or the add form while it is open.
func (v *EntriesView[T, D]) View() string {
	if v.confirm != nil {
		return v.confirm.CenteredView(v.width, max(v.height, 10))
	}
	if v.adding {
		return v.viewForm()
	}
	if !v.loaded {
		return mutedStyle().Render("Loading " + v.kind.Plural + "…")
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(theme.SubjectColor(v.scope.Subject)).Bold(true).
		Render(fmt.Sprintf("%s %s (%d)", v.scope.Subject.Title(), v.kind.Plural, len(v.rows)))
	b.WriteString(title)
	if v.deleteMode {
		b.WriteString("  ")
		b.WriteString(errorStyle().Render(fmt.Sprintf("DELETE MODE · %d selected", len(v.selected))))
	}
	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(errorStyle().Render("⚠ " + v.err.Error()))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(successStyle().Render("✓ " + v.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.rows) == 0 {
		b.WriteString(mutedStyle().Render(fmt.Sprintf("No %s yet. Press a to add one.", v.kind.Plural)))
		b.WriteString("\n\n")
	}

	// Each entry takes up to three lines.
	start, end := window(len(v.rows), v.cursor, max(1, (v.height-6)/3))
	nameWidth := max(20, v.width-30)
	for i := start; i < end; i++ {
		b.WriteString(v.renderRow(i, nameWidth))
	}

	b.WriteString("\n")
	switch {
	case v.deleteMode:
		b.WriteString(helpLine("space select • enter delete selected • esc/d leave delete mode"))
	default:
		help := "a add • enter cycle status • o open link • d delete mode"
		if v.gate.busy {
			help += " • saving…"
		}
		b.WriteString(helpLine(help))
	}
	return b.String()
}

func (v *EntriesView[T, D]) renderRow(i int, nameWidth int) string {
	r := v.rows[i]
	var b strings.Builder

	prefix := "  "
	if v.deleteMode {
		prefix = checkbox(v.selected[r.ID]) + " "
	} else if i == v.cursor {
		prefix = "▸ "
	}
	name := truncate(r.Name, nameWidth)
	if i == v.cursor {
		name = selectedStyle().Render(name)
	} else {
		name = textStyle().Render(name)
	}
	b.WriteString(prefix + name + "  " + statusBadge(r.Status) + "\n")

	meta := r.Stamp
	if r.Link != "" {
		meta += " · " + truncate(r.Link, max(10, nameWidth-len(meta)))
	}
	b.WriteString("    " + mutedStyle().Render(meta) + "\n")
	if r.Doubts != "" {
		b.WriteString("    " + lipgloss.NewStyle().Foreground(theme.Current.Warning).Render("? "+truncate(firstLine(r.Doubts), nameWidth)) + "\n")
	}
	return b.String()
}

func (v *EntriesView[T, D]) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle().Render(fmt.Sprintf("New %s · %s", v.kind.Name, v.scope.Subject.Title())))

	labels := [fieldCount]string{fieldName: "Name", fieldStatus: "Status", fieldLink: "Link", fieldDoubts: "Doubts"}
	for i := 0; i < fieldCount; i++ {
		label := labels[i]
		if i == v.focus {
			label = lipgloss.NewStyle().Foreground(theme.Current.Accent).Bold(true).Render(label)
		} else {
			label = mutedStyle().Render(label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		if i == fieldStatus {
			b.WriteString(v.viewStatusPicker())
		} else {
			b.WriteString(v.inputs[i].View())
		}
		b.WriteString("\n\n")
	}

	if v.formErr != nil {
		b.WriteString(errorStyle().Render("⚠ " + v.formErr.Error()))
		b.WriteString("\n\n")
	}
	help := "tab next field • ←→ status • enter save • esc cancel"
	if v.gate.busy {
		help = "saving…"
	}
	b.WriteString(helpLine(help))
	return boxStyle().Padding(1, 2).Render(b.String())
}

func (v *EntriesView[T, D]) viewStatusPicker() string {
	parts := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		if i == v.status {
			parts[i] = lipgloss.NewStyle().
				Foreground(theme.Current.Background).
				Background(theme.StatusColor(s)).
				Bold(true).
				Padding(0, 1).
				Render(string(s))
		} else {
			parts[i] = mutedStyle().Padding(0, 1).Render(string(s))
		}
	}
	return strings.Join(parts, " ")
}

// Entries returns the rows currently shown, newest first.
func (v *EntriesView[T, D]) Entries() []EntryRow {
	return slices.Clone(v.rows)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

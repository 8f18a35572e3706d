package views

import (
	"fmt"
	"maps"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
	"github.com/asteroid-belt/studydeck/internal/progress"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tracker"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// fieldLabels are the checklist column headers, in models.ChecklistFields order.
var fieldLabels = []string{"Theory", "Questions", "Rev 1", "Rev 2", "Rev 3"}

// TrackerLoadedMsg is sent when a subject's checklist has been read.
type TrackerLoadedMsg struct {
	Scope    Scope
	Syllabus progress.Syllabus
	State    map[string]progress.Checklist
	Percent  float64
	Err      error
}

// TopicToggledMsg is sent when a toggle has been written or reverted.
type TopicToggledMsg struct {
	Key     string
	Field   string
	Value   bool
	Result  mutation.Result
	State   map[string]progress.Checklist
	Percent float64
}

type topicRow struct {
	tier  progress.Tier
	topic progress.Topic
	key   string
}

// TrackerView shows the syllabus checklist of one subject.
type TrackerView struct {
	tracker   *tracker.Tracker
	telemetry telemetry.Client
	gate      gate

	scope   Scope
	rows    []topicRow
	state   map[string]progress.Checklist
	percent float64
	loaded  bool
	err     error

	row    int
	col    int
	width  int
	height int
}

// NewTrackerView creates a tracker view over t.
func NewTrackerView(t *tracker.Tracker, tc telemetry.Client) *TrackerView {
	return &TrackerView{
		tracker:   t,
		telemetry: tc,
		state:     map[string]progress.Checklist{},
	}
}

// SetSize sets the width and height of the view.
func (v *TrackerView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Percent returns the overall completion last shown.
func (v *TrackerView) Percent() float64 {
	return v.percent
}

// Load reads scope's checklist. It waits for an in-flight toggle.
func (v *TrackerView) Load(scope Scope) tea.Cmd {
	return v.gate.queue(func() tea.Cmd {
		v.scope = scope
		v.loaded = false
		v.err = nil
		t := v.tracker
		return v.gate.run(func() tea.Msg {
			ctx, cancel := opContext()
			defer cancel()
			state, err := t.Load(ctx, scope.UserID, scope.Subject)
			return TrackerLoadedMsg{
				Scope:    scope,
				Syllabus: t.Syllabus(),
				State:    maps.Clone(state),
				Percent:  t.Percent(),
				Err:      err,
			}
		})
	})
}

// HandleLoaded installs a loaded checklist.
func (v *TrackerView) HandleLoaded(msg TrackerLoadedMsg) tea.Cmd {
	if msg.Scope == v.scope {
		v.rows = topicRows(msg.Syllabus)
		v.state = msg.State
		if v.state == nil {
			v.state = map[string]progress.Checklist{}
		}
		v.percent = msg.Percent
		v.err = msg.Err
		v.loaded = true
		v.row = min(v.row, max(0, len(v.rows)-1))
	}
	return v.gate.done()
}

// HandleToggled reconciles the snapshot with the tracker after a write.
func (v *TrackerView) HandleToggled(msg TopicToggledMsg) tea.Cmd {
	v.state = msg.State
	v.percent = msg.Percent
	v.err = nil
	if !msg.Result.Committed() {
		v.err = fmt.Errorf("%s: %w", msg.Result.Outcome, msg.Result.Err)
	}
	v.telemetry.TrackTopicToggled(string(v.scope.Subject), msg.Field, msg.Value, msg.Result.Outcome.String())
	return v.gate.done()
}

// Update handles key input.
func (v *TrackerView) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		if v.row < len(v.rows)-1 {
			v.row++
		}
	case "left", "h":
		if v.col > 0 {
			v.col--
		}
	case "right", "l":
		if v.col < len(models.ChecklistFields)-1 {
			v.col++
		}
	case "home", "g":
		v.row = 0
	case "end", "G":
		v.row = max(0, len(v.rows)-1)
	case " ", "enter", "x":
		return v.toggle()
	}
	return nil
}

func (v *TrackerView) toggle() tea.Cmd {
	if !v.loaded || v.gate.busy || len(v.rows) == 0 {
		return nil
	}
	key := v.rows[v.row].key
	field := models.ChecklistFields[v.col]
	value := !v.state[key].Get(field)

	// Optimistic: show the change before the write returns.
	v.state = maps.Clone(v.state)
	v.state[key] = v.state[key].With(field, value)
	v.percent = progress.Overall(v.syllabusFromRows(), v.state)

	t := v.tracker
	return v.gate.run(func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		res := t.Toggle(ctx, key, field, value)
		state := snapshotTracker(t)
		return TopicToggledMsg{Key: key, Field: field, Value: value, Result: res, State: state, Percent: t.Percent()}
	})
}

// snapshotTracker copies the tracker's state, which the command owns.
func snapshotTracker(t *tracker.Tracker) map[string]progress.Checklist {
	syl := t.Syllabus()
	state := make(map[string]progress.Checklist)
	for _, topic := range syl.ClassXI {
		key := progress.TopicKey(progress.TierXI, topic.Name)
		state[key] = t.Checklist(key)
	}
	for _, topic := range syl.ClassXII {
		key := progress.TopicKey(progress.TierXII, topic.Name)
		state[key] = t.Checklist(key)
	}
	return state
}

func (v *TrackerView) syllabusFromRows() progress.Syllabus {
	var s progress.Syllabus
	for _, r := range v.rows {
		if r.tier == progress.TierXI {
			s.ClassXI = append(s.ClassXI, r.topic)
		} else {
			s.ClassXII = append(s.ClassXII, r.topic)
		}
	}
	return s
}

func topicRows(s progress.Syllabus) []topicRow {
	rows := make([]topicRow, 0, len(s.ClassXI)+len(s.ClassXII))
	for _, t := range s.ClassXI {
		rows = append(rows, topicRow{tier: progress.TierXI, topic: t, key: progress.TopicKey(progress.TierXI, t.Name)})
	}
	for _, t := range s.ClassXII {
		rows = append(rows, topicRow{tier: progress.TierXII, topic: t, key: progress.TopicKey(progress.TierXII, t.Name)})
	}
	return rows
}

// View renders the tracker.
func (v *TrackerView) View() string {
	if !v.loaded {
		return mutedStyle().Render("Loading syllabus…")
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(theme.SubjectColor(v.scope.Subject)).Bold(true).
		Render(v.scope.Subject.Title() + " syllabus")
	b.WriteString(title)
	b.WriteString("  ")
	b.WriteString(progressBar(v.percent, 30))
	b.WriteString(" ")
	b.WriteString(textStyle().Bold(true).Render(progress.Format(v.percent)))
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(errorStyle().Render("⚠ " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	nameWidth := max(20, min(44, v.width-5*11-8))
	header := fmt.Sprintf("  %-*s", nameWidth, "Topic")
	for _, l := range fieldLabels {
		header += fmt.Sprintf(" %-10s", l)
	}
	b.WriteString(mutedStyle().Render(header))
	b.WriteString("\n")

	// Rows carry no tier headers, so reserve room for the two we draw.
	start, end := window(len(v.rows), v.row, v.height-8)
	var tier progress.Tier
	for i := start; i < end; i++ {
		r := v.rows[i]
		if r.tier != tier {
			tier = r.tier
			b.WriteString(titleStyle().MarginBottom(0).Render(tierTitle(tier)))
			b.WriteString("\n")
		}
		b.WriteString(v.renderRow(i, r, nameWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "↑↓←→ move • space toggle"
	if v.gate.busy {
		help += " • saving…"
	}
	b.WriteString(helpLine(help))
	return b.String()
}

func (v *TrackerView) renderRow(i int, r topicRow, nameWidth int) string {
	c := v.state[r.key]
	name := fmt.Sprintf("%-*s", nameWidth, truncate(r.topic.Name, nameWidth))
	prefix := "  "
	if i == v.row {
		prefix = "▸ "
		name = selectedStyle().Render(name)
	} else {
		name = textStyle().Render(name)
	}
	line := prefix + name
	for col, field := range models.ChecklistFields {
		cell := checkbox(c.Get(field))
		if i == v.row && col == v.col {
			cell = lipgloss.NewStyle().Background(theme.Current.Overlay).Render(cell)
		}
		line += " " + cell + strings.Repeat(" ", 7)
	}
	return line
}

func tierTitle(t progress.Tier) string {
	if t == progress.TierXII {
		return "Class XII"
	}
	return "Class XI"
}

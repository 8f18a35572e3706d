package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/timer"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
)

// StudyClock is the part of *app.App the timer persists through.
type StudyClock interface {
	StudyToday(ctx context.Context, userID string) (int64, error)
	RecordStudy(ctx context.Context, userID string, seconds int64) (int64, error)
}

// TimerTickMsg advances the clock by one second. Ticks from an older chain
// are dropped.
type TimerTickMsg struct {
	Chain int
}

// StudyTotalMsg carries the day's total read from the store.
type StudyTotalMsg struct {
	UserID string
	Total  int64
	Err    error
}

// StudyRecordedMsg is sent when committed seconds have been written.
type StudyRecordedMsg struct {
	Seconds int64
	Total   int64
	Err     error
}

const (
	buttonStart = iota
	buttonBreak
	buttonReset
	buttonCount
)

var buttonLabels = [buttonCount]string{"Start", "Break", "Reset"}

// TimerView is the study timer with the playlist below it.
type TimerView struct {
	timer     *timer.Timer
	clock     StudyClock
	telemetry telemetry.Client
	playlist  *PlaylistPanel

	userID      string
	chain       int
	chainActive bool
	listening   bool
	button      int
	err         error
	breakEnded  bool
	width       int
	height      int
}

// NewTimerView creates the timer tab.
func NewTimerView(clock StudyClock, panel *PlaylistPanel, tc telemetry.Client) *TimerView {
	return &TimerView{
		timer:     timer.New(),
		clock:     clock,
		telemetry: tc,
		playlist:  panel,
	}
}

// SetSize sets the width and height of the view.
func (v *TimerView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Typing reports whether key presses go to a text field.
func (v *TimerView) Typing() bool {
	return v.playlist.Typing()
}

// Timer returns the underlying state machine.
func (v *TimerView) Timer() *timer.Timer {
	return v.timer
}

// Load reads userID's total for today and the playlist.
func (v *TimerView) Load(userID string) tea.Cmd {
	v.userID = userID
	clock := v.clock
	loadTotal := func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		total, err := clock.StudyToday(ctx, userID)
		return StudyTotalMsg{UserID: userID, Total: total, Err: err}
	}
	cmds := []tea.Cmd{loadTotal, v.playlist.Load(userID)}
	if !v.listening {
		v.listening = true
		cmds = append(cmds, v.playlist.WaitForFinished())
	}
	return tea.Batch(cmds...)
}

// Stop ends any interval and returns the seconds still to be written.
func (v *TimerView) Stop() tea.Cmd {
	return v.record(v.timer.Reset())
}

// HandleTotal seeds the day's total.
func (v *TimerView) HandleTotal(msg StudyTotalMsg) {
	if msg.UserID != v.userID {
		return
	}
	if msg.Err != nil {
		v.err = fmt.Errorf("load today's total: %w", msg.Err)
		return
	}
	// Time committed locally before the read arrived is already in the store.
	v.timer.SetTotal(max(msg.Total, v.timer.Total()))
}

// HandleRecorded replaces the local total with the store's.
func (v *TimerView) HandleRecorded(msg StudyRecordedMsg) {
	if msg.Err != nil {
		v.err = msg.Err
		return
	}
	v.err = nil
	v.timer.SetTotal(msg.Total)
}

// HandleTick advances the clock and schedules the next tick.
func (v *TimerView) HandleTick(msg TimerTickMsg) tea.Cmd {
	if msg.Chain != v.chain {
		return nil
	}
	if v.timer.Tick() {
		v.breakEnded = true
	}
	if !v.timer.Ticking() {
		v.chainActive = false
		return nil
	}
	return v.tick()
}

func (v *TimerView) tick() tea.Cmd {
	chain := v.chain
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TimerTickMsg{Chain: chain}
	})
}

// startTicking begins a tick chain unless one is running.
func (v *TimerView) startTicking() tea.Cmd {
	if v.chainActive || !v.timer.Ticking() {
		return nil
	}
	v.chain++
	v.chainActive = true
	return v.tick()
}

func (v *TimerView) record(seconds int64) tea.Cmd {
	if seconds <= 0 || v.userID == "" {
		return nil
	}
	clock, userID := v.clock, v.userID
	return func() tea.Msg {
		ctx, cancel := opContext()
		defer cancel()
		total, err := clock.RecordStudy(ctx, userID, seconds)
		return StudyRecordedMsg{Seconds: seconds, Total: total, Err: err}
	}
}

// Update handles key input. s, b and r press the buttons; the rest go to
// the playlist.
func (v *TimerView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.playlist.Typing() {
		return v.playlist.Update(msg)
	}
	switch msg.String() {
	case "s":
		return v.press(buttonStart)
	case "b":
		return v.press(buttonBreak)
	case "r":
		return v.press(buttonReset)
	}
	return v.playlist.Update(msg)
}

func (v *TimerView) press(button int) tea.Cmd {
	v.button = button
	v.err = nil
	v.breakEnded = false
	switch button {
	case buttonStart:
		if err := v.timer.Start(); err != nil {
			v.err = err
			return nil
		}
		return v.startTicking()
	case buttonBreak:
		seconds, err := v.timer.StartBreak()
		if err != nil {
			v.err = err
			return nil
		}
		v.telemetry.TrackBreakStarted(v.timer.BreakLeft())
		return tea.Batch(v.record(seconds), v.startTicking())
	case buttonReset:
		return v.record(v.timer.Reset())
	}
	return nil
}

// View renders the clock, buttons, total and playlist.
func (v *TimerView) View() string {
	var b strings.Builder

	state := v.timer.State()
	stateColor := theme.Current.TextMuted
	clock := v.timer.Studied()
	switch state {
	case timer.Studying:
		stateColor = theme.Current.Success
	case timer.OnBreak:
		stateColor = theme.Current.Info
		clock = v.timer.BreakLeft()
	}

	b.WriteString(lipgloss.NewStyle().Foreground(stateColor).Bold(true).Render(strings.ToUpper(state.String())))
	b.WriteString("\n")
	face := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(stateColor).
		Foreground(theme.Current.TextHighlight).
		Bold(true).
		Padding(1, 6).
		Render(timer.FormatClock(clock))
	b.WriteString(face)
	b.WriteString("\n\n")

	b.WriteString(v.viewButtons(state))
	b.WriteString("\n\n")

	b.WriteString(mutedStyle().Render("Studied today: "))
	b.WriteString(textStyle().Bold(true).Render(timer.FormatClock(v.timer.Total())))
	b.WriteString("\n")
	if state == timer.OnBreak {
		b.WriteString(mutedStyle().Render(fmt.Sprintf("Breaks last 1/%d of the time studied.", timer.BreakRatio)))
		b.WriteString("\n")
	}
	if v.breakEnded {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.Info).Render("Break over. Press s to study again."))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(errorStyle().Render("⚠ " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpLine("s start • b break • r reset"))
	b.WriteString("\n\n")

	top := strings.Count(b.String(), "\n")
	b.WriteString(boxStyle().Width(max(40, v.width-4)).Render(v.playlist.View(max(30, v.width-8), v.height-top-2)))
	return b.String()
}

func (v *TimerView) viewButtons(state timer.State) string {
	enabled := [buttonCount]bool{
		buttonStart: state == timer.Idle,
		buttonBreak: state == timer.Studying,
		buttonReset: state != timer.Idle || v.timer.Studied() > 0,
	}
	parts := make([]string, buttonCount)
	for i, label := range buttonLabels {
		style := lipgloss.NewStyle().Padding(0, 2)
		switch {
		case !enabled[i]:
			style = style.Foreground(theme.Current.TextMuted)
		case i == v.button:
			style = style.Foreground(theme.Current.Background).Background(theme.Current.Accent).Bold(true)
		default:
			style = style.Foreground(theme.Current.Text).Background(theme.Current.Overlay)
		}
		parts[i] = style.Render(label)
	}
	return strings.Join(parts, " ")
}

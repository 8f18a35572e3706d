package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/studydeck/internal/app"
	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/logbook"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/playlist"
	"github.com/asteroid-belt/studydeck/internal/progress"
	"github.com/asteroid-belt/studydeck/internal/session"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tui/components"
	"github.com/asteroid-belt/studydeck/internal/tui/theme"
	"github.com/asteroid-belt/studydeck/internal/tui/views"
	"github.com/asteroid-belt/studydeck/pkg/version"
)

// Screen identifies what fills the window.
type Screen int

const (
	ScreenConfigError Screen = iota
	ScreenSignIn
	ScreenMain
)

// Tab identifies a signed-in view.
type Tab int

const (
	TabTracker Tab = iota
	TabQuestions
	TabActivities
	TabTimer
	TabNotes
	TabTutor
	tabCount
)

var tabNames = [tabCount]string{"Tracker", "Questions", "Activities", "Timer", "Notes", "Tutor"}

// String returns the tab's telemetry name.
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "unknown"
	}
	return strings.ToLower(tabNames[t])
}

// chrome is the rows taken by the header, subject bar, tab bar and footer.
const chrome = 6

// Options configures the TUI.
type Options struct {
	Config *config.Config
	// App is nil when StartErr is a *config.ConfigError.
	App       *app.App
	StartErr  error
	Telemetry telemetry.Client
}

// sessionMsg delivers a session event on the update loop.
type sessionMsg session.Event

// restoredMsg is sent when stored credentials have been tried.
type restoredMsg struct {
	err error
}

// signedOutMsg is sent after credentials were removed.
type signedOutMsg struct {
	err error
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	app       *app.App
	keymap    Keymap
	styles    Styles
	telemetry telemetry.Client

	screen  Screen
	tab     Tab
	subject models.Subject
	user    string
	userID  string

	configView *views.ConfigErrorView
	signInView *views.SignInView
	tracker    *views.TrackerView
	questions  *views.EntriesView[models.QuestionEntry, logbook.QuestionDraft]
	activities *views.EntriesView[models.ActivityEntry, logbook.ActivityDraft]
	playlist   *views.PlaylistPanel
	timer      *views.TimerView
	notes      *views.NotesView
	tutor      *views.TutorView

	events      chan session.Event
	unsubscribe func()

	quitConfirm *components.ConfirmDialog
	showHelp    bool
	status      string
	err         error

	width        int
	height       int
	ready        bool
	quitting     bool
	sessionStart time.Time
	viewsVisited int
}

// NewModel creates the TUI model. It subscribes to the session; call Close
// when the program ends.
func NewModel(opts Options) *Model {
	tc := opts.Telemetry
	if tc == nil {
		tc = telemetry.New(nil)
	}
	m := &Model{
		app:          opts.App,
		keymap:       DefaultKeymap(),
		styles:       DefaultStyles(),
		telemetry:    tc,
		subject:      models.SubjectMaths,
		sessionStart: time.Now(),
	}

	var cfgErr *config.ConfigError
	if opts.App == nil {
		if !errors.As(opts.StartErr, &cfgErr) {
			cfgErr = &config.ConfigError{}
		}
		m.screen = ScreenConfigError
		m.configView = views.NewConfigErrorView(cfgErr)
		return m
	}

	a := opts.App
	m.screen = ScreenSignIn
	m.signInView = views.NewSignInView(a.Session.SignIn)
	m.tracker = views.NewTrackerView(a.Tracker(), tc)
	m.questions = views.NewEntriesView(views.QuestionKind, a.Questions(), tc)
	m.activities = views.NewEntriesView(views.ActivityKind, a.Activities(), tc)

	audio := a.Cfg.Audio
	if opts.Config != nil {
		audio = opts.Config.Audio
	}
	var player views.Player
	p, playerErr := playlist.NewPlayer(audio)
	if playerErr == nil {
		player = p
	}
	m.playlist = views.NewPlaylistPanel(a.Library(), player, playerErr, tc)
	m.timer = views.NewTimerView(a, m.playlist, tc)
	m.notes = views.NewNotesView(a.NotesBrowser(), a, tc)
	m.tutor = views.NewTutorView(a.Relay(), tc)

	// Listeners run on the goroutine that changed the session, usually a
	// command, so events are handed to the update loop through a channel.
	m.events = make(chan session.Event, 16)
	m.unsubscribe = a.Session.Subscribe(func(ev session.Event) {
		m.events <- ev
	})
	return m
}

// Close releases the session subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.playlist != nil {
		m.playlist.Stop()
	}
}

// Screen returns what fills the window.
func (m *Model) Screen() Screen { return m.screen }

// Tab returns the active tab.
func (m *Model) Tab() Tab { return m.tab }

// Subject returns the active subject.
func (m *Model) Subject() models.Subject { return m.subject }

func newQuitDialog() *components.ConfirmDialog {
	return components.NewConfirmDialog("Quit StudyDeck?", "Any running study time is saved first.")
}

// Init restores the stored session.
func (m *Model) Init() tea.Cmd {
	if m.app == nil {
		m.telemetry.TrackAppStarted("tui", false)
		return nil
	}
	a := m.app
	restore := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return restoredMsg{err: a.Restore(ctx)}
	}
	return tea.Batch(m.waitForSession(), restore)
}

func (m *Model) waitForSession() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		return sessionMsg(<-ch)
	}
}

// Update routes messages to the screen and views that own them.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case sessionMsg:
		return m, tea.Batch(m.handleSession(session.Event(msg)), m.waitForSession())

	case restoredMsg:
		m.telemetry.TrackAppStarted("tui", m.app.Session.User() != nil)
		if msg.err != nil {
			m.signInView.SetError(msg.err)
		}
		return m, nil

	case signedOutMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("sign out: %w", msg.err)
		}
		return m, nil

	case views.SignInDoneMsg:
		m.signInView.HandleDone(msg)
		return m, nil

	case views.TrackerLoadedMsg:
		return m, m.tracker.HandleLoaded(msg)
	case views.TopicToggledMsg:
		return m, m.tracker.HandleToggled(msg)

	case views.EntriesLoadedMsg:
		if msg.Kind == m.questions.Kind() {
			return m, m.questions.HandleLoaded(msg)
		}
		return m, m.activities.HandleLoaded(msg)
	case views.EntryAddedMsg:
		if msg.Kind == m.questions.Kind() {
			return m, m.questions.HandleAdded(msg)
		}
		return m, m.activities.HandleAdded(msg)
	case views.EntryCycledMsg:
		if msg.Kind == m.questions.Kind() {
			return m, m.questions.HandleCycled(msg)
		}
		return m, m.activities.HandleCycled(msg)
	case views.EntriesDeletedMsg:
		if msg.Kind == m.questions.Kind() {
			return m, m.questions.HandleDeleted(msg)
		}
		return m, m.activities.HandleDeleted(msg)

	case views.TimerTickMsg:
		return m, m.timer.HandleTick(msg)
	case views.StudyTotalMsg:
		m.timer.HandleTotal(msg)
		return m, nil
	case views.StudyRecordedMsg:
		m.timer.HandleRecorded(msg)
		return m, nil

	case views.PlaylistLoadedMsg:
		return m, m.playlist.HandleLoaded(msg)
	case views.TrackUploadedMsg:
		return m, m.playlist.HandleUploaded(msg)
	case views.TrackRemovedMsg:
		return m, m.playlist.HandleRemoved(msg)
	case views.TrackFinishedMsg:
		return m, m.playlist.HandleFinished(msg)

	case views.NotesLoadedMsg:
		return m, m.notes.HandleLoaded(msg)

	case views.TutorLoadedMsg:
		return m, m.tutor.HandleLoaded(msg)
	case views.TutorReplyMsg:
		return m, m.tutor.HandleReply(msg)
	case views.TutorClearedMsg:
		return m, m.tutor.HandleCleared(msg)
	}
	return m, nil
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	if m.configView != nil {
		m.configView.SetSize(width, height)
	}
	if m.app == nil {
		return
	}
	m.signInView.SetSize(width, height)
	h := max(5, height-chrome)
	m.tracker.SetSize(width, h)
	m.questions.SetSize(width, h)
	m.activities.SetSize(width, h)
	m.timer.SetSize(width, h)
	m.notes.SetSize(width, h)
	m.tutor.SetSize(width, h)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.screen {
	case ScreenConfigError:
		if m.configView.Update(msg) == views.ActionQuit {
			return m.quit()
		}
		return nil
	case ScreenSignIn:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		action, cmd := m.signInView.Update(msg)
		if action == views.ActionQuit {
			return m.quit()
		}
		return cmd
	}
	return m.handleMainKey(msg)
}

func (m *Model) handleMainKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		return m.quit()
	}
	if m.quitConfirm != nil {
		switch m.quitConfirm.HandleKey(k) {
		case components.ConfirmAccepted:
			m.quitConfirm = nil
			return m.quit()
		case components.ConfirmCancelled:
			m.quitConfirm = nil
		}
		return nil
	}
	if m.showHelp {
		switch k {
		case "f1", "esc", "q", "enter":
			m.showHelp = false
		}
		return nil
	}
	if m.typing() {
		return m.updateActive(msg)
	}

	m.err = nil
	switch k {
	case "tab":
		m.switchTab((m.tab + 1) % tabCount)
		return nil
	case "shift+tab":
		m.switchTab((m.tab + tabCount - 1) % tabCount)
		return nil
	case "ctrl+s":
		return m.nextSubject()
	case "f1":
		m.showHelp = true
		return nil
	case "ctrl+o":
		return m.signOut()
	case "q":
		m.quitConfirm = newQuitDialog()
		return nil
	}
	return m.updateActive(msg)
}

func (m *Model) typing() bool {
	switch m.tab {
	case TabQuestions:
		return m.questions.Typing()
	case TabActivities:
		return m.activities.Typing()
	case TabTimer:
		return m.timer.Typing()
	case TabNotes:
		return m.notes.Typing()
	case TabTutor:
		return m.tutor.Typing()
	}
	return false
}

func (m *Model) updateActive(msg tea.KeyMsg) tea.Cmd {
	switch m.tab {
	case TabTracker:
		return m.tracker.Update(msg)
	case TabQuestions:
		return m.questions.Update(msg)
	case TabActivities:
		return m.activities.Update(msg)
	case TabTimer:
		return m.timer.Update(msg)
	case TabNotes:
		return m.notes.Update(msg)
	case TabTutor:
		return m.tutor.Update(msg)
	}
	return nil
}

func (m *Model) switchTab(to Tab) {
	if to == m.tab {
		return
	}
	m.telemetry.TrackViewNavigated(to.String(), m.tab.String())
	m.viewsVisited++
	m.tab = to
}

func (m *Model) scope() views.Scope {
	return views.Scope{UserID: m.userID, Subject: m.subject}
}

// nextSubject cycles the subject and reloads the subject-scoped views.
func (m *Model) nextSubject() tea.Cmd {
	i := 0
	for j, s := range models.Subjects {
		if s == m.subject {
			i = j
		}
	}
	m.subject = models.Subjects[(i+1)%len(models.Subjects)]
	m.telemetry.TrackSubjectSwitched(string(m.subject))
	scope := m.scope()
	return tea.Batch(
		m.tracker.Load(scope),
		m.questions.Load(scope),
		m.activities.Load(scope),
		m.tutor.Load(scope),
	)
}

func (m *Model) handleSession(ev session.Event) tea.Cmd {
	switch ev.Kind {
	case session.SignedIn:
		if ev.User == nil {
			return nil
		}
		m.userID = ev.User.ID
		m.user = ev.User.Email
		if m.user == "" {
			m.user = ev.User.Name
		}
		m.screen = ScreenMain
		m.tab = TabTracker
		m.status = ""
		scope := m.scope()
		return tea.Batch(
			m.tracker.Load(scope),
			m.questions.Load(scope),
			m.activities.Load(scope),
			m.timer.Load(m.userID),
			m.notes.Load(m.userID),
			m.tutor.Load(scope),
		)
	case session.SignedOut:
		m.userID = ""
		m.user = ""
		m.screen = ScreenSignIn
		m.quitConfirm = nil
		m.showHelp = false
	}
	return nil
}

// signOut saves running study time before the credentials go.
func (m *Model) signOut() tea.Cmd {
	m.playlist.Stop()
	sess := m.app.Session
	return tea.Sequence(m.timer.Stop(), func() tea.Msg {
		return signedOutMsg{err: sess.SignOut()}
	})
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.telemetry.TrackAppExited("tui", time.Since(m.sessionStart).Milliseconds(), m.viewsVisited)
	if m.screen != ScreenMain {
		return tea.Quit
	}
	m.playlist.Stop()
	return tea.Sequence(m.timer.Stop(), tea.Quit)
}

// View renders the active screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}

	switch m.screen {
	case ScreenConfigError:
		return m.configView.View()
	case ScreenSignIn:
		return m.signInView.View()
	}

	if m.quitConfirm != nil {
		return m.quitConfirm.CenteredView(m.width, m.height)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewHelp())
	}

	var content string
	switch m.tab {
	case TabTracker:
		content = m.tracker.View()
	case TabQuestions:
		content = m.questions.View()
	case TabActivities:
		content = m.activities.View()
	case TabTimer:
		content = m.timer.View()
	case TabNotes:
		content = m.notes.View()
	case TabTutor:
		content = m.tutor.View()
	}
	content = lipgloss.NewStyle().
		Padding(0, 1).
		Height(max(1, m.height-chrome)).
		MaxHeight(max(1, m.height-chrome)).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.viewSubjects(),
		m.viewTabs(),
		content,
		m.viewFooter(),
	)
}

func (m *Model) viewHeader() string {
	left := m.styles.HeaderTitle.Render("STUDYDECK") + " " + m.styles.HeaderVersion.Render(version.Short())
	right := m.styles.HeaderUser.Render(m.user)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return m.styles.Header.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) viewSubjects() string {
	parts := make([]string, 0, len(models.Subjects))
	for _, s := range models.Subjects {
		parts = append(parts, m.styles.subjectStyle(s, s == m.subject).Render(s.Title()))
	}
	line := strings.Join(parts, " ")
	if m.tracker != nil {
		line += "  " + m.styles.HeaderVersion.Render(progress.Format(m.tracker.Percent())+" complete")
	}
	return m.styles.Header.Render(line)
}

func (m *Model) viewTabs() string {
	active := lipgloss.NewStyle().
		Foreground(theme.Current.TextHighlight).
		Bold(true).
		Underline(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(theme.Current.TextMuted).
		Padding(0, 1)

	parts := make([]string, tabCount)
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			parts[i] = active.Render(name)
		} else {
			parts[i] = inactive.Render(name)
		}
	}
	bar := strings.Join(parts, "│")
	rule := lipgloss.NewStyle().Foreground(theme.Current.Overlay).Render(strings.Repeat("─", max(1, m.width)))
	return bar + "\n" + rule
}

func (m *Model) viewFooter() string {
	left := m.styles.FooterLeft.Render(m.keymap.QuickHelpText())
	var right string
	switch {
	case m.err != nil:
		right = m.styles.StatusError.Render(m.err.Error())
	case m.status != "":
		right = m.styles.StatusOK.Render(m.status)
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return m.styles.Footer.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) viewHelp() string {
	title := lipgloss.NewStyle().Foreground(theme.Current.Accent).Bold(true).Render("Keys")
	global := []struct{ keys, desc string }{
		{m.keymap.NextTab.Help().Key + " / " + m.keymap.PrevTab.Help().Key, "switch view"},
		{m.keymap.NextSubject.Help().Key, m.keymap.NextSubject.Help().Desc},
		{m.keymap.SignOut.Help().Key, m.keymap.SignOut.Help().Desc},
		{"q", "quit (asks first)"},
		{m.keymap.Quit.Help().Key, "quit now"},
	}
	perView := map[Tab]string{
		TabTracker:    "←↑↓→ move • space toggle",
		TabQuestions:  "a add • enter cycle status • d delete mode • o open link",
		TabActivities: "a add • enter cycle status • d delete mode • o open link",
		TabTimer:      "s start • b break • r reset • enter play • p pause • [ ] skip • u upload • x remove",
		TabNotes:      "enter open • backspace up • e set repository • o open on GitHub",
		TabTutor:      "enter type • 1-6 quick prompt • a attach image • m model • c copy • x clear",
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Current.Primary).Bold(true).Width(18)
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, g := range global {
		b.WriteString(keyStyle.Render(g.keys) + g.desc + "\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.Accent).Render(tabNames[m.tab]))
	b.WriteString("\n")
	b.WriteString(perView[m.tab])
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Current.TextMuted).Italic(true).Render("f1 or esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current.Primary).
		Padding(1, 3).
		Render(b.String())
}

// Run executes the TUI program.
func Run(opts Options) error {
	if opts.App == nil && !config.IsConfigError(opts.StartErr) {
		if opts.StartErr != nil {
			return opts.StartErr
		}
		return errors.New("tui: no application")
	}

	model := NewModel(opts)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

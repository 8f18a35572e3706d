// Package timer implements the study/break stopwatch.
//
// A study interval runs until a break is taken or the timer is reset. Taking
// a break commits the interval once and grants a break of a fifth of the
// studied time. Operations that commit return the seconds the caller should
// add to the persisted daily total.
package timer

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an operation is not allowed from the
// current state.
var ErrInvalidTransition = errors.New("invalid timer transition")

// State of the timer.
type State int

const (
	Idle State = iota
	Studying
	OnBreak
)

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Studying:
		return "Studying"
	case OnBreak:
		return "On Break"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BreakRatio is the number of studied seconds that earn one second of break.
const BreakRatio = 5

// Timer is a pure state machine. It is not safe for concurrent use; the TUI
// drives it from its update loop.
type Timer struct {
	state     State
	studied   int64
	breakLeft int64
	committed bool
	total     int64
}

// New returns an idle timer.
func New() *Timer {
	return &Timer{}
}

// State returns the current state.
func (t *Timer) State() State { return t.state }

// Studied returns the seconds of the current study interval.
func (t *Timer) Studied() int64 { return t.studied }

// BreakLeft returns the seconds left on the current break.
func (t *Timer) BreakLeft() int64 { return t.breakLeft }

// Total returns the day's total as seen locally.
func (t *Timer) Total() int64 { return t.total }

// Committed reports whether the current interval was already added to the total.
func (t *Timer) Committed() bool { return t.committed }

// Ticking reports whether the timer expects a tick every second.
func (t *Timer) Ticking() bool {
	return t.state == Studying || t.state == OnBreak
}

// SetTotal seeds the day's total, typically from the store.
func (t *Timer) SetTotal(seconds int64) {
	if seconds < 0 {
		seconds = 0
	}
	t.total = seconds
}

// Start begins a new study interval.
func (t *Timer) Start() error {
	if t.state != Idle {
		return fmt.Errorf("start from %s: %w", t.state, ErrInvalidTransition)
	}
	t.studied = 0
	t.committed = false
	t.state = Studying
	return nil
}

// StartBreak ends the study interval and starts a break. It returns the
// seconds to persist, which is zero if the interval was already committed.
func (t *Timer) StartBreak() (int64, error) {
	if t.state != Studying {
		return 0, fmt.Errorf("break from %s: %w", t.state, ErrInvalidTransition)
	}
	t.breakLeft = t.studied / BreakRatio
	t.state = OnBreak
	return t.commit(), nil
}

// Tick advances the timer by one second. It returns true when a break ended
// on this tick.
func (t *Timer) Tick() bool {
	switch t.state {
	case Studying:
		t.studied++
	case OnBreak:
		if t.breakLeft <= 1 {
			t.breakLeft = 0
			t.state = Idle
			return true
		}
		t.breakLeft--
	}
	return false
}

// Reset stops everything. An uncommitted study interval is committed unless
// the timer is on a break. It returns the seconds to persist.
func (t *Timer) Reset() int64 {
	var seconds int64
	if t.state != OnBreak && t.studied > 0 && !t.committed {
		seconds = t.commit()
	}
	t.studied = 0
	t.breakLeft = 0
	t.committed = false
	t.state = Idle
	return seconds
}

func (t *Timer) commit() int64 {
	if t.committed {
		return 0
	}
	t.committed = true
	t.total += t.studied
	return t.studied
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

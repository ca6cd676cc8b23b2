package course

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Task is an operator-selectable unit of coursework on the catalog page.
type Task struct {
	// Name is the UI-visible label and the selection key
	Name string

	// Handle points at the task card; valid until the next navigation
	Handle Handle
}

// Lesson is one entry in a task's lesson list, addressed by position within
// the most recent fetch of that list.
type Lesson struct {
	Index  int
	Name   string
	Handle Handle
}

// VideoUnit is one playable segment inside a lesson.
type VideoUnit struct {
	Name       string
	Handle     Handle
	Assessment bool
}

// Default pacing values.
const (
	DefaultSpeed            = 1.0
	DefaultSettleBuffer     = 5 * time.Second
	DefaultReadyTimeout     = 10 * time.Second
	DefaultNavigationSettle = 5 * time.Second
	DefaultReadoutDelay     = 2 * time.Second
)

// Pacing holds the timing parameters of a session. Speed is the
// PlaybackSpeedMultiplier applied to every unit played in the session.
type Pacing struct {
	// Speed is the playback rate multiplier (> 0)
	Speed float64

	// SettleBuffer is added to every pacing wait so the platform can mark
	// the unit complete before the caller moves on
	SettleBuffer time.Duration

	// ReadyTimeout bounds the wait for the play control
	ReadyTimeout time.Duration

	// NavigationSettle is paused after each click that changes the page
	NavigationSettle time.Duration

	// ReadoutDelay is paused between starting playback and reading the
	// time readouts
	ReadoutDelay time.Duration

	// ConfirmTimeout, when positive, bounds a poll for the unit's
	// completion marker after its pacing wait. Zero disables the poll.
	ConfirmTimeout time.Duration
}

// DefaultPacing returns the pacing used when nothing is configured.
func DefaultPacing() Pacing {
	return Pacing{
		Speed:            DefaultSpeed,
		SettleBuffer:     DefaultSettleBuffer,
		ReadyTimeout:     DefaultReadyTimeout,
		NavigationSettle: DefaultNavigationSettle,
		ReadoutDelay:     DefaultReadoutDelay,
	}
}

// Validate rejects pacing values the scheduler cannot honour.
func (p Pacing) Validate() error {
	if p.Speed <= 0 || math.IsNaN(p.Speed) || math.IsInf(p.Speed, 0) {
		return fmt.Errorf("speed must be a positive number, got %v", p.Speed)
	}
	if p.SettleBuffer < 0 {
		return fmt.Errorf("settle buffer cannot be negative")
	}
	if p.ReadyTimeout <= 0 {
		return fmt.Errorf("ready timeout must be positive")
	}
	if p.NavigationSettle < 0 || p.ReadoutDelay < 0 || p.ConfirmTimeout < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	return nil
}

// Session is the state of one run: the selected task names, the pacing, and
// the backend it owns exclusively for the run's lifetime. It is passed
// explicitly through Orchestrator, Walker and Player.
type Session struct {
	Tasks   []string
	Pacing  Pacing
	Backend Backend
}

// Logger is the logging surface of the engine.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }

// Diagnostics captures evidence when a node fails. Implementations must not
// navigate.
type Diagnostics interface {
	CaptureFailure(ctx context.Context, label string, cause error)
}

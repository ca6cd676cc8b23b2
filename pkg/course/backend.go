package course

import (
	"context"
	"time"
)

// Handle is an opaque reference into the live UI tree. It is only valid until
// the next navigation and must never be cached across one.
type Handle interface{}

// Lookup is the result of a single-element query: either Found with a handle,
// or Absent. Absence is an ordinary outcome, never an error.
type Lookup struct {
	Handle Handle
	Found  bool
}

// Found wraps h as a successful lookup.
func Found(h Handle) Lookup {
	return Lookup{Handle: h, Found: true}
}

// Absent is the lookup result for "no matching element".
func Absent() Lookup {
	return Lookup{}
}

// WaitState is the element state a bounded wait polls for.
type WaitState string

const (
	// StateAttached waits for the element to be present in the DOM
	StateAttached WaitState = "attached"
	// StateVisible waits for the element to be present and visible
	StateVisible WaitState = "visible"
)

// Backend is the automation capability set the engine needs. Implementations
// drive a real browser (see pkg/browser) or an in-memory fake in tests.
type Backend interface {
	// Navigate loads url and returns once navigation has settled.
	Navigate(ctx context.Context, url string) error

	// FindOne returns the first element matching selector under scope, or
	// Absent. A nil scope searches the whole page.
	FindOne(ctx context.Context, scope Handle, selector string) (Lookup, error)

	// FindAll returns every element matching selector under scope, in
	// document order. The slice is empty when nothing matches.
	FindAll(ctx context.Context, scope Handle, selector string) ([]Handle, error)

	// WaitUntil polls until an element matching selector reaches state.
	// It returns an error wrapping ErrWaitTimeout when timeout expires.
	WaitUntil(ctx context.Context, selector string, state WaitState, timeout time.Duration) (Handle, error)

	// Click clicks the element.
	Click(ctx context.Context, h Handle) error

	// ReadText returns the rendered text of the element.
	ReadText(ctx context.Context, h Handle) (string, error)

	// RunScript evaluates a JavaScript function in the page with args and
	// returns its result.
	RunScript(ctx context.Context, script string, args ...any) (any, error)
}

// Clock abstracts sleeping so pacing can be verified without waiting.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for d.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is one launched browser with a single page. It implements
// course.Backend and is owned exclusively by one run.
type Session struct {
	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated cookies and storage)
	Context playwright.BrowserContext

	// Page is the single page every operation runs against
	Page playwright.Page

	// Headless indicates if the browser is running without a window
	Headless bool

	// timeout bounds waits that are given no timeout of their own
	timeout time.Duration
}

// Options configures a new browser session.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	// Manual login needs a window, so this is normally false.
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for session options
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1366
	DefaultViewportHeight = 900
)

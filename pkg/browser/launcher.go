package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Launcher owns the Playwright driver and starts browser sessions.
type Launcher struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	sessions    []*Session
	initialized bool
}

// NewLauncher creates a launcher. Initialize must be called before Launch.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Initialize installs (when needed) and starts the Playwright driver.
func (l *Launcher) Initialize(skipInstall bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	// Keep driver output away from the operator's prompts
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if !skipInstall {
		if err := playwright.Install(opts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	l.playwright = pw
	l.initialized = true
	return nil
}

// Launch starts a Chromium browser and opens its single page.
func (l *Launcher) Launch(opts Options) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return nil, fmt.Errorf("launcher not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	browser, err := l.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		// Video autoplay is blocked until a user gesture otherwise
		Args: []string{"--autoplay-policy=no-user-gesture-required"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	session := &Session{
		Browser:  browser,
		Context:  bctx,
		Page:     page,
		Headless: opts.Headless,
		timeout:  time.Duration(opts.Timeout * float64(time.Millisecond)),
	}
	l.sessions = append(l.sessions, session)
	return session, nil
}

// Shutdown closes every session and stops the driver.
func (l *Launcher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, session := range l.sessions {
		session.Close()
	}
	l.sessions = nil

	if l.playwright != nil {
		if err := l.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		l.playwright = nil
	}
	l.initialized = false
	return nil
}

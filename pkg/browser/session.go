package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/coursepilot/pkg/course"
	"github.com/playwright-community/playwright-go"
)

var _ course.Backend = (*Session)(nil)

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	waitUntil := playwright.WaitUntilStateLoad
	if _, err := s.Page.Goto(url, playwright.PageGotoOptions{WaitUntil: waitUntil}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// FindOne returns the first element matching selector under scope.
func (s *Session) FindOne(ctx context.Context, scope course.Handle, selector string) (course.Lookup, error) {
	if err := ctx.Err(); err != nil {
		return course.Lookup{}, err
	}
	var (
		el  playwright.ElementHandle
		err error
	)
	if scope == nil {
		el, err = s.Page.QuerySelector(selector)
	} else {
		parent, perr := element(scope)
		if perr != nil {
			return course.Lookup{}, perr
		}
		el, err = parent.QuerySelector(selector)
	}
	if err != nil {
		return course.Lookup{}, fmt.Errorf("selector query failed: %w", err)
	}
	if el == nil {
		return course.Absent(), nil
	}
	return course.Found(el), nil
}

// FindAll returns every element matching selector under scope.
func (s *Session) FindAll(ctx context.Context, scope course.Handle, selector string) ([]course.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		els []playwright.ElementHandle
		err error
	)
	if scope == nil {
		els, err = s.Page.QuerySelectorAll(selector)
	} else {
		parent, perr := element(scope)
		if perr != nil {
			return nil, perr
		}
		els, err = parent.QuerySelectorAll(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}

	handles := make([]course.Handle, len(els))
	for i, el := range els {
		handles[i] = el
	}
	return handles, nil
}

// WaitUntil waits for selector to reach state. A non-positive timeout falls
// back to the session default. A Playwright timeout is reported as
// course.ErrWaitTimeout.
func (s *Session) WaitUntil(ctx context.Context, selector string, state course.WaitState, timeout time.Duration) (course.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout = s.waitTimeout(timeout)
	wanted := playwright.WaitForSelectorState(state)
	opts := playwright.PageWaitForSelectorOptions{State: &wanted}
	if timeout > 0 {
		opts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}

	el, err := s.Page.WaitForSelector(selector, opts)
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("waiting for %q to be %s after %s: %w", selector, state, timeout, course.ErrWaitTimeout)
		}
		return nil, fmt.Errorf("wait failed: %w", err)
	}
	if el == nil {
		return nil, fmt.Errorf("waiting for %q to be %s: %w", selector, state, course.ErrWaitTimeout)
	}
	return el, nil
}

// Click clicks the element.
func (s *Session) Click(ctx context.Context, h course.Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	el, err := element(h)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// ReadText returns the rendered text of the element.
func (s *Session) ReadText(ctx context.Context, h course.Handle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	el, err := element(h)
	if err != nil {
		return "", err
	}
	text, err := el.InnerText()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

// RunScript evaluates script in the page. Playwright passes a single
// argument to the page function, so at most one arg is accepted.
func (s *Session) RunScript(ctx context.Context, script string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("script takes at most one argument, got %d", len(args))
	}
	result, err := s.Page.Evaluate(script, args...)
	if err != nil {
		return nil, fmt.Errorf("script evaluation failed: %w", err)
	}
	return result, nil
}

// Content returns the page's current HTML.
func (s *Session) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.Page.URL()
}

// Close releases the page, context and browser. It is safe to call twice.
func (s *Session) Close() {
	if s.Browser == nil {
		return
	}
	_ = s.Page.Close()    // Ignore errors, continue cleanup
	_ = s.Context.Close() // Ignore errors, continue cleanup
	_ = s.Browser.Close() // Ignore errors, continue cleanup
	s.Browser = nil
}

func (s *Session) waitTimeout(timeout time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	return s.timeout
}

// element unwraps a course handle produced by this package.
func element(h course.Handle) (playwright.ElementHandle, error) {
	el, ok := h.(playwright.ElementHandle)
	if !ok || el == nil {
		return nil, fmt.Errorf("handle %T is not a browser element", h)
	}
	return el, nil
}

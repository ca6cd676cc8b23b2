package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/coursepilot/pkg/course"
)

// Login opens loginURL, waits for the operator to sign in by hand, and
// verifies the session. Every failure is fatal.
func Login(ctx context.Context, backend course.Backend, prompter Prompter, selectors course.SelectorTable, loginURL, expected string, log *Logger) error {
	log.Step("Log in")
	if err := backend.Navigate(ctx, loginURL); err != nil {
		return course.FatalError(fmt.Errorf("open login page: %w", err))
	}

	if err := prompter.Pause(ctx, "Log in using the browser window, then press Enter here."); err != nil {
		return course.FatalError(fmt.Errorf("wait for login: %w", err))
	}

	if err := VerifyLogin(ctx, backend, selectors, expected); err != nil {
		return err
	}
	log.Successf("Logged in")
	return nil
}

// VerifyLogin checks that the personal center entry is on screen and reads
// exactly expected.
func VerifyLogin(ctx context.Context, backend course.Backend, selectors course.SelectorTable, expected string) error {
	lookup, err := backend.FindOne(ctx, nil, selectors.Get(course.RolePersonalCenter))
	if err != nil {
		return course.FatalError(fmt.Errorf("verify login: %w", err))
	}
	if !lookup.Found {
		return course.FatalError(fmt.Errorf("login failed: personal center not found"))
	}

	text, err := backend.ReadText(ctx, lookup.Handle)
	if err != nil {
		return course.FatalError(fmt.Errorf("verify login: %w", err))
	}
	if strings.TrimSpace(text) != expected {
		return course.FatalError(fmt.Errorf("login failed: expected %q, found %q", expected, strings.TrimSpace(text)))
	}
	return nil
}

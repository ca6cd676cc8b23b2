package course

import (
	"context"
	"fmt"
)

// Probe reports whether node carries the completion marker located by
// markerSelector. The answer is only valid at the instant of the call.
func Probe(ctx context.Context, backend Backend, node Handle, markerSelector string) (bool, error) {
	lookup, err := backend.FindOne(ctx, node, markerSelector)
	if err != nil {
		return false, fmt.Errorf("completion probe failed: %w", err)
	}
	return lookup.Found, nil
}

// readOptionalText returns the text of the first selector match under scope,
// or "" when nothing matches.
func readOptionalText(ctx context.Context, backend Backend, scope Handle, selector string) (string, error) {
	lookup, err := backend.FindOne(ctx, scope, selector)
	if err != nil {
		return "", err
	}
	if !lookup.Found {
		return "", nil
	}
	return backend.ReadText(ctx, lookup.Handle)
}

// clickAndSettle clicks h and pauses for the navigation settle.
func clickAndSettle(ctx context.Context, session *Session, clock Clock, h Handle) error {
	if err := session.Backend.Click(ctx, h); err != nil {
		return err
	}
	if session.Pacing.NavigationSettle > 0 {
		clock.Sleep(session.Pacing.NavigationSettle)
	}
	return nil
}

// clickRole finds the element for selector on the page and clicks it.
func clickRole(ctx context.Context, session *Session, clock Clock, selector string) error {
	lookup, err := session.Backend.FindOne(ctx, nil, selector)
	if err != nil {
		return err
	}
	if !lookup.Found {
		return fmt.Errorf("no element matches %q", selector)
	}
	return clickAndSettle(ctx, session, clock, lookup.Handle)
}

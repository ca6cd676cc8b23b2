package course

import "context"

// Option configures the engine components.
type Option func(*options)

type options struct {
	clock Clock
	log   Logger
	diag  Diagnostics
}

// WithClock replaces the wall clock used for pacing and settle pauses.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(log Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithDiagnostics sets the hook invoked when a node fails.
func WithDiagnostics(diag Diagnostics) Option {
	return func(o *options) {
		o.diag = diag
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock: SystemClock{},
		log:   NopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) captureFailure(ctx context.Context, label string, cause error) {
	if o.diag != nil {
		o.diag.CaptureFailure(ctx, label, cause)
	}
}

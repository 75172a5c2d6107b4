package recwatch

import (
	"io"
	"log/slog"
)

// EqualFunc reports whether two field values are the same for dirty-tracking
// purposes.
type EqualFunc func(a, b any) bool

// Option configures an observed record.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	logger *slog.Logger
	equal  EqualFunc
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		equal:  Equal,
	}
}

// WithLogger sets a logger that receives debug events for dirty-flag
// transitions, commits and revocation.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEqual overrides the comparison used to decide whether a written value
// differs from its committed value.
func WithEqual(fn EqualFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.equal = fn
		}
	}
}

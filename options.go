package lines

import "log/slog"

// Option configures an Expander during creation.
//
// Example:
//
//	// Default: shared package logger
//	exp := lines.NewExpander()
//
//	// Dedicated logger (dependency injection)
//	exp := lines.NewExpander(lines.WithLogger(myLogger))
type Option func(*expanderOptions)

// expanderOptions holds optional configuration for Expander creation.
type expanderOptions struct {
	logger *slog.Logger
}

// defaultOptions returns the default expander options. A nil logger means
// the package-level logger is looked up at call time, so SetLogger takes
// effect for already-constructed expanders.
func defaultOptions() expanderOptions {
	return expanderOptions{}
}

// WithLogger sets a dedicated logger for this Expander, overriding the
// package-level logger configured via SetLogger. Pass nil to silence this
// Expander entirely.
func WithLogger(l *slog.Logger) Option {
	return func(o *expanderOptions) {
		if l == nil {
			l = newNopLogger()
		}
		o.logger = l
	}
}

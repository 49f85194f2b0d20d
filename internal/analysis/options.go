package analysis

import (
	"log/slog"
	"runtime"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	workers int
	logger  *slog.Logger
	strict  bool
	ids     IDGenerator
}

func defaultConfig() config {
	return config{
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
		ids:     UUIDv7Generator{},
	}
}

// WithWorkers bounds how many constraints are simplified at once.
// Values below one mean one.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = max(n, 1)
	}
}

// WithLogger sets the session logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictLinearity rejects every product of two variable-dependent operands
// and every division by a variable-dependent divisor.
func WithStrictLinearity() Option {
	return func(c *config) { c.strict = true }
}

// WithIDGenerator sets the run id source used by AnalyzeAll.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *config) {
		if g != nil {
			c.ids = g
		}
	}
}

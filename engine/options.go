package engine

import "github.com/charmbracelet/log"

// ============================================================================
// ENGINE OPTIONS — Functional options for Render()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger           *log.Logger
	StrictParameters bool // reject the render instead of defaulting invalid options
	Hooks            Hooks
}

// Hooks observe a render. Nil fields are skipped.
type Hooks struct {
	// BeforeRender runs once the chart spec is resolved.
	BeforeRender func(chart string)
	// AfterSeries runs after coercion with the kept/dropped point counts.
	AfterSeries func(chart string, stats SeriesStats)
	// AfterRender runs with the final result, including hidden and error results.
	AfterRender func(r *Result)
}

// WithLogger sets the logger render progress and failures go to.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithStrictParameters makes an invalid chart parameter fail the render
// with ErrCodeInvalidParameter instead of falling back to its default.
func WithStrictParameters() Option {
	return func(c *config) {
		c.StrictParameters = true
	}
}

// WithHooks installs render hooks.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.Hooks = h
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: log.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

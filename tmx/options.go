package tmx

import (
	"log/slog"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type config struct {
	Logger *slog.Logger
	Layout spec.Layout
}

type Option func(*config)

// WithLogger sets the logger used for debug output while loading and
// decoding. Output is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// WithLayout selects how global tile ids are split into tile ids and flip
// flags by Map helpers. The default is spec.DefaultLayout.
func WithLayout(layout spec.Layout) Option {
	return func(c *config) { c.Layout = layout }
}

func newConfig(opts []Option) config {
	c := config{
		Logger: slog.New(slog.DiscardHandler),
		Layout: spec.DefaultLayout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

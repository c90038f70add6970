package provision

import (
	"io"
	"log/slog"

	"github.com/ltefleet/go-credprov/credblob"
)

// Config holds the provisioner's adjustable settings. Zero values are
// filled in by New; callers adjust them through Options.
type Config struct {
	// Layout resolves the flash addresses of the credential region
	Layout credblob.Layout

	// Logger receives structured run logging; discards by default
	Logger *slog.Logger

	// OnEvent, when set, receives progress events during Run
	OnEvent EventCallback
}

// Option adjusts the provisioner configuration.
type Option func(*Config)

// WithLayout sets the credential region layout. The default layout uses
// credblob.DefaultBaseAddr.
func WithLayout(layout credblob.Layout) Option {
	return func(c *Config) {
		c.Layout = layout
	}
}

// WithLogger sets the structured logger for run progress and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithEventCallback sets a callback receiving progress events during Run.
func WithEventCallback(cb EventCallback) Option {
	return func(c *Config) {
		c.OnEvent = cb
	}
}

func defaultConfig() Config {
	return Config{
		Layout: credblob.NewLayout(credblob.DefaultBaseAddr),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

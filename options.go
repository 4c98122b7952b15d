package logtail

import (
	"github.com/spf13/afero"

	"github.com/bft-labs/logtail/internal/ports"
	"github.com/bft-labs/logtail/pkg/log"
)

// Logger is the structured logging interface accepted by WithLogger.
type Logger = log.Logger

// Option configures optional behavior of a Collector.
type Option func(*options)

// options holds the optional configuration for a Collector.
type options struct {
	fs           afero.Fs
	logger       ports.Logger
	eventHandler EventHandler
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		fs:     afero.NewOsFs(),
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for collector events.
// Events are called synchronously from the polling goroutine.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithFs sets the filesystem the collector reads through. Defaults to the
// operating system filesystem; tests can inject an afero.MemMapFs.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

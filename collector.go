package logtail

import (
	"context"
	"sync"

	"github.com/bft-labs/logtail/internal/app"
	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/internal/ports"
	"github.com/bft-labs/logtail/internal/tail"
)

// Settings are the knobs that may be changed on a running Collector via
// UpdateSettings. Zero-valued fields are left unchanged; a non-nil
// Extensions slice replaces the filter (empty non-nil means "all files").
type Settings = tail.Settings

// Collector watches a directory and delivers newly appended log lines to a
// sink. Use New() to create an instance; construction runs the bootstrap
// (initial tail delivery) synchronously. Then either Start() the blocking
// poll loop in the background, or call Poll() for single non-blocking
// passes. Close() releases all file handles.
type Collector struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	registry  *tail.Registry
	engine    *tail.Engine
	logger    ports.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a Collector and runs the one-time bootstrap: the watch
// directory is scanned, every matching file is primed at end-of-file, and
// for each non-empty file the sink receives one batch with its last
// cfg.TailLines lines. Initial batches are therefore delivered before New
// returns.
//
// Configuration problems (missing directory, nil sink) fail here and never
// later. A file vanishing during bootstrap is dropped silently; any other
// I/O error is returned and all opened handles are released.
func New(cfg Config, opts ...Option) (*Collector, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	registry, err := tail.NewRegistry(o.fs, cfg.WatchDir, o.logger)
	if err != nil {
		return nil, err
	}

	engine := tail.NewEngine(registry, cfg.Sink, tail.Config{
		Extensions:   cfg.Extensions,
		TailLines:    cfg.TailLines,
		MaxReadBytes: cfg.MaxReadBytes,
		PollInterval: cfg.PollInterval,
	}, o.logger, emitter)

	if err := engine.Bootstrap(); err != nil {
		_ = registry.Close()
		return nil, err
	}

	return &Collector{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger, emitter),
		registry:  registry,
		engine:    engine,
		logger:    o.logger,
	}, nil
}

// Start begins the blocking poll loop in a background goroutine and returns
// immediately. The loop runs until Stop() is called, the context is
// canceled, or an unrecoverable I/O error occurs (which transitions the
// collector to StateCrashed).
func (c *Collector) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrClosed
	}
	if !c.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := c.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.ctx = runCtx
	c.cancel = cancel
	c.lifecycle.SetCancel(cancel)

	c.lifecycle.AddWorker()
	go func() {
		defer c.lifecycle.WorkerDone()

		if err := c.lifecycle.TransitionTo(app.StateRunning, "poll loop starting"); err != nil {
			c.logger.Error("failed to transition to running", ports.Err(err))
			return
		}

		err := c.engine.Loop(runCtx)
		if err != nil && err != context.Canceled {
			c.logger.Error("poll loop error", ports.Err(err))
			_ = c.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	}()

	return nil
}

// Poll runs exactly one non-blocking pass: the registry is refreshed and
// every tracked file is read and dispatched once, in sorted path order,
// before Poll returns. It is an error to call Poll while the blocking loop
// is running.
func (c *Collector) Poll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrClosed
	}
	if !c.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	return c.engine.Once(ctx)
}

// Stop gracefully shuts down the poll loop, waiting up to the shutdown
// timeout. The registry keeps its handles so the collector can be started
// again; use Close() for full teardown.
func (c *Collector) Stop() error {
	c.mu.Lock()

	if !c.lifecycle.CanStop() {
		c.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := c.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	err := c.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	if err != nil {
		_ = c.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = c.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Close stops the loop if it is running and releases every open file
// handle. Safe to call more than once and safe to defer right after New.
func (c *Collector) Close() error {
	if c.lifecycle.CanStop() {
		if err := c.Stop(); err != nil && err != domain.ErrNotRunning {
			_ = c.registry.Close()
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.registry.Close()
}

// UpdateSettings applies dynamic settings (extension filter, read bound,
// poll interval) on the next tick. Safe to call while the loop is running.
func (c *Collector) UpdateSettings(s Settings) {
	c.engine.UpdateSettings(s)
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (c *Collector) Status() State {
	return State(c.lifecycle.State())
}

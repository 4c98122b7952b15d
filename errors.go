package logtail

import "github.com/bft-labs/logtail/internal/domain"

// Errors returned by the public API. Check with errors.Is.
var (
	// ErrNotADirectory indicates the watch path is missing or not a directory.
	ErrNotADirectory = domain.ErrNotADirectory

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = domain.ErrInvalidConfig

	// ErrAlreadyRunning indicates Start() or Poll() was called while running.
	ErrAlreadyRunning = domain.ErrAlreadyRunning

	// ErrNotRunning indicates Stop() was called on a stopped instance.
	ErrNotRunning = domain.ErrNotRunning

	// ErrShutdownTimeout indicates graceful shutdown timed out.
	ErrShutdownTimeout = domain.ErrShutdownTimeout

	// ErrClosed indicates the collector was already closed.
	ErrClosed = domain.ErrClosed
)

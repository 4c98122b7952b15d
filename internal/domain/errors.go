package domain

import "errors"

// Domain errors represent error conditions in the logtail domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrNotADirectory is returned when the watch path is missing or not a directory.
	ErrNotADirectory = errors.New("logtail: watch path is not a directory")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("logtail: invalid configuration")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("logtail: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("logtail: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("logtail: shutdown timeout")

	// ErrClosed is returned when an operation is attempted on a closed collector.
	ErrClosed = errors.New("logtail: collector closed")
)

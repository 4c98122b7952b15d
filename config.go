package logtail

import (
	"fmt"
	"time"

	"github.com/bft-labs/logtail/internal/domain"
)

// Default configuration values.
const (
	// DefaultMaxReadBytes is the per-file, per-tick read bound (1 MiB).
	DefaultMaxReadBytes = 1 << 20

	// DefaultPollInterval is the sleep between polling passes.
	DefaultPollInterval = 100 * time.Millisecond
)

// Config holds the configuration for a Collector.
// WatchDir and Sink are required; everything else has defaults applied by
// SetDefaults.
type Config struct {
	// WatchDir is the directory to monitor. It must exist and be a
	// directory; it is resolved to an absolute path.
	WatchDir string

	// Sink receives line batches. Required.
	Sink LineSink

	// Extensions restricts tracking to files whose suffix after the last
	// '.' is in the list (case-sensitive). Empty means all files.
	Extensions []string

	// TailLines is how many trailing lines each discovered file
	// contributes to the one-time bootstrap delivery. Zero disables it.
	TailLines int

	// MaxReadBytes bounds the bytes read from one file per tick.
	MaxReadBytes int64

	// PollInterval is the sleep between passes of the blocking loop.
	PollInterval time.Duration
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.MaxReadBytes <= 0 {
		c.MaxReadBytes = DefaultMaxReadBytes
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.WatchDir == "" {
		return fmt.Errorf("%w: watch dir is required", domain.ErrInvalidConfig)
	}
	if c.Sink == nil {
		return fmt.Errorf("%w: sink is required", domain.ErrInvalidConfig)
	}
	if c.TailLines < 0 {
		return fmt.Errorf("%w: tail lines must not be negative", domain.ErrInvalidConfig)
	}
	if c.MaxReadBytes <= 0 {
		return fmt.Errorf("%w: max read bytes must be positive", domain.ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

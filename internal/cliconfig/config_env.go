package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LOGTAIL_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("watch-dir", os.Getenv("LOGTAIL_WATCH_DIR"), &cfg.WatchDir)
	s.setStringsFromString("extensions", os.Getenv("LOGTAIL_EXTENSIONS"), &cfg.Extensions)

	if err := s.setIntFromString("tail-lines", os.Getenv("LOGTAIL_TAIL_LINES"), &cfg.TailLines); err != nil {
		return err
	}
	if err := s.setIntFromString("max-read-bytes", os.Getenv("LOGTAIL_MAX_READ_BYTES"), &cfg.MaxReadBytes); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("LOGTAIL_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("LOGTAIL_ONCE"), &cfg.Once)
	s.setBoolFromString("debug", os.Getenv("LOGTAIL_DEBUG"), &cfg.Debug)

	return nil
}

package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	WatchDir     string   `toml:"watch_dir"`
	Extensions   []string `toml:"extensions"`
	TailLines    int      `toml:"tail_lines"`
	MaxReadBytes int      `toml:"max_read_bytes"`
	PollInterval string   `toml:"poll_interval"`
	Once         *bool    `toml:"once"`
	Debug        *bool    `toml:"debug"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.logtail/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".logtail", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("watch-dir", fc.WatchDir, &cfg.WatchDir)
	s.setStrings("extensions", fc.Extensions, &cfg.Extensions)

	s.setInt("tail-lines", fc.TailLines, &cfg.TailLines)
	s.setInt("max-read-bytes", fc.MaxReadBytes, &cfg.MaxReadBytes)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}

	s.setBool("once", fc.Once, &cfg.Once)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

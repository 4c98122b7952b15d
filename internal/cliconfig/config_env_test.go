package cliconfig

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("LOGTAIL_WATCH_DIR", "/from/env")
	t.Setenv("LOGTAIL_EXTENSIONS", "log, txt ,json")
	t.Setenv("LOGTAIL_TAIL_LINES", "7")
	t.Setenv("LOGTAIL_POLL_INTERVAL", "2s")
	t.Setenv("LOGTAIL_ONCE", "true")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.WatchDir != "/from/env" {
		t.Errorf("WatchDir = %s, want /from/env", cfg.WatchDir)
	}
	if !reflect.DeepEqual(cfg.Extensions, []string{"log", "txt", "json"}) {
		t.Errorf("Extensions = %v, want [log txt json]", cfg.Extensions)
	}
	if cfg.TailLines != 7 {
		t.Errorf("TailLines = %d, want 7", cfg.TailLines)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if !cfg.Once {
		t.Error("Once = false, want true")
	}
}

func TestApplyEnvConfig_FlagsTakePrecedence(t *testing.T) {
	t.Setenv("LOGTAIL_WATCH_DIR", "/from/env")

	cfg := DefaultConfig()
	cfg.WatchDir = "/from/flag"
	changed := map[string]bool{"watch-dir": true}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}
	if cfg.WatchDir != "/from/flag" {
		t.Errorf("WatchDir = %s, flag value should win", cfg.WatchDir)
	}
}

func TestApplyEnvConfig_BadValue(t *testing.T) {
	t.Setenv("LOGTAIL_TAIL_LINES", "not-a-number")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err == nil {
		t.Error("ApplyEnvConfig accepted invalid integer")
	}
}

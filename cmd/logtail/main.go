package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/logtail"
	"github.com/bft-labs/logtail/internal/cliconfig"
	"github.com/bft-labs/logtail/internal/confwatch"
	logpkg "github.com/bft-labs/logtail/pkg/log"
)

const helpDescription = `
Tail every matching log file in a directory and stream appended lines to stdout.

Highlights:
  - Pure polling: no inotify, works on NFS and overlay filesystems.
  - Primes with the last N lines of each file at startup, then follows.
  - Survives truncation and copytruncate rotation without duplicates.
  - Configure via file, environment (LOGTAIL_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  logtail --watch-dir /var/log/myapp
  logtail --watch-dir /var/log/myapp --extensions log,txt --tail-lines 20
  logtail --config $HOME/.logtail/config.toml --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "logtail",
		Short:   "Tail every matching log file in a directory and stream appended lines to stdout",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.logtail/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment variables override file config but lose to flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Debug {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			sink := logtail.SinkFunc(func(path string, lines []string) {
				name := filepath.Base(path)
				for _, line := range lines {
					fmt.Printf("%s: %s\n", name, line)
				}
			})

			libCfg := logtail.Config{
				WatchDir:     cfg.WatchDir,
				Sink:         sink,
				Extensions:   cfg.Extensions,
				TailLines:    cfg.TailLines,
				MaxReadBytes: int64(cfg.MaxReadBytes),
				PollInterval: cfg.PollInterval,
			}

			adapter := logpkg.NewZerologAdapterWithLogger(log)

			c, err := logtail.New(libCfg, logtail.WithLogger(adapter))
			if err != nil {
				return fmt.Errorf("create collector: %w", err)
			}
			defer c.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if cfg.Once {
				return c.Poll(ctx)
			}

			if err := c.Start(ctx); err != nil {
				return fmt.Errorf("start collector: %w", err)
			}

			// Reload dynamic settings when the config file changes.
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := confwatch.New(cfgFile, func() {
					fc, err := cliconfig.LoadFileConfig(cfgFile)
					if err != nil {
						log.Warn().Err(err).Msg("config reload failed")
						return
					}
					reloaded := cfg
					if err := cliconfig.ApplyFileConfig(&reloaded, fc, changed); err != nil {
						log.Warn().Err(err).Msg("config reload failed")
						return
					}
					c.UpdateSettings(logtail.Settings{
						Extensions:   reloaded.Extensions,
						MaxReadBytes: int64(reloaded.MaxReadBytes),
						PollInterval: reloaded.PollInterval,
					})
				}, adapter)
				go watcher.Run(ctx)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// Watch for a crash of the poll loop while waiting for a signal.
			doneCh := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						status := c.Status()
						if status == logtail.StateStopped || status == logtail.StateCrashed {
							close(doneCh)
							return
						}
					}
				}
			}()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case <-doneCh:
				if c.Status() == logtail.StateCrashed {
					log.Error().Msg("collector crashed")
				}
			}

			if err := c.Stop(); err != nil && err != logtail.ErrNotRunning {
				return fmt.Errorf("stop collector: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.logtail/config.toml)")
	root.Flags().StringVar(&cfg.WatchDir, "watch-dir", cfg.WatchDir, "directory to watch for log files")
	root.Flags().StringSliceVar(&cfg.Extensions, "extensions", cfg.Extensions, "file extensions to track (empty = all files)")
	root.Flags().IntVar(&cfg.TailLines, "tail-lines", cfg.TailLines, "trailing lines delivered per file at startup")
	root.Flags().IntVar(&cfg.MaxReadBytes, "max-read-bytes", cfg.MaxReadBytes, "maximum bytes read per file per poll tick")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "poll interval between passes")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "run a single pass over all files and exit")
	root.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("logtail")
		os.Exit(1)
	}
}

package tail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/internal/ports"
)

// Config contains the tuning knobs for the tail engine.
type Config struct {
	// Extensions filters discovered files by suffix after the last '.'.
	// Empty means every file in the directory is tracked.
	Extensions []string

	// TailLines is the number of trailing lines delivered once per file
	// at bootstrap. Zero disables the bootstrap prime.
	TailLines int

	// MaxReadBytes bounds how many bytes are read from one file per tick.
	MaxReadBytes int64

	// PollInterval is the sleep between passes of the blocking loop.
	PollInterval time.Duration
}

// Settings are the knobs that may change while the engine runs. Zero-valued
// fields leave the current value in place; a non-nil Extensions slice
// replaces the filter (an empty non-nil slice means "all files").
type Settings struct {
	Extensions   []string
	MaxReadBytes int64
	PollInterval time.Duration
}

// EventEmitter receives engine events. Calls are synchronous from the
// polling loop.
type EventEmitter interface {
	OnFileTracked(path string)
	OnFileDropped(path string)
	OnTruncate(path string)
	OnBatch(batch domain.LineBatch)
}

// Engine drives the poll/read/dispatch cycle over a Registry.
//
// The engine is single-threaded: refresh, reads, and sink invocations all
// happen on the caller's goroutine (or the one running Loop). The mutex
// below guards only the dynamic settings, which a config reloader may
// update from outside.
type Engine struct {
	reg     *Registry
	sink    ports.LineSink
	logger  ports.Logger
	emitter EventEmitter

	tailLines int

	mu         sync.Mutex
	extensions map[string]struct{}
	maxRead    int64
	interval   time.Duration
}

// NewEngine creates an engine over the given registry and sink.
// The emitter may be nil.
func NewEngine(reg *Registry, sink ports.LineSink, cfg Config, logger ports.Logger, emitter EventEmitter) *Engine {
	return &Engine{
		reg:        reg,
		sink:       sink,
		logger:     logger,
		emitter:    emitter,
		tailLines:  cfg.TailLines,
		extensions: extensionSet(cfg.Extensions),
		maxRead:    cfg.MaxReadBytes,
		interval:   cfg.PollInterval,
	}
}

// UpdateSettings applies dynamic settings. Safe to call from another
// goroutine; the new values take effect on the next tick.
func (e *Engine) UpdateSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s.Extensions != nil {
		e.extensions = extensionSet(s.Extensions)
	}
	if s.MaxReadBytes > 0 {
		e.maxRead = s.MaxReadBytes
	}
	if s.PollInterval > 0 {
		e.interval = s.PollInterval
	}
}

func (e *Engine) extensionSnapshot() map[string]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.extensions
}

func (e *Engine) maxReadBytes() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxRead
}

func (e *Engine) pollInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

// Bootstrap populates the registry and primes the sink once per discovered
// file with its last TailLines lines. Each file's offset is moved to EOF
// first, so the live loop starts from "now"; the prime is computed by an
// independent backward scan and does not touch the offset.
//
// A file that disappears between discovery and the bootstrap read is
// dropped silently. Any other I/O error is fatal.
func (e *Engine) Bootstrap() error {
	if _, _, err := e.refresh(); err != nil {
		return err
	}

	for _, wf := range e.reg.Files() {
		info, err := e.reg.fs.Stat(wf.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e.drop(wf.path)
				continue
			}
			return fmt.Errorf("stat %s: %w", wf.path, err)
		}
		wf.offset = info.Size()
		wf.size = info.Size()

		if e.tailLines <= 0 {
			continue
		}
		lines, err := lastLines(wf.file, info.Size(), e.tailLines)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e.drop(wf.path)
				continue
			}
			return fmt.Errorf("tail %s: %w", wf.path, err)
		}
		if len(lines) > 0 {
			e.dispatch(wf.path, lines)
		}
	}
	return nil
}

// Once performs a single non-blocking pass: refresh the registry, then read
// and dispatch every tracked file exactly once. The full file set is always
// visited before returning.
func (e *Engine) Once(ctx context.Context) error {
	if _, _, err := e.refresh(); err != nil {
		return err
	}
	for _, wf := range e.reg.Files() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.readAndDispatch(wf); err != nil {
			return err
		}
	}
	return nil
}

// Loop runs passes separated by the poll interval until the context is done
// or an unrecoverable error occurs. File-vanished conditions are absorbed
// by dropping the file; every other I/O error terminates the loop.
func (e *Engine) Loop(ctx context.Context) error {
	for {
		if err := e.Once(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.pollInterval()):
		}
	}
}

func (e *Engine) refresh() (added, removed []string, err error) {
	added, removed, err = e.reg.Refresh(e.extensionSnapshot())
	if e.emitter != nil {
		for _, p := range added {
			e.emitter.OnFileTracked(p)
		}
		for _, p := range removed {
			e.emitter.OnFileDropped(p)
		}
	}
	return added, removed, err
}

// readAndDispatch performs one bounded read on a tracked file and forwards
// any complete lines to the sink.
func (e *Engine) readAndDispatch(wf *watchedFile) error {
	info, err := e.reg.fs.Stat(wf.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.drop(wf.path)
			return nil
		}
		return fmt.Errorf("stat %s: %w", wf.path, err)
	}

	size := info.Size()
	if size < wf.offset {
		// Truncated or rotated in place: start over. The carry is from
		// the old content and must not leak into the new file.
		e.logger.Info("file truncated, rereading from start",
			ports.String("path", wf.path),
			ports.Int64("size", size),
			ports.Int64("offset", wf.offset))
		wf.offset = 0
		wf.carry = nil
		if e.emitter != nil {
			e.emitter.OnTruncate(wf.path)
		}
	}
	wf.size = size
	if size == wf.offset {
		return nil
	}

	n := size - wf.offset
	if limit := e.maxReadBytes(); limit > 0 && n > limit {
		n = limit
	}
	buf := make([]byte, n)
	read, err := wf.file.ReadAt(buf, wf.offset)
	if err != nil && err != io.EOF {
		if errors.Is(err, fs.ErrNotExist) {
			e.drop(wf.path)
			return nil
		}
		return fmt.Errorf("read %s: %w", wf.path, err)
	}
	if read == 0 {
		return nil
	}
	wf.offset += int64(read)

	chunk := buf[:read]
	if len(wf.carry) > 0 {
		chunk = append(wf.carry, chunk...)
	}
	cut := bytes.LastIndexByte(chunk, '\n')
	if cut < 0 {
		// No complete line yet; hold everything for the next read.
		wf.carry = chunk
		return nil
	}
	wf.carry = append([]byte(nil), chunk[cut+1:]...)
	if len(wf.carry) == 0 {
		wf.carry = nil
	}

	e.dispatch(wf.path, splitLines(chunk[:cut]))
	return nil
}

// drop removes a vanished file from tracking. It reappears only if the next
// refresh rediscovers it.
func (e *Engine) drop(path string) {
	e.reg.Remove(path)
	e.logger.Debug("file vanished, untracked", ports.String("path", path))
	if e.emitter != nil {
		e.emitter.OnFileDropped(path)
	}
}

func (e *Engine) dispatch(path string, lines []string) {
	e.logger.Debug("dispatching lines",
		ports.String("path", path),
		ports.Int("lines", len(lines)))
	e.sink.Accept(path, lines)
	if e.emitter != nil {
		e.emitter.OnBatch(domain.LineBatch{Path: path, Lines: lines})
	}
}

// splitLines splits data (which never ends in '\n') into lines, trimming a
// trailing '\r' from each.
func splitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func extensionSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.TrimPrefix(ext, ".")] = struct{}{}
	}
	return set
}

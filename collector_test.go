package logtail

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"
)

// testSink records batches; safe for use from the polling goroutine.
type testSink struct {
	mu      sync.Mutex
	batches []struct {
		path  string
		lines []string
	}
}

func (s *testSink) Accept(path string, lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, struct {
		path  string
		lines []string
	}{path, append([]string(nil), lines...)})
}

func (s *testSink) lines() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.batches))
	for i, b := range s.batches {
		out[i] = b.lines
	}
	return out
}

func (s *testSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func appendTestFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}

func TestNew_ValidatesConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing watch dir", Config{Sink: SinkFunc(func(string, []string) {})}, ErrInvalidConfig},
		{"missing sink", Config{WatchDir: dir}, ErrInvalidConfig},
		{"watch dir does not exist", Config{
			WatchDir: filepath.Join(dir, "nope"),
			Sink:     SinkFunc(func(string, []string) {}),
		}, ErrNotADirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_BootstrapDeliversTail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeTestFile(t, path, "x=1\nx=2\n")

	sink := &testSink{}
	c, err := New(Config{
		WatchDir:   dir,
		Sink:       sink,
		Extensions: []string{"log"},
		TailLines:  1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	got := sink.lines()
	if len(got) != 1 || !reflect.DeepEqual(got[0], []string{"x=2"}) {
		t.Errorf("bootstrap batches = %v, want [[x=2]]", got)
	}
}

func TestCollector_PollDeliversAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeTestFile(t, path, "x=1\nx=2\n")

	sink := &testSink{}
	c, err := New(Config{WatchDir: dir, Sink: sink, TailLines: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	appendTestFile(t, path, "x=3\n")
	if err := c.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	got := sink.lines()
	if len(got) != 2 || !reflect.DeepEqual(got[1], []string{"x=3"}) {
		t.Errorf("batches = %v, want bootstrap then [x=3]", got)
	}
}

func TestCollector_StartStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeTestFile(t, path, "")

	sink := &testSink{}
	c, err := New(Config{
		WatchDir:     dir,
		Sink:         sink,
		PollInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}

	appendTestFile(t, path, "live line\n")

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := sink.lines(); len(got) == 0 || !reflect.DeepEqual(got[0], []string{"live line"}) {
		t.Errorf("batches = %v, want [[live line]]", got)
	}

	if err := c.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if c.Status() != StateStopped {
		t.Errorf("Status() = %v, want StateStopped", c.Status())
	}
	if err := c.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop = %v, want ErrNotRunning", err)
	}
}

func TestCollector_PollWhileRunning(t *testing.T) {
	dir := t.TempDir()

	c, err := New(Config{
		WatchDir:     dir,
		Sink:         SinkFunc(func(string, []string) {}),
		PollInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Poll(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Poll while running = %v, want ErrAlreadyRunning", err)
	}
	if err := c.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestCollector_CloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a.log"), "x\n")

	c, err := New(Config{WatchDir: dir, Sink: SinkFunc(func(string, []string) {})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := c.Poll(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Poll after Close = %v, want ErrClosed", err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Start after Close = %v, want ErrClosed", err)
	}
}

// eventRecorder records every event kind; safe across goroutines.
type eventRecorder struct {
	mu          sync.Mutex
	tracked     []string
	dropped     []string
	truncated   []string
	batches     []BatchEvent
	transitions []StateChangeEvent
}

func (r *eventRecorder) OnStateChange(e StateChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, e)
}

func (r *eventRecorder) OnFileTracked(e FileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = append(r.tracked, e.Path)
}

func (r *eventRecorder) OnFileDropped(e FileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, e.Path)
}

func (r *eventRecorder) OnTruncate(e TruncateEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.truncated = append(r.truncated, e.Path)
}

func (r *eventRecorder) OnBatch(e BatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, e)
}

func TestCollector_Events(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeTestFile(t, path, "x=1\n")

	rec := &eventRecorder{}
	c, err := New(
		Config{WatchDir: dir, Sink: SinkFunc(func(string, []string) {}), TailLines: 1},
		WithEventHandler(rec),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	// Truncate, rewrite, remove across two polls.
	writeTestFile(t, path, "y\n")
	if err := c.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if !reflect.DeepEqual(rec.tracked, []string{path}) {
		t.Errorf("tracked = %v, want [%s]", rec.tracked, path)
	}
	if !reflect.DeepEqual(rec.truncated, []string{path}) {
		t.Errorf("truncated = %v, want [%s]", rec.truncated, path)
	}
	if !reflect.DeepEqual(rec.dropped, []string{path}) {
		t.Errorf("dropped = %v, want [%s]", rec.dropped, path)
	}
	// Bootstrap batch plus the post-truncation batch.
	if len(rec.batches) != 2 {
		t.Errorf("batches = %+v, want 2 events", rec.batches)
	}
}

func TestCollector_UpdateSettings(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "b.txt")
	writeTestFile(t, txt, "")

	sink := &testSink{}
	c, err := New(Config{WatchDir: dir, Sink: sink, Extensions: []string{"log"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	appendTestFile(t, txt, "now tracked\n")
	c.UpdateSettings(Settings{Extensions: []string{"log", "txt"}})
	if err := c.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	got := sink.lines()
	if len(got) != 1 || !reflect.DeepEqual(got[0], []string{"now tracked"}) {
		t.Errorf("batches = %v, want [[now tracked]]", got)
	}
}

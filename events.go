package logtail

import (
	"github.com/bft-labs/logtail/internal/app"
	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/internal/tail"
)

// State represents the lifecycle state of a Collector.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// FileEvent is emitted when a file is first tracked or is dropped from
// tracking (because it vanished from the directory).
type FileEvent struct {
	Path string
}

// TruncateEvent is emitted when a tracked file's size fell below its stored
// offset and reading restarted from the beginning.
type TruncateEvent struct {
	Path string
}

// BatchEvent is emitted after a line batch was handed to the sink.
type BatchEvent struct {
	Path  string
	Lines int
}

// EventHandler receives collector events. All methods are called
// synchronously from the polling goroutine; implementations should return
// quickly.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
	OnFileTracked(FileEvent)
	OnFileDropped(FileEvent)
	OnTruncate(TruncateEvent)
	OnBatch(BatchEvent)
}

// eventEmitterWrapper adapts an EventHandler to the internal emitter
// interfaces. A nil handler makes every method a no-op.
type eventEmitterWrapper struct {
	handler EventHandler
}

var (
	_ app.EventEmitter  = (*eventEmitterWrapper)(nil)
	_ tail.EventEmitter = (*eventEmitterWrapper)(nil)
)

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: State(previous),
		Current:  State(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnFileTracked(path string) {
	if e.handler == nil {
		return
	}
	e.handler.OnFileTracked(FileEvent{Path: path})
}

func (e *eventEmitterWrapper) OnFileDropped(path string) {
	if e.handler == nil {
		return
	}
	e.handler.OnFileDropped(FileEvent{Path: path})
}

func (e *eventEmitterWrapper) OnTruncate(path string) {
	if e.handler == nil {
		return
	}
	e.handler.OnTruncate(TruncateEvent{Path: path})
}

func (e *eventEmitterWrapper) OnBatch(batch domain.LineBatch) {
	if e.handler == nil {
		return
	}
	e.handler.OnBatch(BatchEvent{Path: batch.Path, Lines: batch.Size()})
}

// Package tail implements the watch/tail/dispatch core: a Registry that
// owns open read handles and per-file offsets, and an Engine that drives
// the polling loop, the bootstrap prime, bounded incremental reads,
// partial-line buffering, and truncation recovery.
//
// The engine is a pure polling design. It needs no kernel notification API
// and works on any filesystem afero can wrap.
package tail

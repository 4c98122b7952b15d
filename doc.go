// Package logtail provides an embeddable directory-watching, incremental
// log tailer. It monitors a directory for files matching configured
// extensions, tracks each file's read offset across polling passes, and
// hands newly appended complete lines to a caller-supplied sink.
//
// It is the building block underneath log shippers, metrics scrapers, or
// audit pipelines that need near-real-time visibility into append-only log
// files. The engine is pure polling: no kernel notification API is used for
// the tail path, so it works on network and overlay filesystems too.
//
// # Basic Usage
//
//	cfg := logtail.Config{
//	    WatchDir:   "/var/log/myapp",
//	    Extensions: []string{"log"},
//	    TailLines:  10,
//	    Sink: logtail.SinkFunc(func(path string, lines []string) {
//	        for _, l := range lines {
//	            fmt.Println(path, l)
//	        }
//	    }),
//	}
//
//	c, err := logtail.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	ctx := context.Background()
//	if err := c.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := c.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// New runs the bootstrap synchronously: each discovered file is primed at
// end-of-file and its last TailLines lines are delivered once, so the sink
// starts with recent context before any new write lands.
//
// For one-shot processing instead of a background loop, call
// [Collector.Poll], which refreshes the registry and reads every tracked
// file exactly once.
//
// # Delivery Semantics
//
// Lines are delivered in file order, once each, with no omissions. A
// trailing line without a terminating newline is buffered until a later
// append completes it; it is never delivered as a fragment. If a file
// shrinks below its stored offset it is treated as truncated or rotated and
// reading restarts from the beginning of the new content.
//
// The sink runs synchronously inside the loop. A slow sink delays the tick;
// there is no internal back-pressure or timeout.
//
// # Events
//
// To observe discoveries, drops, truncations, batches, and lifecycle
// transitions, implement [EventHandler] and pass it via [WithEventHandler].
package logtail

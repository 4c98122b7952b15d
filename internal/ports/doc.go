// Package ports defines the interfaces (ports) that connect the application
// layer to the outside world.
//
// In Hexagonal Architecture terms, ports are the boundaries between the
// application core and its collaborators. They define what the application
// needs without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [LineSink]: Receives batches of tailed log lines
//   - [Logger]: Structured logging abstraction
//
// The tail engine (internal/tail) depends only on these interfaces. The
// public API (package logtail) and the CLI provide concrete sinks; tests
// provide recording fakes.
package ports

// Package domain holds the core entities and error values of logtail.
//
// Entities here have no dependencies on infrastructure. The application
// layer (internal/tail, internal/app) and the public API both build on
// these types.
package domain

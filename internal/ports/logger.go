package ports

import "github.com/bft-labs/logtail/pkg/log"

// Logger is the structured logging port used throughout the internal layers.
// It aliases pkg/log.Logger so adapters and field constructors are shared.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Re-exported field constructors for convenience at call sites.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Duration = log.Duration
	Err      = log.Err
)

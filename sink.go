package logtail

import "github.com/bft-labs/logtail/internal/ports"

// LineSink receives batches of complete log lines.
// Accept runs synchronously inside the polling loop: a slow sink stalls the
// remaining files for that tick and delays the next poll. There is no
// back-pressure mechanism; consumers needing one should hand work off to
// their own goroutine or queue.
type LineSink = ports.LineSink

// SinkFunc adapts a plain function to the LineSink interface.
type SinkFunc func(path string, lines []string)

// Accept calls f(path, lines).
func (f SinkFunc) Accept(path string, lines []string) {
	f(path, lines)
}

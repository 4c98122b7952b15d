package ports

// LineSink receives batches of complete log lines from the tail engine.
// Accept is invoked synchronously from the polling loop: one call per file
// per tick, only when at least one complete line was read. Implementations
// that block stall the loop, so slow consumers should hand work off on
// their own side.
type LineSink interface {
	// Accept delivers the complete lines read from path, in file order.
	// Lines carry no trailing newline characters.
	Accept(path string, lines []string)
}

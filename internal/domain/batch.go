package domain

// LineBatch is an ordered sequence of complete lines extracted from one read
// of a single file. A batch is delivered atomically to the sink and never
// spans two polling ticks. Lines carry no trailing newline characters.
type LineBatch struct {
	// Path is the absolute path of the file the lines were read from.
	Path string

	// Lines holds the complete lines in file order.
	Lines []string
}

// Size returns the number of lines in the batch.
func (b LineBatch) Size() int {
	return len(b.Lines)
}

// Empty reports whether the batch contains no lines.
func (b LineBatch) Empty() bool {
	return len(b.Lines) == 0
}

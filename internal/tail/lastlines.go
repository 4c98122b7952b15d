package tail

import (
	"bytes"
	"io"
	"strings"
)

// lastLinesBlock is the read granularity of the backward scan.
const lastLinesBlock = 4096

// lastLines returns the last n lines of a reader of the given size without
// reading the whole file: blocks are read backwards from EOF until enough
// newlines have been seen. A trailing line without a terminating newline
// counts as a line, matching tail(1). Returns nil for empty files or n <= 0.
func lastLines(r io.ReaderAt, size int64, n int) ([]string, error) {
	if n <= 0 || size <= 0 {
		return nil, nil
	}

	var (
		chunk []byte
		off   = size
	)
	for off > 0 {
		step := int64(lastLinesBlock)
		if off < step {
			step = off
		}
		off -= step
		buf := make([]byte, step)
		if _, err := r.ReadAt(buf, off); err != nil && err != io.EOF {
			return nil, err
		}
		chunk = append(buf, chunk...)
		// One extra newline guarantees n complete lines after the
		// possibly mid-line cut at the front of the chunk.
		if bytes.Count(chunk, []byte{'\n'}) > n {
			break
		}
	}

	text := strings.TrimSuffix(string(chunk), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

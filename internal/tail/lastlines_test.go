package tail

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestLastLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    []string
	}{
		{"last one of two", "x=1\nx=2\n", 1, []string{"x=2"}},
		{"all lines", "a\nb\nc\n", 3, []string{"a", "b", "c"}},
		{"fewer lines than requested", "only\n", 5, []string{"only"}},
		{"unterminated trailing line counts", "a\nb\npartial", 2, []string{"b", "partial"}},
		{"empty file", "", 3, nil},
		{"zero n", "a\nb\n", 0, nil},
		{"crlf stripped", "a\r\nb\r\n", 2, []string{"a", "b"}},
		{"single newline only", "\n", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			got, err := lastLines(r, int64(len(tt.content)), tt.n)
			if err != nil {
				t.Fatalf("lastLines: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lastLines(%q, %d) = %v, want %v", tt.content, tt.n, got, tt.want)
			}
		})
	}
}

func TestLastLines_CrossesBlockBoundary(t *testing.T) {
	// Build content well past the backward-scan block size.
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		fmt.Fprintf(&sb, "line-%04d\n", i)
	}
	content := sb.String()
	if len(content) <= lastLinesBlock {
		t.Fatalf("test content too small: %d bytes", len(content))
	}

	got, err := lastLines(strings.NewReader(content), int64(len(content)), 3)
	if err != nil {
		t.Fatalf("lastLines: %v", err)
	}
	want := []string{"line-1997", "line-1998", "line-1999"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lastLines = %v, want %v", got, want)
	}
}

package tui

import (
	"strings"
	"sync"
)

// DefaultLogLines is how many lines a LogBuffer keeps.
const DefaultLogLines = 500

// LogBuffer is an io.Writer that keeps the most recent log lines so the
// simulator can show them while the appliance writes from its own goroutine.
type LogBuffer struct {
	mu      sync.Mutex
	limit   int
	lines   []string
	partial string
	version int
}

// NewLogBuffer keeps up to limit lines.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = DefaultLogLines
	}
	return &LogBuffer{limit: limit}
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - b.limit; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
	b.version++
	return len(p), nil
}

// Lines returns a copy of the complete lines written so far and a version
// that changes on every write.
func (b *LogBuffer) Lines() ([]string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out, b.version
}

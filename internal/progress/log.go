package progress

import (
	"fmt"
	"io"
	"sync"
)

// Log is the ordered, human-readable record of a publish run. Lines are
// kept in append order and optionally mirrored to a writer as they arrive.
type Log struct {
	mu     sync.Mutex
	lines  []string
	mirror io.Writer
}

// NewLog creates a log mirroring each line to w. w may be nil.
func NewLog(w io.Writer) *Log {
	return &Log{mirror: w}
}

// Append adds a line
func (l *Log) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, line)
	if l.mirror != nil {
		fmt.Fprintln(l.mirror, line)
	}
}

// Appendf adds a formatted line
func (l *Log) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the lines so far
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.lines...)
}

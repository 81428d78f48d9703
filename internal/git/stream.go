package git

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// progressWriter prefixes git's stderr lines and condenses transfer progress.
// A line split across writes is held until its end arrives.
type progressWriter struct {
	prefix  string
	w       io.Writer
	last    string
	partial string
}

func newProgressWriter(prefix string, w io.Writer) *progressWriter {
	return &progressWriter{prefix: prefix, w: w}
}

var (
	// Match lines like:
	// Writing objects:  67% (2/3), 236.76 KiB | 78.92 MiB/s
	progressRegex = regexp.MustCompile(`^(Enumerating objects|Counting objects|Compressing objects|Writing objects|Resolving deltas):\s*(\d+)%`)
)

func (pw *progressWriter) Write(p []byte) (n int, err error) {
	// git redraws progress with carriage returns
	text := pw.partial + strings.ReplaceAll(string(p), "\r", "\n")
	lines := strings.Split(text, "\n")
	pw.partial = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		pw.writeLine(line)
	}
	return len(p), nil
}

// Flush writes a pending partial line
func (pw *progressWriter) Flush() {
	if pw.partial != "" {
		pw.writeLine(pw.partial)
		pw.partial = ""
	}
}

func (pw *progressWriter) writeLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	line = strings.TrimPrefix(line, "remote: ")

	if matches := progressRegex.FindStringSubmatch(line); matches != nil {
		// only report phase completion
		if matches[2] != "100" || matches[1] == pw.last {
			return
		}
		pw.last = matches[1]
		fmt.Fprintf(pw.w, "%s%s: done\n", pw.prefix, matches[1])
		return
	}

	fmt.Fprintf(pw.w, "%s%s\n", pw.prefix, line)
}

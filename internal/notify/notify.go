// Package notify delivers short, leveled status messages to the user,
// separate from the step-by-step progress log.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a notification
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notification is one message shown to the user
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications
type Notifier interface {
	Notify(level Level, message string)
}

// Console writes notifications to a terminal, colored by level when the
// writer supports it
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[Level]lipgloss.Style
}

var symbols = map[Level]string{
	Info:    "•",
	Success: "✓",
	Warning: "!",
	Error:   "✗",
}

// NewConsole creates a console notifier writing to out
func NewConsole(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out: out,
		styles: map[Level]lipgloss.Style{
			Info:    r.NewStyle().Foreground(lipgloss.Color("6")),
			Success: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
			Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
			Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// Notify implements Notifier
func (c *Console) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	style, ok := c.styles[level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	fmt.Fprintln(c.out, style.Render(symbols[level]+" "+message))
}

// Recorder keeps notifications in memory
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, Notification{Level: level, Message: message})
}

// Notifications returns the recorded notifications in order
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Notification(nil), r.notifications...)
}

// Count returns how many notifications of level were recorded
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, note := range r.notifications {
		if note.Level == level {
			n++
		}
	}
	return n
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

// Notify implements Notifier
func (m Multi) Notify(level Level, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, message)
		}
	}
}

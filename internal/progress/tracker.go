package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Tracker interface defines methods for tracking the steps of a publish run
type Tracker interface {
	Start(operation string) *Operation
	Update(current, total int64)
	Complete()
	Error(err error)
}

// Status values of an Operation
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Operation represents a tracked operation
type Operation struct {
	Name        string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	LastCurrent int64
	LastTotal   int64
	Err         error
}

// Duration is how long the operation ran, or has been running so far
func (o *Operation) Duration() time.Duration {
	if o.EndTime.IsZero() {
		return time.Since(o.StartTime)
	}
	return o.EndTime.Sub(o.StartTime)
}

func newOperation(name string) *Operation {
	return &Operation{
		Name:      name,
		StartTime: time.Now(),
		Status:    StatusInProgress,
	}
}

func (o *Operation) finish(status string, err error) {
	o.Status = status
	o.Err = err
	o.EndTime = time.Now()
}

// DefaultTracker keeps every operation it was asked to track
type DefaultTracker struct {
	mu               sync.Mutex
	CurrentOperation *Operation
	operations       []*Operation
}

// Start begins tracking a new operation
func (t *DefaultTracker) Start(operation string) *Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.CurrentOperation = newOperation(operation)
	t.operations = append(t.operations, t.CurrentOperation)
	return t.CurrentOperation
}

// Update records the step position of the current operation
func (t *DefaultTracker) Update(current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentOperation == nil {
		return
	}
	t.CurrentOperation.LastCurrent = current
	t.CurrentOperation.LastTotal = total
}

// Complete marks the operation as completed
func (t *DefaultTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentOperation != nil {
		t.CurrentOperation.finish(StatusCompleted, nil)
	}
}

// Error marks the operation as failed with an error
func (t *DefaultTracker) Error(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentOperation != nil {
		t.CurrentOperation.finish(StatusFailed, err)
	}
}

// Operations returns the tracked operations in start order
func (t *DefaultTracker) Operations() []*Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]*Operation(nil), t.operations...)
}

// ConsoleTracker implements Tracker for console output
type ConsoleTracker struct {
	out              io.Writer
	currentOperation *Operation
}

// NewConsoleTracker creates a tracker writing to out, or stdout when out is nil
func NewConsoleTracker(out io.Writer) *ConsoleTracker {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleTracker{out: out}
}

// Start begins tracking a new operation
func (t *ConsoleTracker) Start(operation string) *Operation {
	t.currentOperation = newOperation(operation)
	return t.currentOperation
}

// Update prints the step position of the current operation
func (t *ConsoleTracker) Update(current, total int64) {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.LastCurrent = current
	t.currentOperation.LastTotal = total
	fmt.Fprintf(t.out, "[%d/%d] %s\n", current, total, t.currentOperation.Name)
}

// Complete marks the current operation as completed
func (t *ConsoleTracker) Complete() {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.finish(StatusCompleted, nil)
	t.currentOperation = nil
}

// Error marks the current operation as failed
func (t *ConsoleTracker) Error(err error) {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.finish(StatusFailed, err)
	fmt.Fprintf(t.out, "Failed: %s (after %v)\n", t.currentOperation.Name, t.currentOperation.Duration().Round(time.Millisecond))
	t.currentOperation = nil
}

// NopTracker discards everything
type NopTracker struct{}

func (NopTracker) Start(operation string) *Operation { return newOperation(operation) }
func (NopTracker) Update(current, total int64) {}
func (NopTracker) Complete() {}
func (NopTracker) Error(err error) {}

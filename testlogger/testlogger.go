// Package testlogger provides a zerolog logger that writes into a buffer, so
// tests can assert on emitted log records.
package testlogger

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

func New() (zerolog.Logger, *Writer) {
	w := &Writer{}
	return zerolog.New(w), w
}

type Writer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.b.Write(p)
}

func (w *Writer) Content() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.b.String()
}

// Lines returns the captured output split into records, one per log event.
func (w *Writer) Lines() []string {
	c := strings.TrimRight(w.Content(), "\n")
	if c == "" {
		return nil
	}

	return strings.Split(c, "\n")
}

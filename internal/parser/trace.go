package parser

import (
	"fmt"
	"io"
	"os"
)

// Trace provides verbose output of parsing decisions. A nil *Trace is
// valid and silent, so callers only pay for tracing when they ask for it.
type Trace struct {
	enabled bool
	out     io.Writer
}

// NewTrace creates a new trace instance writing to stderr.
func NewTrace(enabled bool) *Trace {
	return &Trace{enabled: enabled, out: os.Stderr}
}

// SetOutput sets the output writer for the trace.
func (t *Trace) SetOutput(w io.Writer) {
	t.out = w
}

// Logf prints a formatted message if tracing is enabled.
func (t *Trace) Logf(format string, args ...interface{}) {
	if t != nil && t.enabled {
		fmt.Fprintf(t.out, "[ezregexp] "+format+"\n", args...)
	}
}

// Section prints a section header if tracing is enabled.
func (t *Trace) Section(name string) {
	if t != nil && t.enabled {
		fmt.Fprintf(t.out, "\n[ezregexp] === %s ===\n", name)
	}
}

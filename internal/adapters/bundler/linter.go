package bundler

import (
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Linter = (*Linter)(nil)

// Linter collects findings while a bundle is built.
type Linter struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
}

// NewLinter returns an empty Linter.
func NewLinter() *Linter {
	return &Linter{}
}

// Errorf records an error finding.
func (l *Linter) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// Warnf records a warning finding.
func (l *Linter) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any error was recorded.
func (l *Linter) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors) > 0
}

// HasWarnings reports whether any warning was recorded.
func (l *Linter) HasWarnings() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings) > 0
}

// Report lists every finding, errors first, one per line.
func (l *Linter) Report() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := make([]string, 0, len(l.errors)+len(l.warnings))
	for _, e := range l.errors {
		lines = append(lines, "error: "+e)
	}
	for _, w := range l.warnings {
		lines = append(lines, "warning: "+w)
	}
	return strings.Join(lines, "\n")
}

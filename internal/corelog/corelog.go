// Package corelog holds the core's one piece of process-wide mutable
// state: an optional diagnostic logging sink, set once at startup and
// shared by every package in the module (spec §5/§9: "the one
// process-wide concern is an optional logging hook configured at
// startup"). Everything else is per-Document.
package corelog

import (
	"io"
	"log"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = log.New(io.Discard, "", 0)
)

// Set installs l as the process-wide sink. Passing nil restores the
// discarding default.
func Set(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// Printf writes a diagnostic message to the installed sink.
func Printf(format string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Printf(format, args...)
}

package main

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// EventKind groups event log lines by the part of the app that raised them.
type EventKind string

const (
	EventApp    EventKind = "app"    // lifecycle and handoffs
	EventMenu   EventKind = "menu"   // menu opened, entry selected
	EventDemo   EventKind = "demo"   // LED pulse and servo sweep runs
	EventSensor EventKind = "sensor" // failed distance readings
)

// EventLogger appends timestamped application events to a file and counts
// them per kind.  It is safe for concurrent use.  A nil *EventLogger
// discards events; an empty path only counts them.
type EventLogger struct {
	filePath string
	mu       sync.Mutex
	now      func() time.Time
	counts   map[EventKind]int
}

// NewEventLogger creates a logger writing to filePath.
func NewEventLogger(filePath string) *EventLogger {
	return &EventLogger{filePath: filePath, now: time.Now, counts: make(map[EventKind]int)}
}

// Log writes a single event line.  Errors are printed to standard error and
// otherwise ignored so that a full disk never stalls the poll loop.
func (el *EventLogger) Log(kind EventKind, format string, args ...any) {
	if el == nil {
		return
	}
	el.mu.Lock()
	defer el.mu.Unlock()
	el.counts[kind]++
	if el.filePath == "" {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] %s\n", el.now().Format(time.RFC3339), kind, msg)
	f, err := os.OpenFile(el.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "log write error: %v\n", err)
	}
}

// Count returns how many events of kind have been logged.
func (el *EventLogger) Count(kind EventKind) int {
	if el == nil {
		return 0
	}
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.counts[kind]
}

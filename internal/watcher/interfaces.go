// Package watcher implements the per-workspace recursive file watcher of
// spec.md §4.8: an OS-appropriate fsnotify backend with a composed ignore
// predicate, forwarding surviving events to the Change Buffer and to an
// external observer (e.g. a language-server facade).
package watcher

import (
	"context"
	"time"
)

// EventType mirrors internal/changebuffer.EventType without importing it,
// keeping the watcher's public surface independent of the buffer it happens
// to feed (spec.md §3: the watcher never owns or depends on its consumer).
type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one surviving filesystem change.
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// Watcher is the recursive, per-workspace file watcher.
type Watcher interface {
	// Start begins watching. onChange feeds the Change Buffer; onNotify (may
	// be nil) feeds an external observer. Start returns once watching has
	// begun; it does not block.
	Start(ctx context.Context, onChange func(Event), onNotify func(Event)) error
	// Stop stops the watcher. Idempotent.
	Stop() error
}

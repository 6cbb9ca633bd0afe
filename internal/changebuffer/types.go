// Package changebuffer implements the debounced filesystem-event coalescer
// of spec.md §4.7: a state machine (Idle → Buffering → Flushing → Idle) that
// coalesces events by path and delivers one batch to the Index Service.
package changebuffer

import "time"

// EventType is the kind of filesystem change a File Watcher observed.
type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one raw filesystem change, as produced by the File Watcher.
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// State is one of the buffer's three states.
type State string

const (
	StateIdle      State = "idle"
	StateBuffering State = "buffering"
	StateFlushing  State = "flushing"
)

// Config tunes the buffer's debounce behavior. Zero values are replaced by
// DefaultConfig's values by New.
type Config struct {
	// DebounceMs is the quiet period after the most recent event before a
	// flush is scheduled. Default 500ms.
	DebounceMs int
	// MaxBufferSize forces an immediate flush once this many distinct paths
	// are pending. Default 50.
	MaxBufferSize int
	// MaxWaitMs forces an immediate flush once the oldest pending event has
	// waited this long. Default 5000ms.
	MaxWaitMs int
}

// DefaultConfig matches spec.md §4.7's defaults.
func DefaultConfig() Config {
	return Config{DebounceMs: 500, MaxBufferSize: 50, MaxWaitMs: 5000}
}

// Batch is the coalesced set of changes delivered to the Index Service on a
// flush, split the way spec.md §4.7 groups them.
type Batch struct {
	Deletes         []string
	CreatesOrUpdates []string
}

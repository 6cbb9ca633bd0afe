package changebuffer

import (
	"log"
	"sort"
	"sync"
	"time"
)

// Buffer is the debounced coalescer of spec.md §4.7. The zero value is not
// usable; construct with New.
type Buffer struct {
	cfg      Config
	callback func(Batch) error
	logger   *log.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     State
	pending   map[string]Event
	firstSeen map[string]time.Time
	timer     *time.Timer
}

// New returns an Idle Buffer that delivers flushed batches to callback.
// A zero Config field is replaced by DefaultConfig's value.
func New(cfg Config, callback func(Batch) error, logger *log.Logger) *Buffer {
	d := DefaultConfig()
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = d.DebounceMs
	}
	if cfg.MaxBufferSize <= 0 {
		cfg.MaxBufferSize = d.MaxBufferSize
	}
	if cfg.MaxWaitMs <= 0 {
		cfg.MaxWaitMs = d.MaxWaitMs
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Buffer{
		cfg:       cfg,
		callback:  callback,
		logger:    logger,
		now:       time.Now,
		state:     StateIdle,
		pending:   map[string]Event{},
		firstSeen: map[string]time.Time{},
	}
}

// State returns the buffer's current state.
func (b *Buffer) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Add enqueues a raw filesystem event, coalescing it with any already-
// pending event for the same path per spec.md §4.7's rule table.
func (b *Buffer) Add(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateIdle {
		b.state = StateBuffering
	}

	if final, ok := b.pending[ev.Path]; ok {
		coalesced, drop := coalesce(final, ev)
		if drop {
			delete(b.pending, ev.Path)
			delete(b.firstSeen, ev.Path)
		} else {
			b.pending[ev.Path] = coalesced
		}
	} else {
		b.pending[ev.Path] = ev
		b.firstSeen[ev.Path] = b.now()
	}

	if b.shouldFlushNowLocked() {
		b.flushLocked()
		return
	}
	b.resetTimerLocked()
}

// shouldFlushNowLocked reports whether the forced-flush thresholds have been
// crossed. Caller must hold b.mu.
func (b *Buffer) shouldFlushNowLocked() bool {
	if len(b.pending) >= b.cfg.MaxBufferSize {
		return true
	}
	oldest := b.oldestFirstSeenLocked()
	if oldest.IsZero() {
		return false
	}
	return b.now().Sub(oldest) >= time.Duration(b.cfg.MaxWaitMs)*time.Millisecond
}

func (b *Buffer) oldestFirstSeenLocked() time.Time {
	var oldest time.Time
	for _, t := range b.firstSeen {
		if oldest.IsZero() || t.Before(oldest) {
			oldest = t
		}
	}
	return oldest
}

func (b *Buffer) resetTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(time.Duration(b.cfg.DebounceMs)*time.Millisecond, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.state != StateBuffering {
			return
		}
		b.flushLocked()
	})
}

// flushLocked transitions Buffering -> Flushing -> Idle, delivering the
// coalesced batch to the callback. Caller must hold b.mu; the callback is
// invoked with the lock held, matching the single-logical-thread model of
// spec.md §5 (the Index Service callback never itself calls back into the
// buffer).
func (b *Buffer) flushLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.state = StateFlushing

	batch := buildBatch(b.pending)
	b.pending = map[string]Event{}
	b.firstSeen = map[string]time.Time{}

	b.state = StateIdle

	if len(batch.Deletes) == 0 && len(batch.CreatesOrUpdates) == 0 {
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Printf("changebuffer: callback panicked: %v", r)
			}
		}()
		if err := b.callback(batch); err != nil {
			b.logger.Printf("changebuffer: callback error: %v", err)
		}
	}()
}

// Flush forces an immediate flush regardless of debounce/threshold state.
// No-op if the buffer is empty.
func (b *Buffer) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushLocked()
}

func buildBatch(pending map[string]Event) Batch {
	var batch Batch
	for path, ev := range pending {
		switch ev.Type {
		case EventDelete:
			batch.Deletes = append(batch.Deletes, path)
		default:
			batch.CreatesOrUpdates = append(batch.CreatesOrUpdates, path)
		}
	}
	sort.Strings(batch.Deletes)
	sort.Strings(batch.CreatesOrUpdates)
	return batch
}

// coalesce applies spec.md §4.7's per-path rule table: given the current
// coalesced (final) event for a path and an incoming one, return the new
// final event, or drop=true if the pair cancels out.
func coalesce(final, incoming Event) (result Event, drop bool) {
	switch {
	case final.Type == EventCreate && incoming.Type == EventDelete:
		return Event{}, true
	case final.Type == EventDelete && incoming.Type == EventCreate:
		return Event{Type: EventUpdate, Path: incoming.Path, Timestamp: incoming.Timestamp}, false
	default:
		// "any non-delete then update -> keep as-is (newer)" and
		// "update then delete -> delete" both reduce to "incoming wins".
		return incoming, false
	}
}

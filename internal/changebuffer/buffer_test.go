package changebuffer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalescingCreateThenDeleteDrops(t *testing.T) {
	batches := make(chan Batch, 1)
	b := New(Config{DebounceMs: 10}, func(batch Batch) error {
		batches <- batch
		return nil
	}, nil)

	b.Add(Event{Type: EventCreate, Path: "p", Timestamp: time.Now()})
	b.Add(Event{Type: EventDelete, Path: "p", Timestamp: time.Now()})

	select {
	case batch := <-batches:
		t.Fatalf("expected no flush (create+delete cancels out), got %+v", batch)
	case <-time.After(80 * time.Millisecond):
	}
}

// TestEndToEndCoalescing matches spec.md §8 scenario 6: create, update,
// update, delete on the same path flushes as a single delete.
func TestEndToEndCoalescing(t *testing.T) {
	batches := make(chan Batch, 1)
	b := New(Config{DebounceMs: 10}, func(batch Batch) error {
		batches <- batch
		return nil
	}, nil)

	b.Add(Event{Type: EventCreate, Path: "p"})
	b.Add(Event{Type: EventUpdate, Path: "p"})
	b.Add(Event{Type: EventUpdate, Path: "p"})
	b.Add(Event{Type: EventDelete, Path: "p"})

	select {
	case batch := <-batches:
		assert.Equal(t, []string{"p"}, batch.Deletes)
		assert.Empty(t, batch.CreatesOrUpdates)
	case <-time.After(time.Second):
		t.Fatal("expected a flush within debounce window")
	}
}

func TestDeleteThenCreateBecomesUpdate(t *testing.T) {
	batches := make(chan Batch, 1)
	b := New(Config{DebounceMs: 10}, func(batch Batch) error {
		batches <- batch
		return nil
	}, nil)

	b.Add(Event{Type: EventDelete, Path: "p"})
	b.Add(Event{Type: EventCreate, Path: "p"})

	select {
	case batch := <-batches:
		assert.Equal(t, []string{"p"}, batch.CreatesOrUpdates)
		assert.Empty(t, batch.Deletes)
	case <-time.After(time.Second):
		t.Fatal("expected a flush")
	}
}

func TestMaxBufferSizeForcesImmediateFlush(t *testing.T) {
	batches := make(chan Batch, 1)
	b := New(Config{DebounceMs: 5000, MaxBufferSize: 2}, func(batch Batch) error {
		batches <- batch
		return nil
	}, nil)

	b.Add(Event{Type: EventCreate, Path: "a"})
	b.Add(Event{Type: EventCreate, Path: "b"})

	select {
	case batch := <-batches:
		assert.ElementsMatch(t, []string{"a", "b"}, batch.CreatesOrUpdates)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected immediate flush once max buffer size reached")
	}
}

func TestCallbackErrorStillClearsBuffer(t *testing.T) {
	done := make(chan struct{}, 1)
	b := New(Config{DebounceMs: 10}, func(batch Batch) error {
		done <- struct{}{}
		return errors.New("boom")
	}, nil)

	b.Add(Event{Type: EventCreate, Path: "p"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected flush to be attempted")
	}

	require.Eventually(t, func() bool { return b.State() == StateIdle }, time.Second, 5*time.Millisecond)
}

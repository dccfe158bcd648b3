package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	state, err := store.Create(KindBooking)
	assert.NoError(t, err)

	found, err := store.Get(state.ID)
	assert.NoError(t, err)
	assert.Equal(t, state.ID, found.ID)
	assert.Equal(t, 1, store.Len())
}

func TestStoreUnknownKind(t *testing.T) {
	store := NewStore(time.Hour)

	_, err := store.Create(Kind("raffle"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore(time.Hour)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreDiscard(t *testing.T) {
	store := NewStore(time.Hour)
	state, _ := store.Create(KindContact)

	assert.NoError(t, store.Discard(state.ID))
	_, err := store.Get(state.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, store.Discard(state.ID), ErrSessionNotFound)
}

// TestStoreDiscardDropsLateResponse - closing the modal mid-flight
// leaves the in-flight submission running but its outcome is ignored
func TestStoreDiscardDropsLateResponse(t *testing.T) {
	store := NewStore(time.Hour)
	state, _ := store.Create(KindContact)
	state.SetFields(map[string]string{
		"name":         "Maria Santos",
		"email":        "maria@example.com",
		"service_type": "cloud-services",
		"message":      "Interested in a cloud migration assessment.",
	})

	block := make(chan struct{})
	sub := &stubSubmitter{result: &Result{Success: true}, blockCh: block}

	done := make(chan error, 1)
	go func() {
		_, err := state.Submit(context.Background(), sub)
		done <- err
	}()

	for state.Snapshot().Status != StatusSubmitting {
		time.Sleep(time.Millisecond)
	}

	assert.NoError(t, store.Discard(state.ID))
	close(block)

	assert.ErrorIs(t, <-done, ErrTerminal)
	// The success never lands on the discarded session
	assert.Equal(t, StatusSubmitting, state.Snapshot().Status)
}

func TestStoreSweepRemovesIdleAndCompleted(t *testing.T) {
	store := NewStore(30 * time.Minute)

	idle, _ := store.Create(KindBooking)
	fresh, _ := store.Create(KindBooking)

	completed, _ := store.Create(KindContact)
	completed.SetFields(map[string]string{
		"name":         "Maria Santos",
		"email":        "maria@example.com",
		"service_type": "it-consulting",
		"message":      "We would like a proposal for managed IT services.",
	})
	_, err := completed.Submit(context.Background(), &stubSubmitter{result: &Result{Success: true}})
	assert.NoError(t, err)

	// The idle session last moved an hour ago
	idle.mu.Lock()
	idle.UpdatedAt = time.Now().Add(-time.Hour)
	idle.mu.Unlock()

	removed := store.Sweep(time.Now())

	assert.Equal(t, 2, removed)
	_, err = store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(completed.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

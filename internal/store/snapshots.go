package store

import (
	"context"
	"sync"

	"turno/backend/internal/domain"
)

// SnapshotHub fans appointment-history snapshots out to per-user
// subscribers. Repositories publish a fresh full-list snapshot after
// every mutation; subscribers drive the live history views.
//
// Channels are buffered with capacity 1 and written lossy-latest: if
// a subscriber has not drained the previous snapshot it is replaced,
// so a slow consumer always sees the newest state.
type SnapshotHub struct {
	mu   sync.Mutex
	subs map[string]map[chan []domain.Appointment]struct{}
}

func NewSnapshotHub() *SnapshotHub {
	return &SnapshotHub{subs: make(map[string]map[chan []domain.Appointment]struct{})}
}

// Subscribe registers a snapshot channel for userID. The channel is
// closed and deregistered when ctx ends.
func (h *SnapshotHub) Subscribe(ctx context.Context, userID string) <-chan []domain.Appointment {
	ch := make(chan []domain.Appointment, 1)
	h.register(ctx, userID, ch)
	return ch
}

// SubscribeWithSnapshot is Subscribe with a preloaded first receive.
// Only the new channel sees initial; existing subscribers of the same
// user are not woken.
func (h *SnapshotHub) SubscribeWithSnapshot(ctx context.Context, userID string, initial []domain.Appointment) <-chan []domain.Appointment {
	ch := make(chan []domain.Appointment, 1)
	ch <- initial
	h.register(ctx, userID, ch)
	return ch
}

func (h *SnapshotHub) register(ctx context.Context, userID string, ch chan []domain.Appointment) {
	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[chan []domain.Appointment]struct{})
		h.subs[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}()
}

// Publish delivers snapshot to every subscriber of userID.
func (h *SnapshotHub) Publish(userID string, snapshot []domain.Appointment) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[userID] {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot and replace it.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

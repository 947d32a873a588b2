package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rahul/webo/internal/store"
)

// WatchEvent is one emission from a live subscription. Exactly one of State
// or NotFound is set; NotFound is terminal.
type WatchEvent struct {
	State    *store.JobState
	NotFound bool
}

// Watcher turns the persisted job record into a live snapshot feed by
// polling the store. Staleness is bounded by the poll interval.
type Watcher struct {
	Store    JobStore
	Interval time.Duration
}

func NewWatcher(jobs JobStore) *Watcher {
	return &Watcher{
		Store:    jobs,
		Interval: 500 * time.Millisecond,
	}
}

// Watch emits a snapshot whenever the persisted job changes, suppressing
// consecutive duplicates. The channel closes after a terminal snapshot, a
// not-found event, or context cancellation. Any number of concurrent
// watchers may observe the same job; none of them touches pipeline state.
func (w *Watcher) Watch(ctx context.Context, jobID string) <-chan WatchEvent {
	out := make(chan WatchEvent, 16)
	go w.poll(ctx, jobID, out)
	return out
}

func (w *Watcher) poll(ctx context.Context, jobID string, out chan<- WatchEvent) {
	defer close(out)

	interval := w.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []byte
	for {
		st, err := w.Store.Get(jobID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			select {
			case out <- WatchEvent{NotFound: true}:
			case <-ctx.Done():
			}
			return
		case err != nil:
			// Transient store trouble: keep polling until the caller's
			// context gives up.
		default:
			raw, merr := json.Marshal(st)
			if merr == nil && !bytes.Equal(raw, last) {
				last = raw
				snap := st.Clone()
				select {
				case out <- WatchEvent{State: &snap}:
				case <-ctx.Done():
					return
				}
				if st.Status.Terminal() {
					return
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

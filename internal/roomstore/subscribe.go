package roomstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Subscription delivers change notifications for a single key.
//
// Notification is revision polling, so unlike browser storage events a
// session's own writes are observed too. Writers that need their own
// update must still re-read after writing rather than wait for the
// channel: the poll interval makes notification eventual, never a
// read-your-own-writes mechanism.
type Subscription struct {
	// ID identifies this subscription in logs.
	ID string

	// C receives the new revision each time the key changes. Slow
	// receivers miss intermediate revisions, never the latest state:
	// a notification is a hint to re-read.
	C <-chan int64

	cancel context.CancelFunc
}

// Close stops the subscription's poller and closes C.
func (sub *Subscription) Close() {
	sub.cancel()
}

// Subscribe starts watching key for changes made by any session. The
// subscription stops when ctx is cancelled or Close is called.
func (s *Store) Subscribe(ctx context.Context, key string) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan int64, 1)

	sub := &Subscription{
		ID:     uuid.NewString(),
		C:      ch,
		cancel: cancel,
	}

	last, err := s.Revision(key)
	if err != nil {
		slog.Warn("subscription initial revision read failed", "key", key, "error", err)
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			rev, err := s.Revision(key)
			if err != nil {
				slog.Warn("subscription poll failed", "subscription", sub.ID, "key", key, "error", err)
				continue
			}
			if rev == last {
				continue
			}
			last = rev

			// Drop a stale pending notification so the channel always
			// holds the newest revision.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- rev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

package roomstore

import (
	"context"
	"testing"
	"time"

	"github.com/sahayak-ai/sahayak/internal/model"
)

func TestSubscribeSeesForeignWrite(t *testing.T) {
	s := newTestStore(t)
	s.PollInterval = 10 * time.Millisecond
	key := SubmissionsKey("AB12CD")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := s.Subscribe(ctx, key)
	defer sub.Close()

	if err := s.Write(key, []model.Submission{{StudentName: "Asha", Type: model.ActivityDrawing}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case rev, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription channel closed unexpectedly")
		}
		if rev != 1 {
			t.Errorf("expected revision 1, got %d", rev)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for change notification")
	}
}

func TestSubscribeCoalescesToLatest(t *testing.T) {
	s := newTestStore(t)
	s.PollInterval = 20 * time.Millisecond
	key := SubmissionsKey("AB12CD")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := s.Subscribe(ctx, key)
	defer sub.Close()

	// Burst of writes between polls: the subscriber may miss
	// intermediate revisions but must land on the newest one.
	for i := 0; i < 5; i++ {
		if err := s.Write(key, []model.Submission{}); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}

	var last int64
	deadline := time.After(2 * time.Second)
	for last != 5 {
		select {
		case rev := <-sub.C:
			if rev <= last {
				t.Fatalf("revision went backwards: %d after %d", rev, last)
			}
			last = rev
		case <-deadline:
			t.Fatalf("never observed revision 5, last seen %d", last)
		}
	}
}

func TestSubscribeCloseStopsDelivery(t *testing.T) {
	s := newTestStore(t)
	s.PollInterval = 10 * time.Millisecond
	key := ClassroomKey("AB12CD")

	sub := s.Subscribe(context.Background(), key)
	sub.Close()

	// The channel must close shortly after Close.
	select {
	case _, ok := <-sub.C:
		if ok {
			// A final pending notification is fine; the channel still
			// has to close after it.
			if _, ok := <-sub.C; ok {
				t.Fatal("channel still open after Close")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after Close")
	}
}

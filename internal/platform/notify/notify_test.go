package notify

import (
	"fmt"
	"testing"
	"time"
)

// fixedClock lets tests advance time manually.
type fixedClock struct {
	t time.Time
}

func (f *fixedClock) now() time.Time { return f.t }

func (f *fixedClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestQueue(ttl time.Duration) (*Queue, *fixedClock) {
	q := NewQueue(ttl)
	clock := &fixedClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	q.now = clock.now
	return q, clock
}

func TestQueue_PushAndActive(t *testing.T) {
	q, _ := newTestQueue(5 * time.Second)

	q.Success("family created")
	q.Error("operation failed")

	active := q.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 active toasts, got %d", len(active))
	}
	if active[0].Kind != KindSuccess || active[0].Message != "family created" {
		t.Errorf("unexpected first toast: %+v", active[0])
	}
	if active[1].Kind != KindError {
		t.Errorf("unexpected second toast kind: %s", active[1].Kind)
	}
}

func TestQueue_AutoDismiss(t *testing.T) {
	q, clock := newTestQueue(5 * time.Second)

	q.Info("loading complete")
	clock.advance(6 * time.Second)

	if got := q.Active(); len(got) != 0 {
		t.Errorf("expected expired toast to be dismissed, got %d", len(got))
	}
}

func TestQueue_DrainDeliversOnce(t *testing.T) {
	q, _ := newTestQueue(5 * time.Second)

	q.Success("member updated")

	if got := q.Drain(); len(got) != 1 {
		t.Fatalf("expected 1 toast from first drain, got %d", len(got))
	}
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("expected empty second drain, got %d", len(got))
	}
}

func TestQueue_Dismiss(t *testing.T) {
	q, _ := newTestQueue(time.Minute)

	q.Success("one")
	q.Success("two")
	id := q.Active()[0].ID

	q.Dismiss(id)

	active := q.Active()
	if len(active) != 1 || active[0].Message != "two" {
		t.Errorf("expected only second toast to remain, got %+v", active)
	}
}

func TestQueue_CapacityDropsOldest(t *testing.T) {
	q, _ := newTestQueue(time.Hour)

	for i := 0; i < MaxQueued+5; i++ {
		q.Info(fmt.Sprintf("toast %d", i))
	}

	active := q.Active()
	if len(active) != MaxQueued {
		t.Fatalf("expected %d toasts, got %d", MaxQueued, len(active))
	}
	if active[0].Message != "toast 5" {
		t.Errorf("expected oldest toasts dropped, first is %q", active[0].Message)
	}
}

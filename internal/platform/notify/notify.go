// Package notify provides the ephemeral notification queue the admin UI
// renders as toasts. Data stores emit notifications through the Notifier
// interface; the queue owns retention, auto-dismissal and capacity.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the visual category of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultTTL is how long a toast stays visible before auto-dismissal.
const DefaultTTL = 5 * time.Second

// MaxQueued caps the queue; the oldest toast is dropped when full.
const MaxQueued = 50

// Toast is one transient notification record.
type Toast struct {
	ID        uuid.UUID     `json:"id"`
	Message   string        `json:"message"`
	Kind      Kind          `json:"kind"`
	TTL       time.Duration `json:"ttl_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// expired reports whether the toast has outlived its TTL at instant now.
func (t Toast) expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.TTL
}

// Notifier is the interface data stores use to surface outcomes. It is
// injected rather than reached for as a package-level singleton so tests
// can observe or silence notifications.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Queue is a process-wide, thread-safe toast queue with TTL-based
// auto-dismissal.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	now    func() time.Time
}

// NewQueue creates a queue whose toasts live for ttl. A non-positive ttl
// falls back to DefaultTTL.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, now: time.Now}
}

func (q *Queue) push(message string, kind Kind) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	q.evictLocked(now)
	q.toasts = append(q.toasts, Toast{
		ID:        uuid.New(),
		Message:   message,
		Kind:      kind,
		TTL:       q.ttl,
		CreatedAt: now,
	})
	if len(q.toasts) > MaxQueued {
		q.toasts = q.toasts[len(q.toasts)-MaxQueued:]
	}
}

// evictLocked removes expired toasts. Caller must hold q.mu.
func (q *Queue) evictLocked(now time.Time) {
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if !t.expired(now) {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
}

// Success enqueues a success toast.
func (q *Queue) Success(message string) { q.push(message, KindSuccess) }

// Error enqueues an error toast.
func (q *Queue) Error(message string) { q.push(message, KindError) }

// Info enqueues an informational toast.
func (q *Queue) Info(message string) { q.push(message, KindInfo) }

// Active returns the currently visible toasts, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.evictLocked(q.now())
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// Drain returns the visible toasts and removes them, so each toast is
// delivered to the UI at most once.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.evictLocked(q.now())
	out := q.toasts
	q.toasts = nil
	return out
}

// Dismiss removes one toast by id before its TTL elapses.
func (q *Queue) Dismiss(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
}

// Discard is a Notifier that drops everything. Useful in tests and for
// background jobs with no UI attached.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Info(string)    {}

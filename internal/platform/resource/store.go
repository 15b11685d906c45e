// Package resource implements the generic data store behind every admin
// screen. One Store instance mediates between views and exactly one backend
// collection (families, members, groups, pledges), holding the currently
// loaded page, the loaded detail record, pagination metadata, the request
// lifecycle flags and the bulk-operation selection. It replaces the
// per-entity copies of this logic with a single type-parametrized
// implementation.
//
// Concurrency discipline: each fetch slot (list, detail) is last-write-wins.
// A new fetch cancels the one in flight, and a response is committed only if
// it belongs to the most recently issued request, so out-of-order network
// responses never overwrite newer state. After Close, no state mutation and
// no notification ever occurs, no matter when late responses land.
package resource

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/rest"
	"github.com/churchconnect/admin/pkg/pagination"
)

// ErrClosed is returned by mutations attempted after the store was closed.
var ErrClosed = errors.New("resource store is closed")

// Entity is any record the store can manage.
type Entity interface {
	EntityID() string
}

// Store holds the admin-screen state for one backend collection. All state
// is private to the instance; two stores over the same path are fully
// independent.
type Store[T Entity] struct {
	client   *rest.Client
	path     string
	label    string
	notifier notify.Notifier
	log      zerolog.Logger
	pageSize int

	mu       sync.Mutex
	items    []T
	meta     pagination.Meta
	detail   *T
	loading  bool
	err      *rest.Error
	selected map[string]struct{}

	listGen      uint64
	listCancel   context.CancelFunc
	detailGen    uint64
	detailCancel context.CancelFunc
	closed       bool
}

// StoreOption configures a Store.
type StoreOption[T Entity] func(*Store[T])

// WithNotifier injects the toast notifier. Defaults to notify.Discard.
func WithNotifier[T Entity](n notify.Notifier) StoreOption[T] {
	return func(s *Store[T]) { s.notifier = n }
}

// WithLogger sets the store logger.
func WithLogger[T Entity](log zerolog.Logger) StoreOption[T] {
	return func(s *Store[T]) { s.log = log }
}

// WithLabel sets the human-readable singular name used in toast messages,
// e.g. "family". Defaults to "record".
func WithLabel[T Entity](label string) StoreOption[T] {
	return func(s *Store[T]) { s.label = label }
}

// WithPageSize sets the page size applied when a query does not carry one.
func WithPageSize[T Entity](size int) StoreOption[T] {
	return func(s *Store[T]) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// New creates a Store over the collection at path (e.g. "/families").
func New[T Entity](client *rest.Client, path string, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		client:   client,
		path:     "/" + strings.Trim(path, "/"),
		label:    "record",
		notifier: notify.Discard{},
		log:      zerolog.Nop(),
		pageSize: pagination.DefaultPageSize,
		selected: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the collection path the store is bound to.
func (s *Store[T]) Path() string { return s.path }

// FetchList loads one page of the collection. Any list fetch already in
// flight on this store is cancelled and its eventual result discarded. On
// failure the previous collection is kept, the error is recorded for inline
// display and one error toast is emitted. Cancelled fetches are silent.
func (s *Store[T]) FetchList(ctx context.Context, q rest.Query) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.listCancel != nil {
		s.listCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.listCancel = cancel
	s.listGen++
	gen := s.listGen
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	page, err := rest.List[T](ctx, s.client, s.path, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.listGen {
		// A newer fetch owns the slot, or the screen is gone.
		return
	}
	s.loading = false
	s.listCancel = nil

	if err != nil {
		if rest.IsCancelled(err) {
			return
		}
		re := rest.AsError(err)
		s.err = re
		s.log.Warn().Str("path", s.path).Str("kind", string(re.Kind)).Msg("list fetch failed")
		s.notifier.Error(re.Message)
		return
	}

	s.items = page.Results
	s.meta = pagination.NewMeta(page.Count, q.Page, q.PageSize)
}

// FetchOne loads one record into the detail slot, with the same
// cancellation discipline as FetchList but scoped to detail fetches.
func (s *Store[T]) FetchOne(ctx context.Context, id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.detailCancel != nil {
		s.detailCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.detailCancel = cancel
	s.detailGen++
	gen := s.detailGen
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	rec, err := rest.Get[T](ctx, s.client, s.path+"/"+id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.detailGen {
		return
	}
	s.loading = false
	s.detailCancel = nil

	if err != nil {
		if rest.IsCancelled(err) {
			return
		}
		re := rest.AsError(err)
		s.err = re
		s.log.Warn().Str("path", s.path).Str("id", id).Str("kind", string(re.Kind)).Msg("detail fetch failed")
		s.notifier.Error(re.Message)
		return
	}

	s.detail = &rec
}

// Create POSTs payload to the collection. The new record is returned, not
// spliced into the loaded page; callers re-fetch or splice as the screen
// requires. Failures are recorded, toasted once and returned so forms can
// map validation fields.
func (s *Store[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	if s.isClosed() {
		return zero, ErrClosed
	}

	rec, err := rest.Create[T](ctx, s.client, s.path, payload)
	if err != nil {
		return zero, s.mutationFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rec, nil
	}
	s.err = nil
	s.notifier.Success(s.label + " created")
	return rec, nil
}

// Update PUTs payload to one record. When the updated record is the one
// loaded in the detail slot, the slot is refreshed with the response.
func (s *Store[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var zero T
	if s.isClosed() {
		return zero, ErrClosed
	}

	rec, err := rest.Update[T](ctx, s.client, s.path+"/"+id, payload)
	if err != nil {
		return zero, s.mutationFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rec, nil
	}
	s.err = nil
	if s.detail != nil && (*s.detail).EntityID() == id {
		s.detail = &rec
	}
	s.notifier.Success(s.label + " updated")
	return rec, nil
}

// Remove deletes one record. The loaded page is not touched here; callers
// apply the optimistic removal with Drop. The id is cleared from the
// selection either way.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if s.isClosed() {
		return ErrClosed
	}

	if err := s.client.Delete(ctx, s.path+"/"+id); err != nil {
		return s.mutationFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.err = nil
	delete(s.selected, id)
	s.notifier.Success(s.label + " deleted")
	return nil
}

// BulkRemove deletes a set of records in one batched request and, on
// success, filters them out of the loaded page in one pass, preserving
// order.
func (s *Store[T]) BulkRemove(ctx context.Context, ids []string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.client.BulkDelete(ctx, s.path+"/bulk", ids); err != nil {
		return s.mutationFailed(err)
	}

	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		removed[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.err = nil
	kept := s.items[:0]
	for _, item := range s.items {
		if _, gone := removed[item.EntityID()]; !gone {
			kept = append(kept, item)
		}
	}
	s.items = kept
	for id := range removed {
		delete(s.selected, id)
	}
	s.notifier.Success(s.label + "s deleted")
	return nil
}

// mutationFailed records and toasts a classified mutation error, then
// returns it for the caller. Cancellations pass through silently.
func (s *Store[T]) mutationFailed(err error) error {
	if rest.IsCancelled(err) {
		return err
	}
	re := rest.AsError(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return re
	}
	s.err = re
	s.notifier.Error(re.Message)
	return re
}

// Drop applies the optimistic removal of one record from the loaded page.
// Pagination metadata is left alone; it only changes on a fetch.
func (s *Store[T]) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	kept := s.items[:0]
	for _, item := range s.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	delete(s.selected, id)
}

// ClearError resets the recorded error. Calling it with no error recorded
// is a no-op.
func (s *Store[T]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.err = nil
}

// Select marks a record for bulk operations and export.
func (s *Store[T]) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.selected[id] = struct{}{}
}

// Deselect removes a record from the selection.
func (s *Store[T]) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// ClearSelection empties the selection.
func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// SelectedItems returns the loaded records currently selected, in page
// order.
func (s *Store[T]) SelectedItems() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, item := range s.items {
		if _, ok := s.selected[item.EntityID()]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Snapshot is a consistent copy of the store state for rendering.
type Snapshot[T Entity] struct {
	Items    []T             `json:"items"`
	Detail   *T              `json:"detail,omitempty"`
	Meta     pagination.Meta `json:"meta"`
	Loading  bool            `json:"loading"`
	Err      *rest.Error     `json:"error,omitempty"`
	Selected []string        `json:"selected,omitempty"`
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot[T]{
		Meta:    s.meta,
		Loading: s.loading,
		Err:     s.err,
	}
	snap.Items = make([]T, len(s.items))
	copy(snap.Items, s.items)
	if s.detail != nil {
		d := *s.detail
		snap.Detail = &d
	}
	for _, item := range s.items {
		if _, ok := s.selected[item.EntityID()]; ok {
			snap.Selected = append(snap.Selected, item.EntityID())
		}
	}
	return snap
}

// Close cancels all in-flight work and freezes the store. Late responses
// and further calls mutate nothing.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.listCancel != nil {
		s.listCancel()
		s.listCancel = nil
	}
	if s.detailCancel != nil {
		s.detailCancel()
		s.detailCancel = nil
	}
}

func (s *Store[T]) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

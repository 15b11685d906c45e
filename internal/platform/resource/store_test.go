package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/churchconnect/admin/internal/platform/rest"
)

type person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p person) EntityID() string { return p.ID }

// recordingNotifier counts toasts per kind for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
	infos     []string
}

func (r *recordingNotifier) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recordingNotifier) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

func (r *recordingNotifier) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func (r *recordingNotifier) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes), len(r.failures)
}

func envelope(total int, people ...person) string {
	results, _ := json.Marshal(people)
	return fmt.Sprintf(`{"count": %d, "next": null, "previous": null, "results": %s}`, total, results)
}

func TestFetchList_PopulatesStateAndMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(envelope(57, person{ID: "1", Name: "Adams"}, person{ID: "2", Name: "Baker"})))
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")
	s.FetchList(context.Background(), rest.Query{Page: 2, PageSize: 25})

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snap.Items))
	}
	if snap.Meta.TotalCount != 57 || snap.Meta.CurrentPage != 2 || snap.Meta.TotalPages != 3 {
		t.Errorf("unexpected meta: %+v", snap.Meta)
	}
	if snap.Loading {
		t.Error("expected loading cleared after fetch")
	}
	if snap.Err != nil {
		t.Errorf("unexpected error: %+v", snap.Err)
	}
}

func TestFetchList_BareArrayNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "1"}, {"id": "2"}]`))
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")
	s.FetchList(context.Background(), rest.Query{})

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snap.Items))
	}
	if snap.Meta.TotalCount != 2 {
		t.Errorf("expected total count 2, got %d", snap.Meta.TotalCount)
	}
}

func TestFetchList_LastWriteWins(t *testing.T) {
	releaseA := make(chan struct{})
	receivedA := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("search") {
		case "a":
			close(receivedA)
			<-releaseA
			w.Write([]byte(envelope(1, person{ID: "a", Name: "First"})))
		default:
			w.Write([]byte(envelope(1, person{ID: "b", Name: "Second"})))
		}
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.FetchList(context.Background(), rest.Query{Search: "a"})
	}()
	<-receivedA

	s.FetchList(context.Background(), rest.Query{Search: "b"})

	// Let the first request settle after the second already committed.
	close(releaseA)
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "b" {
		t.Fatalf("expected only the second response applied, got %+v", snap.Items)
	}
	if snap.Err != nil {
		t.Errorf("superseded fetch must not record an error, got %+v", snap.Err)
	}
}

func TestFetchList_CloseDiscardsLateResponse(t *testing.T) {
	release := make(chan struct{})
	received := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		w.Write([]byte(envelope(1, person{ID: "1"})))
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	s := New[person](rest.NewClient(srv.URL), "/members", WithNotifier[person](notifier))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.FetchList(context.Background(), rest.Query{})
	}()
	<-received

	s.Close()
	close(release)
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Items) != 0 {
		t.Errorf("expected no state mutation after close, got %d items", len(snap.Items))
	}
	if _, failures := notifier.counts(); failures != 0 {
		t.Errorf("expected no toast after close, got %d", failures)
	}
}

func TestFetchList_ErrorKeepsPriorCollection(t *testing.T) {
	var fail bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(envelope(1, person{ID: "1", Name: "Adams"})))
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	s := New[person](rest.NewClient(srv.URL), "/members", WithNotifier[person](notifier))

	s.FetchList(context.Background(), rest.Query{})
	fail = true
	s.FetchList(context.Background(), rest.Query{})

	snap := s.Snapshot()
	if len(snap.Items) != 1 {
		t.Errorf("expected prior collection kept on error, got %d items", len(snap.Items))
	}
	if snap.Err == nil || snap.Err.Kind != rest.KindServer {
		t.Errorf("expected server error recorded, got %+v", snap.Err)
	}
	if _, failures := notifier.counts(); failures != 1 {
		t.Errorf("expected exactly one error toast, got %d", failures)
	}
}

func TestFetchOne_LoadsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/members/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id": "7", "name": "Grace"}`))
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")
	s.FetchOne(context.Background(), "7")

	snap := s.Snapshot()
	if snap.Detail == nil || snap.Detail.Name != "Grace" {
		t.Fatalf("expected detail loaded, got %+v", snap.Detail)
	}
}

func TestCreate_SuccessToastAndNoSplice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "9", "name": "New"}`))
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	s := New[person](rest.NewClient(srv.URL), "/members",
		WithNotifier[person](notifier), WithLabel[person]("member"))

	rec, err := s.Create(context.Background(), map[string]string{"name": "New"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "9" {
		t.Errorf("expected created record back, got %+v", rec)
	}
	if len(s.Snapshot().Items) != 0 {
		t.Error("create must not splice the collection")
	}
	successes, _ := notifier.counts()
	if successes != 1 {
		t.Errorf("expected one success toast, got %d", successes)
	}
	if notifier.successes[0] != "member created" {
		t.Errorf("unexpected toast message %q", notifier.successes[0])
	}
}

func TestCreate_ValidationErrorRethrown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"name": ["This field is required."]}`))
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	s := New[person](rest.NewClient(srv.URL), "/members", WithNotifier[person](notifier))

	_, err := s.Create(context.Background(), map[string]string{})
	if err == nil {
		t.Fatal("expected error")
	}
	re := rest.AsError(err)
	if re.Kind != rest.KindValidation {
		t.Errorf("expected validation error, got %s", re.Kind)
	}
	if re.Fields["name"] == "" {
		t.Errorf("expected field message, got %+v", re.Fields)
	}
	if snap := s.Snapshot(); snap.Err == nil {
		t.Error("expected error recorded in store state")
	}
	if _, failures := notifier.counts(); failures != 1 {
		t.Errorf("expected exactly one error toast, got %d", failures)
	}
}

func TestUpdate_RefreshesMatchingDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"id": "7", "name": "Old"}`))
		case http.MethodPut:
			w.Write([]byte(`{"id": "7", "name": "Renamed"}`))
		}
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")
	s.FetchOne(context.Background(), "7")

	if _, err := s.Update(context.Background(), "7", map[string]string{"name": "Renamed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if snap.Detail == nil || snap.Detail.Name != "Renamed" {
		t.Errorf("expected detail refreshed, got %+v", snap.Detail)
	}
}

func TestBulkRemove_OptimisticFilterPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(envelope(4,
				person{ID: "1"}, person{ID: "2"}, person{ID: "3"}, person{ID: "4"})))
		case http.MethodDelete:
			if r.URL.Path != "/members/bulk" {
				t.Errorf("unexpected bulk path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")
	s.FetchList(context.Background(), rest.Query{})
	s.Select("2")
	s.Select("3")

	if err := s.BulkRemove(context.Background(), []string{"2", "3"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 2 || snap.Items[0].ID != "1" || snap.Items[1].ID != "4" {
		t.Fatalf("expected [1 4], got %+v", snap.Items)
	}
	if len(snap.Selected) != 0 {
		t.Errorf("expected selection cleared, got %v", snap.Selected)
	}
}

func TestRemove_DropAppliesOptimisticRemoval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(envelope(2, person{ID: "1"}, person{ID: "2"})))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	s := New[person](rest.NewClient(srv.URL), "/members")
	s.FetchList(context.Background(), rest.Query{})
	s.Select("1")

	if err := s.Remove(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Drop("1")

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "2" {
		t.Errorf("expected [2], got %+v", snap.Items)
	}
	// Metadata only changes on a fetch.
	if snap.Meta.TotalCount != 2 {
		t.Errorf("expected meta untouched by Drop, got %+v", snap.Meta)
	}
}

func TestClearError_Idempotent(t *testing.T) {
	s := New[person](rest.NewClient("http://backend.invalid"), "/members")

	s.ClearError()
	s.ClearError()

	if snap := s.Snapshot(); snap.Err != nil {
		t.Errorf("expected nil error, got %+v", snap.Err)
	}
}

func TestMutationsAfterClose(t *testing.T) {
	s := New[person](rest.NewClient("http://backend.invalid"), "/members")
	s.Close()

	if _, err := s.Create(context.Background(), nil); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := s.Remove(context.Background(), "1"); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	// Fetches on a closed store are silent no-ops.
	s.FetchList(context.Background(), rest.Query{})
	if snap := s.Snapshot(); snap.Loading {
		t.Error("closed store must not enter loading state")
	}
}

func TestFetchList_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	client := rest.NewClient(srv.URL, rest.WithTimeout(20*time.Millisecond))
	s := New[person](client, "/members", WithNotifier[person](notifier))

	s.FetchList(context.Background(), rest.Query{})

	snap := s.Snapshot()
	if snap.Err == nil || snap.Err.Kind != rest.KindTimeout {
		t.Fatalf("expected timeout error, got %+v", snap.Err)
	}
}

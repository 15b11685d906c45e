package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type staticToken string

func (s staticToken) Token(_ context.Context) (string, error) { return string(s), nil }

func TestList_PaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		if got := r.URL.Query().Get("page_size"); got != "25" {
			t.Errorf("expected page_size=25, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 57, "next": "http://x/families?page=3", "previous": null, "results": [{"id": "a", "name": "Adams"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := List[testRecord](context.Background(), c, "/families", Query{Page: 2, PageSize: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 57 {
		t.Errorf("expected count 57, got %d", page.Count)
	}
	if len(page.Results) != 1 || page.Results[0].Name != "Adams" {
		t.Errorf("unexpected results: %+v", page.Results)
	}
	if page.Next == nil || page.Previous != nil {
		t.Errorf("expected next link and nil previous, got %v / %v", page.Next, page.Previous)
	}
}

func TestList_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "a"}, {"id": "b"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := List[testRecord](context.Background(), c, "/families", Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page.Results))
	}
	if page.Count != 2 {
		t.Errorf("expected count 2 for bare array, got %d", page.Count)
	}
}

func TestClient_BearerHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Write([]byte(`{"id": "a"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTokenSource(staticToken("secret-token")))
	if _, err := Get[testRecord](context.Background(), c, "/families/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := Get[testRecord](context.Background(), c, "/families/a")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if AsError(err).Kind != KindTimeout {
		t.Errorf("expected %s, got %s", KindTimeout, AsError(err).Kind)
	}
}

func TestClient_Cancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewClient(srv.URL)
	_, err := Get[testRecord](ctx, c, "/families/a")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !IsCancelled(err) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestClient_BulkDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/families/bulk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.BulkDelete(context.Background(), "/families/bulk", []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWrite_EmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	rec, err := Update[testRecord](context.Background(), c, "/families/a", map[string]string{"name": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "" {
		t.Errorf("expected zero record, got %+v", rec)
	}
}

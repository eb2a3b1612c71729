package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"apiexplorer/internal/db"
	"apiexplorer/internal/models"
)

type fakeHealthStore struct {
	mu      sync.Mutex
	entries map[int64]models.Entry
	updates map[int64]string
}

func newFakeHealthStore(entries ...models.Entry) *fakeHealthStore {
	s := &fakeHealthStore{entries: make(map[int64]models.Entry), updates: make(map[int64]string)}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return s
}

func (s *fakeHealthStore) GetEntryByID(_ context.Context, id int64) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, db.ErrEntryNotFound
	}
	return &e, nil
}

func (s *fakeHealthStore) GetEntriesNeedingHealthCheck(_ context.Context, _ time.Duration, limit int) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for id := int64(1); len(out) < limit && id <= int64(len(s.entries)); id++ {
		if e, ok := s.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeHealthStore) UpdateEntryHealthStatus(_ context.Context, id int64, status string, _ *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return db.ErrEntryNotFound
	}
	s.updates[id] = status
	e := s.entries[id]
	e.HealthStatus = status
	s.entries[id] = e
	return nil
}

type recordingNotifier struct {
	failed  []models.Entry
	digests int
}

func (n *recordingNotifier) NotifyHealthCheckFailures(_ context.Context, entries []models.Entry) {
	n.digests++
	n.failed = append(n.failed, entries...)
}

// newTestChecker returns a checker that may probe loopback test servers.
func newTestChecker(store HealthStore) *HealthChecker {
	h := NewHealthChecker(store, time.Minute, time.Hour)
	h.delay = 0
	h.validate = func(string) (bool, string) { return true, "" }
	return h
}

func TestHealthChecker_CheckURL(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"reachable", ok.URL, models.HealthHealthy, false},
		{"client error still reachable", notFound.URL, models.HealthHealthy, false},
		{"server error", broken.URL, models.HealthUnhealthy, true},
		{"connection refused", "http://127.0.0.1:1", models.HealthUnhealthy, true},
	}

	h := newTestChecker(newFakeHealthStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := h.checkURL(context.Background(), tt.url)
			if got != tt.want {
				t.Errorf("checkURL() status = %q, want %q", got, tt.want)
			}
			if (errMsg != nil) != tt.wantErr {
				t.Errorf("checkURL() errMsg = %v, wantErr %v", errMsg, tt.wantErr)
			}
		})
	}
}

func TestHealthChecker_CheckURLBlocksPrivateHosts(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	h := NewHealthChecker(newFakeHealthStore(), time.Minute, time.Hour)
	status, errMsg := h.checkURL(context.Background(), srv.URL)

	if status != models.HealthUnhealthy {
		t.Errorf("checkURL() status = %q, want %q", status, models.HealthUnhealthy)
	}
	if errMsg == nil {
		t.Error("checkURL() errMsg = nil, want a reason")
	}
	if called {
		t.Error("loopback server was contacted")
	}
}

func TestHealthChecker_CheckAll(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	store := newFakeHealthStore(
		models.Entry{ID: 1, Name: "Up", Link: up.URL},
		models.Entry{ID: 2, Name: "Down", Link: down.URL},
	)
	n := &recordingNotifier{}
	h := newTestChecker(store)
	h.SetNotifier(n)

	failed := h.checkAll(context.Background())

	if len(failed) != 1 || failed[0].ID != 2 {
		t.Fatalf("checkAll() failed = %+v, want only entry 2", failed)
	}
	if store.updates[1] != models.HealthHealthy {
		t.Errorf("entry 1 health = %q, want %q", store.updates[1], models.HealthHealthy)
	}
	if store.updates[2] != models.HealthUnhealthy {
		t.Errorf("entry 2 health = %q, want %q", store.updates[2], models.HealthUnhealthy)
	}
	if len(n.failed) != 1 {
		t.Errorf("notified %d entries, want 1", len(n.failed))
	}
}

func TestHealthChecker_CheckEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	store := newFakeHealthStore(models.Entry{ID: 7, Name: "Seven", Link: srv.URL, Status: models.StatusRecommended, Active: true, VotesUp: 6})
	h := newTestChecker(store)

	got, err := h.CheckEntry(context.Background(), 7)
	if err != nil {
		t.Fatalf("CheckEntry() error = %v", err)
	}
	if got.HealthStatus != models.HealthHealthy {
		t.Errorf("HealthStatus = %q, want %q", got.HealthStatus, models.HealthHealthy)
	}
	if got.HealthCheckedAt == nil {
		t.Error("HealthCheckedAt = nil, want a timestamp")
	}
	if got.Status != models.StatusRecommended || !got.Active || got.VotesUp != 6 {
		t.Errorf("vote state changed: %+v", got)
	}

	if _, err := h.CheckEntry(context.Background(), 8); err != db.ErrEntryNotFound {
		t.Errorf("CheckEntry(missing) error = %v, want %v", err, db.ErrEntryNotFound)
	}
}

func TestHealthChecker_CheckAllReportsOnlyNewFailures(t *testing.T) {
	tests := []struct {
		name        string
		prev        string
		wantDigests int
	}{
		{"already unhealthy", models.HealthUnhealthy, 0},
		{"previously healthy", models.HealthHealthy, 1},
		{"never checked", models.HealthUnknown, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeHealthStore(models.Entry{ID: 1, Name: "Broken", Link: "https://broken.example.com", HealthStatus: tt.prev})
			n := &recordingNotifier{}
			h := newTestChecker(store)
			h.validate = func(string) (bool, string) { return false, "blocked" }
			h.SetNotifier(n)

			h.checkAll(context.Background())
			h.checkAll(context.Background())

			if n.digests != tt.wantDigests {
				t.Errorf("digests = %d, want %d", n.digests, tt.wantDigests)
			}
			if store.updates[1] != models.HealthUnhealthy {
				t.Errorf("health = %q, want %q", store.updates[1], models.HealthUnhealthy)
			}
		})
	}
}

func TestHealthChecker_CheckURLValidatesRedirects(t *testing.T) {
	called := false
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer target.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/latest/meta-data", http.StatusFound)
	}))
	defer origin.Close()

	h := newTestChecker(newFakeHealthStore())
	h.validate = func(u string) (bool, string) {
		if strings.HasPrefix(u, target.URL) {
			return false, "URL points to a private or reserved IP address"
		}
		return true, ""
	}

	status, errMsg := h.checkURL(context.Background(), origin.URL)
	if status != models.HealthUnhealthy {
		t.Errorf("checkURL() status = %q, want %q", status, models.HealthUnhealthy)
	}
	if errMsg == nil || !strings.Contains(*errMsg, "redirect blocked") {
		t.Errorf("checkURL() errMsg = %v, want a blocked redirect", errMsg)
	}
	if called {
		t.Error("redirect target was contacted")
	}
}

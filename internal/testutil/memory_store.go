package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"apiexplorer/internal/db"
	"apiexplorer/internal/models"
)

// ErrInjected is returned by MemoryStore when a failure has been injected.
var ErrInjected = errors.New("injected storage failure")

// MemoryStore is an in-memory catalog store with the same locking and
// all-or-nothing semantics as the Postgres store. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[int64]models.Entry
	requests map[int64]models.Request
	nextID   int64
	calls    int

	// FailEntryCreate makes the next entry insert fail, including the one
	// performed while approving a request.
	FailEntryCreate bool
	// FailAll makes every call fail.
	FailAll bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[int64]models.Entry),
		requests: make(map[int64]models.Request),
	}
}

// Calls returns the number of store operations performed so far.
func (m *MemoryStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// PutEntry stores e as-is, keeping its vote state. A zero ID is assigned.
func (m *MemoryStore) PutEntry(e models.Entry) models.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == 0 {
		m.nextID++
		e.ID = m.nextID
	} else if e.ID > m.nextID {
		m.nextID = e.ID
	}
	m.entries[e.ID] = e
	return e
}

// PutRequest stores req as-is. A zero ID is assigned.
func (m *MemoryStore) PutRequest(req models.Request) models.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.ID == 0 {
		m.nextID++
		req.ID = m.nextID
	} else if req.ID > m.nextID {
		m.nextID = req.ID
	}
	if req.Status == "" {
		req.Status = models.RequestPending
	}
	m.requests[req.ID] = req
	return req
}

// begin takes the lock and counts the call. Callers must unlock.
func (m *MemoryStore) begin() error {
	m.mu.Lock()
	m.calls++
	if m.FailAll {
		return ErrInjected
	}
	return nil
}

func (m *MemoryStore) ListEntries(ctx context.Context) ([]models.Entry, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *MemoryStore) GetEntryByID(ctx context.Context, id int64) (*models.Entry, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	e, ok := m.entries[id]
	if !ok {
		return nil, db.ErrEntryNotFound
	}
	return &e, nil
}

func (m *MemoryStore) CreateEntry(ctx context.Context, e *models.Entry) error {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}
	return m.createEntry(e)
}

func (m *MemoryStore) createEntry(e *models.Entry) error {
	if m.FailEntryCreate {
		m.FailEntryCreate = false
		return ErrInjected
	}

	fresh := models.NewEntry(e.Name, e.Link, e.Description)
	m.nextID++
	fresh.ID = m.nextID
	now := time.Now()
	fresh.CreatedAt, fresh.UpdatedAt = now, now

	m.entries[fresh.ID] = fresh
	*e = fresh
	return nil
}

func (m *MemoryStore) UpdateEntryDetails(ctx context.Context, e *models.Entry) error {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}

	current, ok := m.entries[e.ID]
	if !ok {
		return db.ErrEntryNotFound
	}
	current.Name, current.Link, current.Description = e.Name, e.Link, e.Description
	current.UpdatedAt = time.Now()
	m.entries[e.ID] = current
	*e = current
	return nil
}

func (m *MemoryStore) DeleteEntry(ctx context.Context, id int64) error {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}

	if _, ok := m.entries[id]; !ok {
		return db.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) UpdateEntry(ctx context.Context, id int64, fn func(models.Entry) (models.Entry, error)) (*models.Entry, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	current, ok := m.entries[id]
	if !ok {
		return nil, db.ErrEntryNotFound
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	current.VotesUp, current.VotesDown = next.VotesUp, next.VotesDown
	current.Status, current.Active = next.Status, next.Active
	current.UpdatedAt = time.Now()
	m.entries[id] = current
	return &current, nil
}

func (m *MemoryStore) CreateRequest(ctx context.Context, req *models.Request) error {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}

	m.nextID++
	created := models.Request{
		ID:            m.nextID,
		Name:          req.Name,
		Link:          req.Link,
		Description:   req.Description,
		SubmittedDate: time.Now(),
		Status:        models.RequestPending,
	}
	m.requests[created.ID] = created
	*req = created
	return nil
}

func (m *MemoryStore) GetRequestByID(ctx context.Context, id int64) (*models.Request, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	r, ok := m.requests[id]
	if !ok {
		return nil, db.ErrRequestNotFound
	}
	return &r, nil
}

func (m *MemoryStore) ListRequests(ctx context.Context) ([]models.Request, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	requests := m.sortedRequests()
	for i, j := 0, len(requests)-1; i < j; i, j = i+1, j-1 {
		requests[i], requests[j] = requests[j], requests[i]
	}
	return requests, nil
}

func (m *MemoryStore) ListPendingRequests(ctx context.Context) ([]models.Request, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	var pending []models.Request
	for _, r := range m.sortedRequests() {
		if r.IsPending() {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// sortedRequests returns requests oldest first.
func (m *MemoryStore) sortedRequests() []models.Request {
	requests := make([]models.Request, 0, len(m.requests))
	for _, r := range m.requests {
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests
}

func (m *MemoryStore) UpdateRequest(ctx context.Context, id int64, fn func(models.Request) (models.Request, *models.Entry, error)) (*models.Request, *models.Entry, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, nil, err
	}

	current, ok := m.requests[id]
	if !ok {
		return nil, nil, db.ErrRequestNotFound
	}
	next, newEntry, err := fn(current)
	if err != nil {
		return nil, nil, err
	}

	if newEntry != nil {
		if err := m.createEntry(newEntry); err != nil {
			return nil, nil, err
		}
		next.EntryID = &newEntry.ID
	}

	now := time.Now()
	current.Status = next.Status
	current.StatusReason = next.StatusReason
	current.ReviewedAt = &now
	if next.EntryID != nil {
		current.EntryID = next.EntryID
	}
	m.requests[id] = current
	return &current, newEntry, nil
}

// Entry returns the stored entry with the given ID.
func (m *MemoryStore) Entry(id int64) (models.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}

// Request returns the stored request with the given ID.
func (m *MemoryStore) Request(id int64) (models.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	return r, ok
}

// EntryCount returns the number of stored entries.
func (m *MemoryStore) EntryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// CountEntriesByStatus groups entries by status and visibility.
func (m *MemoryStore) CountEntriesByStatus(ctx context.Context) ([]models.StatusCount, error) {
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	type key struct {
		status models.EntryStatus
		active bool
	}
	counts := make(map[key]int64)
	for _, e := range m.entries {
		counts[key{e.Status, e.Active}]++
	}

	out := make([]models.StatusCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.StatusCount{Status: k.status, Active: k.active, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return !out[i].Active && out[j].Active
	})
	return out, nil
}

package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/db"
	"apiexplorer/internal/models"
	"apiexplorer/internal/moderation"
	"apiexplorer/internal/testutil"
	"apiexplorer/internal/validation"
	"apiexplorer/internal/voting"
)

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*catalog.Service, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	return catalog.New(store), store
}

func TestService_VoteUp(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	e := store.PutEntry(models.NewEntry("Cats", "https://cats.example.com", "Cat facts"))

	var got *models.Entry
	var err error
	for i := 0; i < 5; i++ {
		got, err = svc.VoteUp(ctx, e.ID)
		if err != nil {
			t.Fatalf("VoteUp() error = %v", err)
		}
	}

	if got.VotesUp != 5 || got.VotesDown != 0 {
		t.Errorf("votes = (%d, %d), want (5, 0)", got.VotesUp, got.VotesDown)
	}
	if got.Status != models.StatusRecommended {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusRecommended)
	}

	stored, _ := store.Entry(e.ID)
	if stored.VotesUp != 5 || stored.Status != models.StatusRecommended {
		t.Errorf("stored entry = %+v, want 5 up votes and Recommended", stored)
	}
}

func TestService_VoteDownHidesEntry(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	e := store.PutEntry(models.NewEntry("Dogs", "https://dogs.example.com", "Dog facts"))

	var got *models.Entry
	for i := 0; i < 5; i++ {
		var err error
		if got, err = svc.VoteDown(ctx, e.ID); err != nil {
			t.Fatalf("VoteDown() error = %v", err)
		}
	}

	if got.Status != models.StatusNotRecommended {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusNotRecommended)
	}
	if got.Active {
		t.Error("Active = true, want false after five down votes")
	}

	visible, err := svc.List(ctx, models.DefaultFilter())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("List(default) returned %d entries, want 0", len(visible))
	}

	byStatus, err := svc.List(ctx, models.FilterCriteria{Status: string(models.StatusNotRecommended)})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byStatus) != 1 {
		t.Errorf("List(Not Recommended) returned %d entries, want 1", len(byStatus))
	}
}

func TestService_VoteNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.VoteUp(context.Background(), 404)
	if !errors.Is(err, db.ErrEntryNotFound) {
		t.Errorf("VoteUp() error = %v, want %v", err, db.ErrEntryNotFound)
	}
	if catalog.Kind(err) != catalog.KindNotFound {
		t.Errorf("Kind() = %v, want %v", catalog.Kind(err), catalog.KindNotFound)
	}
}

func TestService_VoteInvalidDirection(t *testing.T) {
	svc, store := newService(t)
	e := store.PutEntry(models.NewEntry("Cats", "https://cats.example.com", "Cat facts"))

	_, err := svc.Vote(context.Background(), e.ID, voting.Direction(0))
	if !errors.Is(err, voting.ErrInvalidDirection) {
		t.Errorf("Vote() error = %v, want %v", err, voting.ErrInvalidDirection)
	}
	if store.Calls() != 0 {
		t.Errorf("store calls = %d, want 0", store.Calls())
	}
}

func TestService_ConcurrentVotesAreNotLost(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	e := store.PutEntry(models.NewEntry("Cats", "https://cats.example.com", "Cat facts"))

	const ups, downs = 40, 25
	var wg sync.WaitGroup
	for i := 0; i < ups; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.VoteUp(ctx, e.ID); err != nil {
				t.Errorf("VoteUp() error = %v", err)
			}
		}()
	}
	for i := 0; i < downs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.VoteDown(ctx, e.ID); err != nil {
				t.Errorf("VoteDown() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := store.Entry(e.ID)
	if got.VotesUp != ups || got.VotesDown != downs {
		t.Errorf("votes = (%d, %d), want (%d, %d)", got.VotesUp, got.VotesDown, ups, downs)
	}
}

func TestService_SubmitRequest(t *testing.T) {
	tests := []struct {
		name    string
		sub     validation.Submission
		wantErr bool
	}{
		{
			name: "valid submission",
			sub:  validation.Submission{Name: " Weather ", Link: "https://weather.example.com", Description: "Forecasts"},
		},
		{
			name:    "missing name",
			sub:     validation.Submission{Link: "https://weather.example.com", Description: "Forecasts"},
			wantErr: true,
		},
		{
			name:    "non-http link",
			sub:     validation.Submission{Name: "Weather", Link: "ftp://weather.example.com", Description: "Forecasts"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)

			req, err := svc.SubmitRequest(context.Background(), tt.sub)
			if tt.wantErr {
				if catalog.Kind(err) != catalog.KindValidation {
					t.Errorf("SubmitRequest() error kind = %v, want %v", catalog.Kind(err), catalog.KindValidation)
				}
				if store.Calls() != 0 {
					t.Errorf("store calls = %d, want 0", store.Calls())
				}
				return
			}
			if err != nil {
				t.Fatalf("SubmitRequest() error = %v", err)
			}
			if req.Status != models.RequestPending {
				t.Errorf("Status = %q, want %q", req.Status, models.RequestPending)
			}
			if req.Name != "Weather" {
				t.Errorf("Name = %q, want %q", req.Name, "Weather")
			}
		})
	}
}

type recordingNotifier struct {
	got []int64
}

func (n *recordingNotifier) NotifyRequestSubmitted(_ context.Context, req *models.Request) {
	n.got = append(n.got, req.ID)
}

func TestService_SubmitRequestNotifies(t *testing.T) {
	svc, _ := newService(t)
	n := &recordingNotifier{}
	svc.SetNotifier(n)

	req, err := svc.SubmitRequest(context.Background(), validation.Submission{
		Name: "Weather", Link: "https://weather.example.com", Description: "Forecasts",
	})
	if err != nil {
		t.Fatalf("SubmitRequest() error = %v", err)
	}
	if len(n.got) != 1 || n.got[0] != req.ID {
		t.Errorf("notified = %v, want [%d]", n.got, req.ID)
	}
}

func TestService_ApproveRequest(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := store.PutRequest(models.Request{Name: "Weather", Link: "https://weather.example.com", Description: "Forecasts"})

	req, entry, err := svc.ApproveRequest(ctx, r.ID, strPtr("  looks good "))
	if err != nil {
		t.Fatalf("ApproveRequest() error = %v", err)
	}

	if req.Status != models.RequestApproved {
		t.Errorf("Status = %q, want %q", req.Status, models.RequestApproved)
	}
	if req.StatusReason == nil || *req.StatusReason != "looks good" {
		t.Errorf("StatusReason = %v, want %q", req.StatusReason, "looks good")
	}
	if req.EntryID == nil || *req.EntryID != entry.ID {
		t.Errorf("EntryID = %v, want %d", req.EntryID, entry.ID)
	}
	if entry.Name != "Weather" || entry.Status != models.StatusNew || !entry.Active {
		t.Errorf("entry = %+v, want active New entry named Weather", entry)
	}
	if entry.VotesUp != 0 || entry.VotesDown != 0 {
		t.Errorf("entry votes = (%d, %d), want (0, 0)", entry.VotesUp, entry.VotesDown)
	}
}

func TestService_ApproveTwice(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := store.PutRequest(models.Request{Name: "Weather", Link: "https://weather.example.com", Description: "Forecasts"})

	if _, _, err := svc.ApproveRequest(ctx, r.ID, nil); err != nil {
		t.Fatalf("first ApproveRequest() error = %v", err)
	}
	_, _, err := svc.ApproveRequest(ctx, r.ID, nil)
	if !errors.Is(err, moderation.ErrInvalidState) {
		t.Errorf("second ApproveRequest() error = %v, want %v", err, moderation.ErrInvalidState)
	}
	if store.EntryCount() != 1 {
		t.Errorf("entry count = %d, want 1", store.EntryCount())
	}
}

func TestService_ApproveFailureLeavesRequestPending(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := store.PutRequest(models.Request{Name: "Weather", Link: "https://weather.example.com", Description: "Forecasts"})

	store.FailEntryCreate = true
	_, _, err := svc.ApproveRequest(ctx, r.ID, nil)
	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("ApproveRequest() error = %v, want %v", err, testutil.ErrInjected)
	}
	if catalog.Kind(err) != catalog.KindStorage {
		t.Errorf("Kind() = %v, want %v", catalog.Kind(err), catalog.KindStorage)
	}

	stored, _ := store.Request(r.ID)
	if stored.Status != models.RequestPending {
		t.Errorf("Status = %q, want %q", stored.Status, models.RequestPending)
	}
	if store.EntryCount() != 0 {
		t.Errorf("entry count = %d, want 0", store.EntryCount())
	}

	// Retry succeeds once storage recovers.
	if _, _, err := svc.ApproveRequest(ctx, r.ID, nil); err != nil {
		t.Errorf("retry ApproveRequest() error = %v", err)
	}
}

func TestService_DeclineRequest(t *testing.T) {
	tests := []struct {
		name     string
		reason   string
		wantErr  error
		wantCall bool
	}{
		{name: "with reason", reason: "duplicate", wantCall: true},
		{name: "empty reason", reason: "", wantErr: moderation.ErrReasonRequired},
		{name: "whitespace reason", reason: "   ", wantErr: moderation.ErrReasonRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			r := store.PutRequest(models.Request{Name: "Weather", Link: "https://weather.example.com", Description: "Forecasts"})

			req, err := svc.DeclineRequest(context.Background(), r.ID, tt.reason)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DeclineRequest() error = %v, want %v", err, tt.wantErr)
			}
			if got := store.Calls() > 0; got != tt.wantCall {
				t.Errorf("store touched = %v, want %v", got, tt.wantCall)
			}
			if err != nil {
				return
			}
			if req.Status != models.RequestDeclined {
				t.Errorf("Status = %q, want %q", req.Status, models.RequestDeclined)
			}
			if req.StatusReason == nil || *req.StatusReason != tt.reason {
				t.Errorf("StatusReason = %v, want %q", req.StatusReason, tt.reason)
			}
			if store.EntryCount() != 0 {
				t.Errorf("entry count = %d, want 0", store.EntryCount())
			}
		})
	}
}

func TestService_DeclineThenApprove(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	r := store.PutRequest(models.Request{Name: "Weather", Link: "https://weather.example.com", Description: "Forecasts"})

	if _, err := svc.DeclineRequest(ctx, r.ID, "spam"); err != nil {
		t.Fatalf("DeclineRequest() error = %v", err)
	}
	_, _, err := svc.ApproveRequest(ctx, r.ID, nil)
	if catalog.Kind(err) != catalog.KindInvalidState {
		t.Errorf("ApproveRequest() kind = %v, want %v", catalog.Kind(err), catalog.KindInvalidState)
	}
}

func TestService_ModerateMissingRequest(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, _, err := svc.ApproveRequest(ctx, 99, nil); !errors.Is(err, db.ErrRequestNotFound) {
		t.Errorf("ApproveRequest() error = %v, want %v", err, db.ErrRequestNotFound)
	}
	if _, err := svc.DeclineRequest(ctx, 99, "nope"); !errors.Is(err, db.ErrRequestNotFound) {
		t.Errorf("DeclineRequest() error = %v, want %v", err, db.ErrRequestNotFound)
	}
}

func TestService_ListPendingRequests(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	first := store.PutRequest(models.Request{Name: "A", Link: "https://a.example.com", Description: "a"})
	second := store.PutRequest(models.Request{Name: "B", Link: "https://b.example.com", Description: "b"})
	store.PutRequest(models.Request{Name: "C", Link: "https://c.example.com", Description: "c", Status: models.RequestDeclined})

	pending, err := svc.ListPendingRequests(ctx)
	if err != nil {
		t.Fatalf("ListPendingRequests() error = %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Errorf("ListPendingRequests() = %+v, want [%d %d]", pending, first.ID, second.ID)
	}

	all, err := svc.ListRequests(ctx)
	if err != nil {
		t.Fatalf("ListRequests() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRequests() returned %d requests, want 3", len(all))
	}
}

func TestService_EntryAdmin(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, validation.Submission{Name: "Maps", Link: "https://maps.example.com", Description: "Tiles"})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.Status != models.StatusNew || !created.Active {
		t.Errorf("created = %+v, want active New entry", created)
	}

	if _, err := svc.VoteUp(ctx, created.ID); err != nil {
		t.Fatalf("VoteUp() error = %v", err)
	}

	updated, err := svc.UpdateEntry(ctx, created.ID, validation.Submission{Name: "Maps v2", Link: "https://maps.example.com/v2", Description: "Vector tiles"})
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if updated.Name != "Maps v2" || updated.VotesUp != 1 {
		t.Errorf("updated = %+v, want renamed entry keeping 1 up vote", updated)
	}

	if _, err := svc.UpdateEntry(ctx, created.ID, validation.Submission{Name: "", Link: "https://x.example.com", Description: "x"}); catalog.Kind(err) != catalog.KindValidation {
		t.Errorf("UpdateEntry(invalid) kind = %v, want %v", catalog.Kind(err), catalog.KindValidation)
	}

	if err := svc.DeleteEntry(ctx, created.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if _, ok := store.Entry(created.ID); ok {
		t.Error("entry still stored after DeleteEntry()")
	}
	if err := svc.DeleteEntry(ctx, created.ID); !errors.Is(err, db.ErrEntryNotFound) {
		t.Errorf("second DeleteEntry() error = %v, want %v", err, db.ErrEntryNotFound)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want catalog.ErrorKind
	}{
		{"nil", nil, catalog.KindNone},
		{"entry not found", db.ErrEntryNotFound, catalog.KindNotFound},
		{"request not found", db.ErrRequestNotFound, catalog.KindNotFound},
		{"invalid state", moderation.ErrInvalidState, catalog.KindInvalidState},
		{"reason required", moderation.ErrReasonRequired, catalog.KindValidation},
		{"bad direction", voting.ErrInvalidDirection, catalog.KindValidation},
		{"field error", &validation.Error{Field: "name", Message: "Name is required"}, catalog.KindValidation},
		{"other", errors.New("connection reset"), catalog.KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catalog.Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package catalog coordinates the vote and moderation engines with storage.
//
// Every state change goes through a Store closure that runs under a row lock,
// so concurrent votes on one entry are serialized and an approval either both
// marks the request approved and creates its entry, or does neither.
package catalog

import (
	"context"
	"log/slog"

	"apiexplorer/internal/metrics"
	"apiexplorer/internal/models"
	"apiexplorer/internal/moderation"
	"apiexplorer/internal/validation"
	"apiexplorer/internal/voting"
)

// Store is the persistence the Service depends on. *db.DB implements it.
type Store interface {
	ListEntries(ctx context.Context) ([]models.Entry, error)
	GetEntryByID(ctx context.Context, id int64) (*models.Entry, error)
	CreateEntry(ctx context.Context, e *models.Entry) error
	UpdateEntryDetails(ctx context.Context, e *models.Entry) error
	DeleteEntry(ctx context.Context, id int64) error
	UpdateEntry(ctx context.Context, id int64, fn func(models.Entry) (models.Entry, error)) (*models.Entry, error)

	CreateRequest(ctx context.Context, req *models.Request) error
	GetRequestByID(ctx context.Context, id int64) (*models.Request, error)
	ListRequests(ctx context.Context) ([]models.Request, error)
	ListPendingRequests(ctx context.Context) ([]models.Request, error)
	UpdateRequest(ctx context.Context, id int64, fn func(models.Request) (models.Request, *models.Entry, error)) (*models.Request, *models.Entry, error)
}

// SubmissionNotifier is told about newly submitted requests.
type SubmissionNotifier interface {
	NotifyRequestSubmitted(ctx context.Context, req *models.Request)
}

// Service exposes the catalog operations.
type Service struct {
	store    Store
	notifier SubmissionNotifier
}

// New creates a Service backed by store.
func New(store Store) *Service {
	return &Service{store: store}
}

// SetNotifier registers n to be told about new submissions. A nil n disables notification.
func (s *Service) SetNotifier(n SubmissionNotifier) {
	s.notifier = n
}

// List returns the entries that match the filter.
func (s *Service) List(ctx context.Context, f models.FilterCriteria) ([]models.Entry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(entries), nil
}

// GetEntry returns a single entry.
func (s *Service) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	return s.store.GetEntryByID(ctx, id)
}

// VoteUp records an up-vote on the entry and returns its new state.
func (s *Service) VoteUp(ctx context.Context, id int64) (*models.Entry, error) {
	return s.Vote(ctx, id, voting.Up)
}

// VoteDown records a down-vote on the entry and returns its new state.
func (s *Service) VoteDown(ctx context.Context, id int64) (*models.Entry, error) {
	return s.Vote(ctx, id, voting.Down)
}

// Vote applies one vote in direction d to the entry atomically.
func (s *Service) Vote(ctx context.Context, id int64, d voting.Direction) (*models.Entry, error) {
	if d != voting.Up && d != voting.Down {
		return nil, voting.ErrInvalidDirection
	}

	var before models.EntryStatus
	updated, err := s.store.UpdateEntry(ctx, id, func(e models.Entry) (models.Entry, error) {
		before = e.Status
		return voting.Apply(e, d), nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordVote(d.String(), string(updated.Status))
	if updated.Status != before {
		slog.Info("entry status changed",
			"entry_id", id,
			"from", before,
			"to", updated.Status,
			"votes_up", updated.VotesUp,
			"votes_down", updated.VotesDown,
		)
	}
	return updated, nil
}

// SubmitRequest validates and stores a new pending request.
func (s *Service) SubmitRequest(ctx context.Context, sub validation.Submission) (*models.Request, error) {
	sub, err := validation.ValidateSubmission(sub)
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		Name:        sub.Name,
		Link:        sub.Link,
		Description: sub.Description,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	slog.Info("api request submitted", "request_id", req.ID, "name", req.Name)
	if s.notifier != nil {
		s.notifier.NotifyRequestSubmitted(ctx, req)
	}
	return req, nil
}

// ApproveRequest approves a pending request and creates its catalog entry in
// the same transaction.
func (s *Service) ApproveRequest(ctx context.Context, id int64, reason *string) (*models.Request, *models.Entry, error) {
	req, entry, err := s.store.UpdateRequest(ctx, id, func(r models.Request) (models.Request, *models.Entry, error) {
		next, e, err := moderation.Approve(r, reason)
		if err != nil {
			return r, nil, err
		}
		return next, &e, nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordModeration(string(models.RequestApproved))
	slog.Info("api request approved", "request_id", req.ID, "entry_id", entry.ID)
	return req, entry, nil
}

// DeclineRequest declines a pending request. A blank reason is rejected
// before storage is consulted.
func (s *Service) DeclineRequest(ctx context.Context, id int64, reason string) (*models.Request, error) {
	if err := moderation.ValidateDecline(reason); err != nil {
		return nil, err
	}

	req, _, err := s.store.UpdateRequest(ctx, id, func(r models.Request) (models.Request, *models.Entry, error) {
		next, err := moderation.Decline(r, reason)
		return next, nil, err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordModeration(string(models.RequestDeclined))
	slog.Info("api request declined", "request_id", req.ID)
	return req, nil
}

// ListRequests returns every request, newest first.
func (s *Service) ListRequests(ctx context.Context) ([]models.Request, error) {
	return s.store.ListRequests(ctx)
}

// ListPendingRequests returns the moderation queue, oldest first.
func (s *Service) ListPendingRequests(ctx context.Context) ([]models.Request, error) {
	return s.store.ListPendingRequests(ctx)
}

// GetRequest returns a single request.
func (s *Service) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	return s.store.GetRequestByID(ctx, id)
}

// CreateEntry adds an entry directly, bypassing moderation. The entry starts
// in its initial lifecycle state.
func (s *Service) CreateEntry(ctx context.Context, sub validation.Submission) (*models.Entry, error) {
	sub, err := validation.ValidateSubmission(sub)
	if err != nil {
		return nil, err
	}

	e := models.NewEntry(sub.Name, sub.Link, sub.Description)
	if err := s.store.CreateEntry(ctx, &e); err != nil {
		return nil, err
	}
	slog.Info("api entry created", "entry_id", e.ID, "name", e.Name)
	return &e, nil
}

// UpdateEntry changes the descriptive fields of an entry. Votes, status and
// visibility are untouched.
func (s *Service) UpdateEntry(ctx context.Context, id int64, sub validation.Submission) (*models.Entry, error) {
	sub, err := validation.ValidateSubmission(sub)
	if err != nil {
		return nil, err
	}

	e := &models.Entry{ID: id, Name: sub.Name, Link: sub.Link, Description: sub.Description}
	if err := s.store.UpdateEntryDetails(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntry removes an entry.
func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	slog.Info("api entry deleted", "entry_id", id)
	return nil
}

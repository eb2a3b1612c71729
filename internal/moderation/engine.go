// Package moderation decides the outcome of submitted requests.
//
// A request starts Pending and moves exactly once, to Approved or Declined.
// Both outcomes are terminal: acting on a decided request again is an error,
// never a silent success.
package moderation

import (
	"errors"
	"strings"

	"apiexplorer/internal/models"
)

var (
	// ErrInvalidState is returned when a decision targets a request that is not pending.
	ErrInvalidState = errors.New("request has already been moderated")

	// ErrReasonRequired is returned when a request is declined without a reason.
	ErrReasonRequired = errors.New("reason is required for declining a request")
)

// Approve marks req approved and returns it together with the entry to create.
// An empty reason is stored as no reason.
func Approve(req models.Request, reason *string) (models.Request, models.Entry, error) {
	if !req.IsPending() {
		return req, models.Entry{}, ErrInvalidState
	}

	req.Status = models.RequestApproved
	req.StatusReason = normalizeReason(reason)

	return req, models.NewEntry(req.Name, req.Link, req.Description), nil
}

// Decline marks req declined with the given reason. No entry is created.
func Decline(req models.Request, reason string) (models.Request, error) {
	if !req.IsPending() {
		return req, ErrInvalidState
	}

	r := normalizeReason(&reason)
	if r == nil {
		return req, ErrReasonRequired
	}

	req.Status = models.RequestDeclined
	req.StatusReason = r
	return req, nil
}

// ValidateDecline checks the decline reason without a request at hand, so callers
// can reject a missing reason before touching storage.
func ValidateDecline(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	r := strings.TrimSpace(*reason)
	if r == "" {
		return nil
	}
	return &r
}

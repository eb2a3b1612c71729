package models

import (
	"time"
)

// RequestStatus is the moderation state of a submitted request.
type RequestStatus string

// Request status constants.
const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestDeclined RequestStatus = "Declined"
)

// Request is a user submission waiting for, or having received, a moderation decision.
type Request struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Link          string        `json:"link"`
	Description   string        `json:"description"`
	SubmittedDate time.Time     `json:"submitted_date"`
	Status        RequestStatus `json:"status"`
	StatusReason  *string       `json:"status_reason"`
	ReviewedAt    *time.Time    `json:"reviewed_at"`
	EntryID       *int64        `json:"entry_id"` // set when approval created an entry
}

// IsPending returns true if no moderation decision has been made yet.
func (r *Request) IsPending() bool {
	return r.Status == RequestPending
}

// IsTerminal returns true once the request has been approved or declined.
func (r *Request) IsTerminal() bool {
	return r.Status == RequestApproved || r.Status == RequestDeclined
}

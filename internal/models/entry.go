package models

import (
	"time"
)

// EntryStatus is the publication status derived from an entry's votes.
type EntryStatus string

// Entry status constants. The wire spelling of NotRecommended contains a space.
const (
	StatusNew            EntryStatus = "New"
	StatusRecommended    EntryStatus = "Recommended"
	StatusNotRecommended EntryStatus = "Not Recommended"
)

// Health status constants for entry link probing.
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// EntryStatuses lists every valid entry status in display order.
var EntryStatuses = []EntryStatus{StatusNew, StatusRecommended, StatusNotRecommended}

// ParseEntryStatus returns the status matching s, or false if s is not a known status.
func ParseEntryStatus(s string) (EntryStatus, bool) {
	for _, st := range EntryStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Entry is a public API listed in the directory.
type Entry struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Link        string      `json:"link"`
	Description string      `json:"description"`
	VotesUp     int         `json:"votes_up"`
	VotesDown   int         `json:"votes_down"`
	Status      EntryStatus `json:"status"`
	Active      bool        `json:"active"`

	HealthStatus    string     `json:"health_status"`
	HealthCheckedAt *time.Time `json:"health_checked_at"`
	HealthError     *string    `json:"health_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntry returns an unsaved entry in its initial lifecycle state.
func NewEntry(name, link, description string) Entry {
	return Entry{
		Name:         name,
		Link:         link,
		Description:  description,
		Status:       StatusNew,
		Active:       true,
		HealthStatus: HealthUnknown,
	}
}

// TotalVotes returns the sum of both vote counters.
func (e *Entry) TotalVotes() int {
	return e.VotesUp + e.VotesDown
}

// IsRecommended returns true if the entry has reached the Recommended status.
func (e *Entry) IsRecommended() bool {
	return e.Status == StatusRecommended
}

// StatusCount is the number of entries sharing a status and visibility.
type StatusCount struct {
	Status EntryStatus
	Active bool
	Count  int64
}

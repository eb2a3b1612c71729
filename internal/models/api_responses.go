package models

import "time"

// HealthCheckResponse contains the result of an on-demand link probe.
type HealthCheckResponse struct {
	ID        int64      `json:"id"`
	Status    string     `json:"health_status"`
	CheckedAt *time.Time `json:"health_checked_at"`
	Error     *string    `json:"health_error,omitempty"`
}

// NewHealthCheckResponse reports the health fields of e.
func NewHealthCheckResponse(e *Entry) HealthCheckResponse {
	return HealthCheckResponse{
		ID:        e.ID,
		Status:    e.HealthStatus,
		CheckedAt: e.HealthCheckedAt,
		Error:     e.HealthError,
	}
}

// ApprovalResponse is returned when a request is approved: the decided
// request and the catalog entry created from it.
type ApprovalResponse struct {
	Request *Request `json:"request"`
	Entry   *Entry   `json:"api"`
}

package jobs

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"apiexplorer/internal/models"
	"apiexplorer/internal/validation"
)

// batchSize is the number of entries probed per pass.
const batchSize = 50

// HealthStore is the persistence the health checker needs.
type HealthStore interface {
	GetEntryByID(ctx context.Context, id int64) (*models.Entry, error)
	GetEntriesNeedingHealthCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Entry, error)
	UpdateEntryHealthStatus(ctx context.Context, id int64, status string, errorMsg *string) error
}

// FailureNotifier is told about entries whose links failed a pass.
type FailureNotifier interface {
	NotifyHealthCheckFailures(ctx context.Context, entries []models.Entry)
}

// HealthChecker probes entry links in the background and on demand.
type HealthChecker struct {
	store    HealthStore
	notifier FailureNotifier
	interval time.Duration
	maxAge   time.Duration
	delay    time.Duration
	client   *http.Client
	validate func(string) (bool, string)
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(store HealthStore, interval, maxAge time.Duration) *HealthChecker {
	h := &HealthChecker{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
		delay:    time.Second,
		validate: validation.ValidateURLForHealthCheck,
	}
	h.client = &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			// Every hop must pass the same address checks as the first URL
			if valid, msg := h.validate(req.URL.String()); !valid {
				return errors.New("redirect blocked: " + msg)
			}
			return nil
		},
	}
	return h
}

// SetNotifier registers n to receive the failures of each pass.
func (h *HealthChecker) SetNotifier(n FailureNotifier) {
	h.notifier = n
}

// Start begins the background health check loop.
func (h *HealthChecker) Start(ctx context.Context) {
	log.Printf("Health checker started (interval: %v, maxAge: %v)", h.interval, h.maxAge)

	h.checkAll(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Health checker stopped")
			return
		case <-ticker.C:
			h.checkAll(ctx)
		}
	}
}

// checkAll probes every entry that is due and returns the ones that became
// unhealthy in this pass. Links that were already unhealthy are not reported again.
func (h *HealthChecker) checkAll(ctx context.Context) []models.Entry {
	entries, err := h.store.GetEntriesNeedingHealthCheck(ctx, h.maxAge, batchSize)
	if err != nil {
		log.Printf("Health checker: failed to get entries: %v", err)
		return nil
	}

	if len(entries) == 0 {
		return nil
	}

	log.Printf("Health checker: checking %d entries", len(entries))

	var failed []models.Entry
	for i, e := range entries {
		select {
		case <-ctx.Done():
			return failed
		default:
		}

		if i > 0 && h.delay > 0 {
			time.Sleep(h.delay)
		}

		prev := e.HealthStatus
		status, errorMsg := h.checkURL(ctx, e.Link)
		if err := h.store.UpdateEntryHealthStatus(ctx, e.ID, status, errorMsg); err != nil {
			slog.Error("failed to record health status", "entry_id", e.ID, "error", err)
			continue
		}
		// Only links that just went down are reported
		if status == models.HealthUnhealthy && prev != models.HealthUnhealthy {
			e.HealthStatus = status
			e.HealthError = errorMsg
			failed = append(failed, e)
		}
	}

	if len(failed) > 0 && h.notifier != nil {
		h.notifier.NotifyHealthCheckFailures(ctx, failed)
	}
	return failed
}

// CheckEntry probes one entry's link now, records the outcome and returns the
// updated entry.
func (h *HealthChecker) CheckEntry(ctx context.Context, id int64) (*models.Entry, error) {
	e, err := h.store.GetEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, errorMsg := h.checkURL(ctx, e.Link)
	if err := h.store.UpdateEntryHealthStatus(ctx, id, status, errorMsg); err != nil {
		return nil, err
	}

	now := time.Now()
	e.HealthStatus = status
	e.HealthError = errorMsg
	e.HealthCheckedAt = &now
	return e, nil
}

// checkURL performs a HEAD request to check if a URL is healthy.
// URLs pointing at private or reserved addresses are never requested.
func (h *HealthChecker) checkURL(ctx context.Context, url string) (string, *string) {
	if valid, msg := h.validate(url); !valid {
		return models.HealthUnhealthy, &msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		errMsg := "invalid URL: " + err.Error()
		return models.HealthUnhealthy, &errMsg
	}

	req.Header.Set("User-Agent", "APIExplorer-HealthChecker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.HealthUnhealthy, &errMsg
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		errMsg := "server error: " + resp.Status
		return models.HealthUnhealthy, &errMsg
	}
	return models.HealthHealthy, nil
}

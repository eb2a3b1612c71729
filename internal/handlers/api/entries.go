package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/models"
	"apiexplorer/internal/validation"
	"apiexplorer/internal/voting"
)

// HealthProber probes an entry's link on demand.
type HealthProber interface {
	CheckEntry(ctx context.Context, id int64) (*models.Entry, error)
}

// EntryHandler handles catalog entries via JSON API.
type EntryHandler struct {
	svc    *catalog.Service
	prober HealthProber
}

// NewEntryHandler creates a new API entry handler. prober may be nil, in which
// case on-demand health checks are unavailable.
func NewEntryHandler(svc *catalog.Service, prober HealthProber) *EntryHandler {
	return &EntryHandler{svc: svc, prober: prober}
}

type entryBody struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

func (b entryBody) submission() validation.Submission {
	return validation.Submission{Name: b.Name, Link: b.Link, Description: b.Description}
}

// List returns the entries matching the q, status and inactive query parameters.
func (h *EntryHandler) List(c fiber.Ctx) error {
	f := models.ParseFilter(c.Query("q"), c.Query("status"), c.Query("inactive"))
	return h.list(c, f)
}

// ListActive returns every visible entry.
func (h *EntryHandler) ListActive(c fiber.Ctx) error {
	return h.list(c, models.DefaultFilter())
}

// ListByStatus returns every entry with the status in the path, visible or not.
func (h *EntryHandler) ListByStatus(c fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("status"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}
	status, ok := models.ParseEntryStatus(raw)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}
	return h.list(c, models.FilterCriteria{Status: string(status)})
}

func (h *EntryHandler) list(c fiber.Ctx, f models.FilterCriteria) error {
	entries, err := h.svc.List(c.Context(), f)
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, entries)
}

// Get returns a single entry by ID.
func (h *EntryHandler) Get(c fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid api id")
	}

	e, err := h.svc.GetEntry(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, e)
}

// Create adds an entry directly. Admin only.
func (h *EntryHandler) Create(c fiber.Ctx) error {
	var body entryBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	e, err := h.svc.CreateEntry(c.Context(), body.submission())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonCreated(c, e)
}

// Update edits an entry's descriptive fields. Admin only.
func (h *EntryHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid api id")
	}

	var body entryBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	e, err := h.svc.UpdateEntry(c.Context(), id, body.submission())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, e)
}

// Delete removes an entry. Admin only.
func (h *EntryHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid api id")
	}

	if err := h.svc.DeleteEntry(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, fiber.Map{"id": id})
}

// VoteUp records an up-vote.
func (h *EntryHandler) VoteUp(c fiber.Ctx) error {
	return h.vote(c, voting.Up)
}

// VoteDown records a down-vote.
func (h *EntryHandler) VoteDown(c fiber.Ctx) error {
	return h.vote(c, voting.Down)
}

func (h *EntryHandler) vote(c fiber.Ctx, d voting.Direction) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid api id")
	}

	e, err := h.svc.Vote(c.Context(), id, d)
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, e)
}

// CheckHealth probes the entry's link now. Admin only.
func (h *EntryHandler) CheckHealth(c fiber.Ctx) error {
	if h.prober == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "health checks are disabled")
	}

	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid api id")
	}

	e, err := h.prober.CheckEntry(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, models.NewHealthCheckResponse(e))
}

package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/models"
)

// RequestHandler handles submissions and their moderation via JSON API.
type RequestHandler struct {
	svc *catalog.Service
}

// NewRequestHandler creates a new API request handler.
func NewRequestHandler(svc *catalog.Service) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// List returns every request, newest first. Admin only.
func (h *RequestHandler) List(c fiber.Ctx) error {
	requests, err := h.svc.ListRequests(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, requests)
}

// ListPending returns the moderation queue, oldest first. Admin only.
func (h *RequestHandler) ListPending(c fiber.Ctx) error {
	requests, err := h.svc.ListPendingRequests(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, requests)
}

// Submit stores a new pending request. Public.
func (h *RequestHandler) Submit(c fiber.Ctx) error {
	var body entryBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req, err := h.svc.SubmitRequest(c.Context(), body.submission())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonCreated(c, req)
}

type decisionBody struct {
	Reason *string `json:"reason"`
}

// decodeDecision reads an optional {"reason": "..."} body. An empty body means no reason.
func decodeDecision(c fiber.Ctx) (decisionBody, bool) {
	var body decisionBody
	if len(c.Body()) == 0 {
		return body, true
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return body, false
	}
	return body, true
}

// Approve approves a pending request and creates its entry. Admin only.
func (h *RequestHandler) Approve(c fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}
	body, ok := decodeDecision(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req, entry, err := h.svc.ApproveRequest(c.Context(), id, body.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, models.ApprovalResponse{Request: req, Entry: entry})
}

// Decline declines a pending request. A reason is required. Admin only.
func (h *RequestHandler) Decline(c fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}
	body, ok := decodeDecision(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	reason := ""
	if body.Reason != nil {
		reason = *body.Reason
	}
	req, err := h.svc.DeclineRequest(c.Context(), id, reason)
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, req)
}

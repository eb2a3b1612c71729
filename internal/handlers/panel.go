package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/config"
	"apiexplorer/internal/middleware"
	"apiexplorer/internal/models"
)

// PanelHandler serves the moderation panel.
type PanelHandler struct {
	svc *catalog.Service
	cfg *config.Config
}

// NewPanelHandler creates a new panel handler.
func NewPanelHandler(svc *catalog.Service, cfg *config.Config) *PanelHandler {
	return &PanelHandler{svc: svc, cfg: cfg}
}

// LoginForm renders the panel login page.
func (h *PanelHandler) LoginForm(c fiber.Ctx) error {
	if middleware.IsAdmin(c) {
		return c.Redirect().To("/panel")
	}
	return h.renderLogin(c, "")
}

func (h *PanelHandler) renderLogin(c fiber.Ctx, errMsg string) error {
	return render(c, h.cfg, "login", fiber.Map{
		"Title":           "Admin login",
		"Error":           errMsg,
		"PasswordEnabled": h.cfg.IsAdminPanelEnabled(),
		"OIDCEnabled":     h.cfg.IsOIDCEnabled(),
		"Message":         flash(c),
	})
}

// Login checks the shared admin password and starts an admin session.
func (h *PanelHandler) Login(c fiber.Ctx) error {
	if !h.cfg.IsAdminPanelEnabled() {
		return fiber.NewError(fiber.StatusNotFound, "password login is disabled")
	}

	given := []byte(c.FormValue("password"))
	if subtle.ConstantTimeCompare(given, []byte(h.cfg.AdminPassword)) != 1 {
		slog.Warn("admin login failed", "ip", c.IP())
		c.Status(fiber.StatusUnauthorized)
		return h.renderLogin(c, "Invalid password")
	}

	if err := middleware.SetAdmin(c); err != nil {
		return err
	}
	slog.Info("admin login", "method", "password", "ip", c.IP())
	return c.Redirect().To("/panel")
}

// Logout ends the admin session.
func (h *PanelHandler) Logout(c fiber.Ctx) error {
	if err := middleware.ClearAdmin(c); err != nil {
		return err
	}
	return c.Redirect().To(withMessage("/panel/login", "loggedout"))
}

// Dashboard lists pending requests and the recent decisions.
func (h *PanelHandler) Dashboard(c fiber.Ctx) error {
	pending, err := h.svc.ListPendingRequests(c.Context())
	if err != nil {
		return pageError(err)
	}
	all, err := h.svc.ListRequests(c.Context())
	if err != nil {
		return pageError(err)
	}

	decided := make([]models.Request, 0, 20)
	for _, r := range all {
		if r.IsTerminal() {
			decided = append(decided, r)
		}
		if len(decided) == 20 {
			break
		}
	}

	return render(c, h.cfg, "panel", fiber.Map{
		"Title":   "Moderation",
		"Pending": pending,
		"Decided": decided,
		"Message": flash(c),
		"Error":   c.Query("error"),
	})
}

// Approve approves a request from the panel. The reason is optional.
func (h *PanelHandler) Approve(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var reason *string
	if r := c.FormValue("reason"); r != "" {
		reason = &r
	}
	if _, _, err := h.svc.ApproveRequest(c.Context(), id, reason); err != nil {
		return h.decisionFailed(c, err)
	}
	return c.Redirect().To(withMessage("/panel", "approved"))
}

// Decline declines a request from the panel. A reason is required.
func (h *PanelHandler) Decline(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if _, err := h.svc.DeclineRequest(c.Context(), id, c.FormValue("reason")); err != nil {
		return h.decisionFailed(c, err)
	}
	return c.Redirect().To(withMessage("/panel", "declined"))
}

// decisionFailed sends precondition failures back to the dashboard as a notice.
func (h *PanelHandler) decisionFailed(c fiber.Ctx, err error) error {
	switch catalog.Kind(err) {
	case catalog.KindValidation, catalog.KindInvalidState, catalog.KindNotFound:
		return c.Redirect().To("/panel?error=" + url.QueryEscape(err.Error()))
	default:
		return pageError(err)
	}
}

package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/config"
	"apiexplorer/internal/models"
	"apiexplorer/internal/validation"
	"apiexplorer/internal/voting"
)

// PageHandler serves the public browse and submit pages.
type PageHandler struct {
	svc *catalog.Service
	cfg *config.Config
}

// NewPageHandler creates a new page handler.
func NewPageHandler(svc *catalog.Service, cfg *config.Config) *PageHandler {
	return &PageHandler{svc: svc, cfg: cfg}
}

// Index renders the catalog with the filter from the query string.
func (h *PageHandler) Index(c fiber.Ctx) error {
	f := models.ParseFilter(c.Query("q"), c.Query("status"), c.Query("inactive"))

	entries, err := h.svc.List(c.Context(), f)
	if err != nil {
		return pageError(err)
	}

	return render(c, h.cfg, "index", fiber.Map{
		"Title":     "Browse",
		"Entries":   entries,
		"Filter":    f,
		"Statuses":  models.EntryStatuses,
		"FilterAll": models.FilterAll,
		"Message":   flash(c),
		"ReturnURL": c.OriginalURL(),
	})
}

// VoteUp records an up-vote from the browse page form.
func (h *PageHandler) VoteUp(c fiber.Ctx) error {
	return h.vote(c, voting.Up)
}

// VoteDown records a down-vote from the browse page form.
func (h *PageHandler) VoteDown(c fiber.Ctx) error {
	return h.vote(c, voting.Down)
}

func (h *PageHandler) vote(c fiber.Ctx, d voting.Direction) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.svc.Vote(c.Context(), id, d); err != nil {
		return pageError(err)
	}
	return c.Redirect().To(backToBrowse(c.FormValue("return")))
}

// backToBrowse returns target when it is a local browse URL, "/" otherwise.
func backToBrowse(target string) string {
	u, err := url.Parse(target)
	if err != nil || target == "" || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return u.String()
}

// SubmitForm renders the suggestion form.
func (h *PageHandler) SubmitForm(c fiber.Ctx) error {
	return render(c, h.cfg, "submit", fiber.Map{
		"Title": "Suggest an API",
	})
}

// Submit stores a suggestion and redirects to the browse page, or re-renders
// the form with the validation error.
func (h *PageHandler) Submit(c fiber.Ctx) error {
	sub := validation.Submission{
		Name:        c.FormValue("name"),
		Link:        c.FormValue("link"),
		Description: c.FormValue("description"),
	}

	if _, err := h.svc.SubmitRequest(c.Context(), sub); err != nil {
		if catalog.Kind(err) != catalog.KindValidation {
			return pageError(err)
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, h.cfg, "submit", fiber.Map{
			"Title": "Suggest an API",
			"Error": err.Error(),
			"Form":  sub,
		})
	}

	return c.Redirect().To(withMessage("/", "submitted"))
}

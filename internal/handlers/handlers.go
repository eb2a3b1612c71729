package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"apiexplorer/internal/catalog"
)

// flashMessages maps the "msg" query codes set by redirects to notices.
var flashMessages = map[string]string{
	"submitted": "Thanks! Your suggestion is waiting for review.",
	"approved":  "Request approved and added to the catalog.",
	"declined":  "Request declined.",
	"loggedout": "You have been logged out.",
}

// flash returns the notice for the current request, if any.
func flash(c fiber.Ctx) string {
	return flashMessages[c.Query("msg")]
}

// withMessage appends a msg code to a local redirect target.
func withMessage(target, code string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("msg", code)
	u.RawQuery = q.Encode()
	return u.String()
}

// paramID parses the :id route parameter.
func paramID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// pageError converts a catalog error into a fiber error for the HTML error page.
func pageError(err error) error {
	switch catalog.Kind(err) {
	case catalog.KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case catalog.KindInvalidState:
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case catalog.KindValidation:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

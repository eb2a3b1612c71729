package api

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"apiexplorer/internal/catalog"
)

// Envelope status values.
const (
	statusOK    = "ok"
	statusError = "error"
)

func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": statusOK,
		"data":   data,
	})
}

// jsonCreated answers 201 with data in the success envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": statusOK,
		"data":   data,
	})
}

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": statusError,
		"error":  message,
	})
}

// serviceError maps a catalog error onto the error envelope. Storage
// failures are logged and reported without detail.
func serviceError(c fiber.Ctx, err error) error {
	switch catalog.Kind(err) {
	case catalog.KindNotFound:
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case catalog.KindInvalidState:
		return jsonError(c, fiber.StatusConflict, err.Error())
	case catalog.KindValidation:
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
}

// paramID parses the :id route parameter.
func paramID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

package api

import "github.com/gofiber/fiber/v3"

// Register mounts the JSON API on r. requireAdmin guards the administrative routes.
func Register(r fiber.Router, entries *EntryHandler, requests *RequestHandler, requireAdmin fiber.Handler) {
	r.Get("/apis", entries.List)
	r.Get("/apis/active", entries.ListActive)
	r.Get("/apis/status/:status", entries.ListByStatus)
	r.Get("/apis/:id", entries.Get)
	r.Post("/apis", requireAdmin, entries.Create)
	r.Put("/apis/:id", requireAdmin, entries.Update)
	r.Delete("/apis/:id", requireAdmin, entries.Delete)
	r.Post("/apis/:id/vote-up", entries.VoteUp)
	r.Post("/apis/:id/vote-down", entries.VoteDown)
	r.Post("/apis/:id/health", requireAdmin, entries.CheckHealth)

	r.Get("/requests", requireAdmin, requests.List)
	r.Get("/requests/pending", requireAdmin, requests.ListPending)
	r.Post("/requests", requests.Submit)
	r.Post("/requests/:id/approve", requireAdmin, requests.Approve)
	r.Post("/requests/:id/decline", requireAdmin, requests.Decline)
}

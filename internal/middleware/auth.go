package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
)

// adminKey is the session value marking an authenticated administrator.
const adminKey = "admin"

// AdminAuth guards administrative routes with the session admin flag.
type AdminAuth struct {
	loginPath string
}

// NewAdminAuth creates a new admin auth middleware instance. Panel pages
// redirect unauthenticated visitors to loginPath.
func NewAdminAuth(loginPath string) *AdminAuth {
	return &AdminAuth{loginPath: loginPath}
}

// IsAdmin reports whether the current session belongs to an administrator.
func IsAdmin(c fiber.Ctx) bool {
	sess := session.FromContext(c)
	if sess == nil {
		return false
	}
	admin, _ := sess.Get(adminKey).(bool)
	return admin
}

// SetAdmin marks the current session as an administrator. The session ID is
// rotated so a pre-login cookie cannot be reused.
func SetAdmin(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(adminKey, true)
	return nil
}

// ClearAdmin ends the administrator session.
func ClearAdmin(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	return sess.Destroy()
}

// RequireAdmin rejects non-admin JSON API requests with 401.
func (m *AdminAuth) RequireAdmin(c fiber.Ctx) error {
	if !IsAdmin(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "admin access required",
		})
	}
	return c.Next()
}

// RequirePanel redirects non-admin visitors of panel pages to the login page.
func (m *AdminAuth) RequirePanel(c fiber.Ctx) error {
	if !IsAdmin(c) {
		return c.Redirect().To(m.loginPath)
	}
	return c.Next()
}

// LoadAdmin exposes the admin flag to templates as the "IsAdmin" local.
func (m *AdminAuth) LoadAdmin(c fiber.Ctx) error {
	c.Locals("IsAdmin", IsAdmin(c))
	return c.Next()
}

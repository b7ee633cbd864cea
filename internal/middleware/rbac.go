package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// RequirePermission ensures the authenticated operator holds the given
// action grant on a section. Runs after JWTProtected.
func RequirePermission(section, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms, ok := c.Locals(LocalPermissions).(map[string][]string)
		if !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		for _, granted := range perms[section] {
			if granted == action {
				return c.Next()
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}

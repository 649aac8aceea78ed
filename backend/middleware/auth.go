package middleware

import (
	"github.com/gofiber/fiber/v2"

	"portal/backend/config"
	"portal/backend/utils"
)

// AuthMiddleware validates the JWT and stores the authenticated username
// in the request locals so handlers receive identity explicitly instead
// of re-parsing the token.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := utils.ExtractUsernameFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals("username", username)
		return c.Next()
	}
}

// Username returns the authenticated username set by AuthMiddleware.
func Username(c *fiber.Ctx) string {
	if username, ok := c.Locals("username").(string); ok {
		return username
	}
	return ""
}

// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the caller identity set by the Gateway.
// Ledger mutations require an identity; the engine treats an empty user id as
// NotAuthenticated, so secured routes reject it up front.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		userName := c.Get("X-User-Name")
		userEmail := c.Get("X-User-Email")

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/s/")
		if isSecured && userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("user_name", userName)
		c.Locals("user_email", userEmail)

		return c.Next()
	}
}

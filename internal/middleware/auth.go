package middleware

import (
	"strings"

	"github.com/vibhutichou/UrbanMind/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the Bearer token and stores the authenticated user id
// and role in the request locals. Tokens are issued by the auth
// service; this service only verifies them.
func Auth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		userID, role, err := auth.ValidateAccessToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

package middleware

import (
	"github.com/go-logr/logr"
	"github.com/gofiber/fiber/v2"
)

// ClientIDKey is the fiber.Locals key holding the caller's client id.
const ClientIDKey = "clientID"

// EnsureClientID requires every request to identify the board view it comes
// from, via the X-Client-ID header or the clientId query parameter.
func EnsureClientID(log logr.Logger) fiber.Handler {
	log = log.WithName("client")
	return func(c *fiber.Ctx) error {
		// Check if clientID is already set
		if c.Locals(ClientIDKey) != nil {
			return c.Next()
		}

		// Check header first
		source := "header"
		clientID := c.Get("X-Client-ID")
		if clientID == "" {
			source = "query"
			clientID = c.Query("clientId")
		}

		if clientID == "" {
			log.V(1).Info("request without client id", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Client ID is required. Please ensure client is properly initialized.",
			})
		}

		log.V(2).Info("client identified", "client", clientID, "source", source)
		c.Locals(ClientIDKey, clientID)
		return c.Next()
	}
}

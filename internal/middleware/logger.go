package middleware

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request at verbosity 1 and server errors
// at verbosity 0.
func RequestLogger(log logr.Logger) fiber.Handler {
	log = log.WithName("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		kv := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		}
		if status >= fiber.StatusInternalServerError {
			log.Error(err, "request failed", kv...)
		} else {
			log.V(1).Info("request", kv...)
		}
		return err
	}
}

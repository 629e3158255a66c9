package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/nethserver/pkg-registry/internal/applog"
)

// loggingMiddleware ports the original's print_request_response
// (src/log.rs) into Fiber as structured-field logging: method, path,
// status and latency, never the request/response body (an archive
// payload can be megabytes; the original's full-body logging was
// already a debug-only aid).
func loggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	applog.Infof("%s %s -> %d (%s)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
	return err
}

// newCORS builds the permissive-by-config CORS layer spec.md §6
// describes, mirroring the original's single allowed origin.
func newCORS(allowedOrigin string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: allowedOrigin,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,X-Authorization",
	})
}

// requireAuth rejects requests whose X-Authorization header is missing
// or empty. Per SPEC_FULL.md §6, presence is all that's
// enforced — the token is not parsed or validated beyond that,
// matching spec.md's "accept/reject" framing for auth (fine-grained
// authorization is an explicit Non-goal).
func requireAuth(c *fiber.Ctx) error {
	if c.Get("X-Authorization") == "" {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.Next()
}

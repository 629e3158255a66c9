package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nethserver/pkg-registry/internal/catalog"
)

// statusFor maps a catalog.Error's Kind to the HTTP status spec.md §7
// assigns it. Response bodies stay empty on errors, per spec.md §7's
// "every failure returns a status code; response bodies are empty on
// errors" rule.
func statusFor(kind catalog.Kind) int {
	switch kind {
	case catalog.KindBadRequest:
		return fiber.StatusBadRequest
	case catalog.KindConflict:
		return fiber.StatusConflict
	case catalog.KindFailedDependency:
		return fiber.StatusFailedDependency
	case catalog.KindNotFound:
		return fiber.StatusNotFound
	case catalog.KindPayloadTooLarge:
		return fiber.StatusRequestEntityTooLarge
	default:
		return fiber.StatusInternalServerError
	}
}

// writeErr ends the response with the status the catalog error maps to
// and no body.
func writeErr(c *fiber.Ctx, err *catalog.Error) error {
	return c.SendStatus(statusFor(err.Kind))
}

// file: internals/helpers/actor.go
package helper

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsActor is set by the token middleware when a valid bearer token
// carries a username.
const LocalsActor = "actor"

// ActorFrom prefers the authenticated username over the body-supplied one.
func ActorFrom(c *fiber.Ctx, fromBody string) string {
	if v, ok := c.Locals(LocalsActor).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(fromBody)
}

// ReqCtx returns the request-scoped context (with the timeout set in main).
func ReqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

// ParseBody decodes the JSON body; decode failures are validation errors.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	return nil
}

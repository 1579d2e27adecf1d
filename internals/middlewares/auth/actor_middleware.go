// internals/middlewares/auth/actor_middleware.go
package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	helper "creditrating_backend/internals/helpers"
)

// ActorMiddleware resolves the acting user from an optional bearer token.
// Requests without a token pass through untouched; a token that is present
// but invalid is rejected with 401. With an empty secret the middleware is a
// no-op.
func ActorMiddleware(secret string, log *logrus.Logger) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if errors.Is(err, errNoToken) {
			return c.Next()
		}
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - "+err.Error())
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			log.WithError(err).Debug("auth: token parse failed")
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - "+err.Error())
		}

		if name := usernameFrom(claims); name != "" {
			c.Locals(helper.LocalsActor, name)
		}
		return c.Next()
	}
}

package auth

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "creditrating_backend/internals/helpers"
)

const secret = "test-secret"

func newApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	log, _ := test.NewNullLogger()
	app := fiber.New()
	app.Use(ActorMiddleware(secret, log))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(helper.ActorFrom(c, "body-user"))
	})
	return app
}

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, app *fiber.App, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestActorMiddleware_NoToken(t *testing.T) {
	status, body := call(t, newApp(t, secret), "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "body-user", body)
}

func TestActorMiddleware_ValidTokenOverridesBody(t *testing.T) {
	tok := sign(t, jwt.MapClaims{"username": "alice", "exp": time.Now().Add(time.Hour).Unix()}, secret)
	status, body := call(t, newApp(t, secret), "Bearer "+tok)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alice", body)
}

func TestActorMiddleware_Rejects(t *testing.T) {
	app := newApp(t, secret)

	wrongKey := sign(t, jwt.MapClaims{"username": "alice"}, "other")
	status, _ := call(t, app, "Bearer "+wrongKey)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := sign(t, jwt.MapClaims{"username": "alice", "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	status, _ = call(t, app, "Bearer "+expired)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "Basic abc")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestActorMiddleware_DisabledWithoutSecret(t *testing.T) {
	status, body := call(t, newApp(t, ""), "Bearer garbage")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "body-user", body)
}

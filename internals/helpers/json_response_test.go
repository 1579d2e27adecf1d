package helper

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrating_backend/internals/helpers/apperror"
)

func render(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return JsonAppError(c, err) })

	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	defer resp.Body.Close()

	var out ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestJsonAppError_Kinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.Validation("bad"), fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{apperror.State("already hidden"), fiber.StatusBadRequest, "STATE_ERROR"},
		{apperror.NotFound("missing"), fiber.StatusNotFound, "NOT_FOUND"},
		{apperror.Conflict("version"), fiber.StatusConflict, "CONFLICT"},
		{fiber.NewError(fiber.StatusBadRequest, "invalid JSON body"), fiber.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tc := range cases {
		status, body := render(t, tc.err)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.code, body.ErrorCode)
		assert.False(t, body.Success)
	}
}

func TestJsonAppError_StorageHidesCause(t *testing.T) {
	prev := ExposeStackTraces
	t.Cleanup(func() { ExposeStackTraces = prev })

	ExposeStackTraces = false
	status, body := render(t, errors.New("password=hunter2 connection refused"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Message)
	assert.Empty(t, body.Stack)
	assert.NotContains(t, body.Message, "hunter2")

	ExposeStackTraces = true
	_, body = render(t, apperror.Storage(errors.New("boom"), "save"))
	assert.NotEmpty(t, body.Stack)
}

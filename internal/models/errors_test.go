package models

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("file upload failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "file upload failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRespondWithAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"conflict", NewConflictError("already exists"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no token"), fiber.StatusUnauthorized},
		{"forbidden", NewForbiddenError("not yours"), fiber.StatusForbidden},
		{"not found", NewNotFoundError("Listing", 42), fiber.StatusNotFound},
		{"upstream", NewUpstreamError("file manager down", nil), fiber.StatusBadGateway},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithAppError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			assert.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"diplomat/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	user := createTestUser(t, db, "auth_user")

	app.Get("/me", s.AuthRequired(), s.GetMyProfile)

	get := func(token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("missing token", func(t *testing.T) {
		resp := get("")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := get("not.a.jwt")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		resp := get(signTestToken(t, user.ID, "someone-else", jwtAudience))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong audience", func(t *testing.T) {
		resp := get(signTestToken(t, user.ID, jwtIssuer, "other-client"))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("valid token resolves principal", func(t *testing.T) {
		resp := get(signTestToken(t, user.ID, jwtIssuer, jwtAudience))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var got models.User
		json.NewDecoder(resp.Body).Decode(&got)
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}
	})
}

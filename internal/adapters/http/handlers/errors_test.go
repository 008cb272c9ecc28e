package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"forbidden", fmt.Errorf("%w: only the owner", domain.ErrForbidden), fiber.StatusForbidden, "only the owner"},
		{"wrapped not found", fmt.Errorf("get mission 3: %w", domain.ErrNotFound), fiber.StatusNotFound, "Mission not found"},
		{"invalid state", fmt.Errorf("%w: application is REJECTED", domain.ErrInvalidState), fiber.StatusBadRequest, "application is REJECTED"},
		{"validation", fmt.Errorf("%w: title is required", domain.ErrValidation), fiber.StatusBadRequest, "title is required"},
		{"conflict", fmt.Errorf("create: %w", fmt.Errorf("%w: record already exists", domain.ErrConflict)), fiber.StatusConflict, "record already exists"},
		{"capacity", domain.ErrCapacityExceeded, fiber.StatusConflict, "capacity exceeded"},
		{"unauthenticated", domain.ErrUnauthenticated, fiber.StatusUnauthorized, "unauthenticated"},
		{"expired token", domain.ErrTokenExpired, fiber.StatusUnauthorized, "token expired"},
		{"inactive user", domain.ErrUserInactive, fiber.StatusForbidden, "user account is inactive"},
		{"duplicate application", fmt.Errorf("%w: you have already applied to this mission", domain.ErrConflict), fiber.StatusConflict, "you have already applied to this mission"},
		{"internal", errors.New("connection reset"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondError(c, tt.err, "Mission")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body response.Response
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendString(fmt.Sprint(id))
	})

	for path, want := range map[string]int{"/42": fiber.StatusOK, "/0": fiber.StatusBadRequest, "/-1": fiber.StatusBadRequest, "/abc": fiber.StatusBadRequest} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"volunteer-connect/internal/config"
	"volunteer-connect/internal/core/domain"
	"volunteer-connect/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test_secret", AccessTokenMins: 15}}
}

func newApp(cfg *config.Config, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(string(p.Role))
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	token, err := jwt.GenerateAccessToken(7, "ngo@example.com", "NGO", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	app := newApp(cfg, AuthMiddleware(cfg))

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", "access_token="+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	other, err := jwt.GenerateAccessToken(7, "ngo@example.com", "NGO", "another_secret", 15)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	volunteer, err := jwt.GenerateAccessToken(1, "v@example.com", string(domain.RoleVolunteer), cfg.JWT.Secret, 15)
	require.NoError(t, err)
	admin, err := jwt.GenerateAccessToken(2, "a@example.com", string(domain.RoleAdmin), cfg.JWT.Secret, 15)
	require.NoError(t, err)

	app := newApp(cfg, AuthMiddleware(cfg), AdminOnly())

	for token, want := range map[string]int{volunteer: fiber.StatusForbidden, admin: fiber.StatusOK} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode)
	}
}

func TestNoCacheHeaders(t *testing.T) {
	app := newApp(testConfig(), NoCacheHeaders())

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get(fiber.HeaderCacheControl))
}

func TestPublicCache(t *testing.T) {
	app := newApp(testConfig(), PublicCache(30 * time.Second))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=30", resp.Header.Get(fiber.HeaderCacheControl))
}

package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"volunteer-connect/internal/adapters/http/middleware"
	"volunteer-connect/internal/adapters/http/routes"
	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/pkg/jwt"
	"volunteer-connect/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	t   *testing.T
	app *fiber.App
	cfg *config.Config
	fx  *testutil.Fixtures
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := testutil.TestConfig()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg)

	return &testApp{t: t, app: app, cfg: cfg, fx: testutil.NewFixtures(t, db)}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (a *testApp) token(u *models.User) string {
	a.t.Helper()

	token, err := jwt.GenerateAccessToken(u.ID, u.Email, u.Role, a.cfg.JWT.Secret, a.cfg.JWT.AccessTokenMins)
	require.NoError(a.t, err)
	return token
}

func (a *testApp) do(method, path string, body interface{}, token string) (*http.Response, apiResponse) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

type missionEnvelope struct {
	Mission struct {
		ID                 uint   `json:"id"`
		Status             string `json:"status"`
		VolunteersNeeded   int    `json:"volunteers_needed"`
		VolunteersAccepted int    `json:"volunteers_accepted"`
		SpotsLeft          int    `json:"spots_left"`
		ApplicationsCount  int64  `json:"applications_count"`
		Organization       struct {
			OrganizationName string `json:"organization_name"`
		} `json:"organization"`
	} `json:"mission"`
}

type applicationEnvelope struct {
	Application struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	} `json:"application"`
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMissionLifecycle_EndToEnd(t *testing.T) {
	a := newTestApp(t)
	ngo := a.fx.CreateNGO()
	first := a.fx.CreateVolunteer()
	second := a.fx.CreateVolunteer()

	resp, body := a.do(http.MethodPost, "/api/v1/missions", fiber.Map{
		"title":             "Park cleanup",
		"description":       "Pick up litter",
		"category":          "Environment",
		"location":          "Coimbra",
		"date":              time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"duration":          2,
		"volunteers_needed": 1,
	}, a.token(ngo))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Message)

	var created missionEnvelope
	decode(t, body.Data, &created)
	missionID := created.Mission.ID
	assert.Equal(t, "ACTIVE", created.Mission.Status)
	assert.Equal(t, "Test Org", created.Mission.Organization.OrganizationName)

	submit := func(u *models.User) uint {
		resp, body := a.do(http.MethodPost, "/api/v1/applications", fiber.Map{"mission_id": missionID, "message": "hi"}, a.token(u))
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Message)
		var env applicationEnvelope
		decode(t, body.Data, &env)
		assert.Equal(t, "PENDING", env.Application.Status)
		return env.Application.ID
	}
	firstApp := submit(first)
	secondApp := submit(second)

	resp, body = a.do(http.MethodPost, "/api/v1/applications", fiber.Map{"mission_id": missionID}, a.token(first))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.False(t, body.Success)

	resp, _ = a.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", firstApp), fiber.Map{"status": "ACCEPTED"}, a.token(ngo))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = a.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", secondApp), fiber.Map{"status": "ACCEPTED"}, a.token(ngo))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body.Error)

	resp, body = a.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", firstApp), fiber.Map{"status": "REJECTED"}, a.token(ngo))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body.Message)

	resp, _ = a.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/withdraw", secondApp), nil, a.token(second))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = a.do(http.MethodGet, fmt.Sprintf("/api/v1/missions/%d", missionID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got missionEnvelope
	decode(t, body.Data, &got)
	assert.Equal(t, 1, got.Mission.VolunteersAccepted)
	assert.Equal(t, 0, got.Mission.SpotsLeft)
	assert.EqualValues(t, 2, got.Mission.ApplicationsCount)

	resp, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/missions/%d", missionID), nil, a.token(ngo))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body = a.do(http.MethodPut, fmt.Sprintf("/api/v1/missions/%d/archive", missionID), nil, a.token(ngo))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, body.Data, &got)
	assert.Equal(t, "CANCELLED", got.Mission.Status)
}

func TestAuthorization(t *testing.T) {
	a := newTestApp(t)
	ngo := a.fx.CreateNGO()
	vol := a.fx.CreateVolunteer()
	mission := a.fx.CreateMission(ngo)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		token  string
		want   int
	}{
		{"anonymous create", http.MethodPost, "/api/v1/missions", fiber.Map{}, "", fiber.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/profile", nil, "not-a-token", fiber.StatusUnauthorized},
		{"volunteer creates mission", http.MethodPost, "/api/v1/missions", fiber.Map{}, a.token(vol), fiber.StatusForbidden},
		{"ngo applies", http.MethodPost, "/api/v1/applications", fiber.Map{"mission_id": mission.ID}, a.token(ngo), fiber.StatusForbidden},
		{"other ngo updates", http.MethodPut, fmt.Sprintf("/api/v1/missions/%d", mission.ID), fiber.Map{"title": "x"}, a.token(a.fx.CreateNGO()), fiber.StatusForbidden},
		{"volunteer lists mission applications", http.MethodGet, fmt.Sprintf("/api/v1/applications/mission/%d", mission.ID), nil, a.token(vol), fiber.StatusForbidden},
		{"ngo verifies itself", http.MethodPut, fmt.Sprintf("/api/v1/admin/ngos/%d/verify", ngo.ID), nil, a.token(ngo), fiber.StatusForbidden},
		{"invalid mission id", http.MethodGet, "/api/v1/missions/abc", nil, "", fiber.StatusBadRequest},
		{"unknown mission", http.MethodGet, "/api/v1/missions/9999", nil, "", fiber.StatusNotFound},
		{"owner lists applications", http.MethodGet, fmt.Sprintf("/api/v1/applications/mission/%d", mission.ID), nil, a.token(ngo), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := a.do(tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.want, resp.StatusCode, body.Message)
			assert.Equal(t, tt.want == fiber.StatusOK, body.Success)
		})
	}
}

func TestRegisterLoginMe(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"email":             "org@example.com",
		"password":          "supersecret",
		"role":              "NGO",
		"organization_name": "Blue Sea",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Message)

	var cookies []string
	for _, c := range resp.Cookies() {
		cookies = append(cookies, c.Name)
	}
	assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, cookies)

	resp, body = a.do(http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"email":    "org@example.com",
		"password": "supersecret",
		"role":     "NGO",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body.Message)

	resp, _ = a.do(http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"email":             "org@example.com",
		"password":          "supersecret",
		"role":              "NGO",
		"organization_name": "Blue Sea",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "org@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = a.do(http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "org@example.com", "password": "supersecret"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, body.Data, &login)
	require.NotEmpty(t, login.AccessToken)

	resp, body = a.do(http.MethodGet, "/api/v1/auth/me", nil, login.AccessToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body.Data), `"organization_name":"Blue Sea"`))
}

func TestListMissions_Envelope(t *testing.T) {
	a := newTestApp(t)
	ngo := a.fx.CreateNGO()
	for i := 0; i < 3; i++ {
		a.fx.CreateMission(ngo)
	}

	resp, body := a.do(http.MethodGet, "/api/v1/missions?page=1&limit=2&category=environment", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "public")

	var out struct {
		Missions   []json.RawMessage `json:"missions"`
		Pagination struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	decode(t, body.Data, &out)
	assert.Len(t, out.Missions, 2)
	assert.EqualValues(t, 3, out.Pagination.Total)
	assert.Equal(t, 2, out.Pagination.Pages)
}

func TestAdminRoutes(t *testing.T) {
	a := newTestApp(t)
	admin := a.fx.CreateAdmin()
	ngo := a.fx.CreateNGO()
	vol := a.fx.CreateVolunteer()

	resp, body := a.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/ngos/%d/verify", ngo.ID), nil, a.token(admin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body.Message)
	assert.Contains(t, string(body.Data), `"is_verified":true`)

	resp, body = a.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/ngos/%d/verify", ngo.ID), fiber.Map{"verified": false}, a.token(admin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body.Message)
	assert.Contains(t, string(body.Data), `"is_verified":false`)

	resp, _ = a.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/deactivate", vol.ID), nil, a.token(admin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": vol.Email, "password": testutil.DefaultPassword}, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

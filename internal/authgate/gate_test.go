package authgate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arthive/illustration-platform/internal/config"
	"github.com/arthive/illustration-platform/internal/domain"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

// fakeAuthBackend mimics the auth service's validate endpoint and records
// what it received.
type fakeAuthBackend struct {
	server     *httptest.Server
	calls      int
	lastHeader string
	lastMethod string
	lastPath   string
	respond    func(w http.ResponseWriter)
}

func newFakeAuthBackend() *fakeAuthBackend {
	backend := &fakeAuthBackend{}
	backend.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backend.calls++
		backend.lastHeader = r.Header.Get("Authorization")
		backend.lastMethod = r.Method
		backend.lastPath = r.URL.Path
		backend.respond(w)
	}))
	return backend
}

func (b *fakeAuthBackend) respondValid(identity *domain.Identity) {
	b.respond = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "token is valid",
			"user":    identity,
		})
	}
}

func (b *fakeAuthBackend) respondInvalid(status int) {
	b.respond = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "invalid token",
		})
	}
}

func newGateApp(baseURL string) *fiber.App {
	gate := NewGate(config.AuthClientConfig{BaseURL: baseURL, TimeoutSeconds: 2}, nil, zap.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}
		domainErr := apperrors.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
			"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
		})
	})

	protected := app.Group("/api/things", gate.Authenticate, RequireIdentity())
	protected.Get("/me", func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.JSON(identity)
	})
	return app
}

func errorCodeOf(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload.Error.Code
}

func TestGateForwardsHeaderVerbatim(t *testing.T) {
	backend := newFakeAuthBackend()
	defer backend.server.Close()
	backend.respondValid(&domain.Identity{UserID: "user-1", Email: "artist@example.com", Role: "User"})

	app := newGateApp(backend.server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/things/me", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, "Bearer token-abc", backend.lastHeader)
	assert.Equal(t, http.MethodPost, backend.lastMethod)
	assert.Equal(t, "/api/auth/validate", backend.lastPath)
}

func TestGateInjectsIdentity(t *testing.T) {
	backend := newFakeAuthBackend()
	defer backend.server.Close()
	backend.respondValid(&domain.Identity{UserID: "user-1", Email: "artist@example.com", Role: "User"})

	app := newGateApp(backend.server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/things/me", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var identity domain.Identity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&identity))
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "artist@example.com", identity.Email)
	assert.Equal(t, "User", identity.Role)
}

func TestGateRejectsWhenValidationFails(t *testing.T) {
	backend := newFakeAuthBackend()
	defer backend.server.Close()
	backend.respondInvalid(http.StatusUnauthorized)

	app := newGateApp(backend.server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/things/me", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCodeOf(t, resp.Body))
}

func TestGateRejectsSuccessFalseEvenWith200(t *testing.T) {
	backend := newFakeAuthBackend()
	defer backend.server.Close()
	backend.respond = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid token"})
	}

	app := newGateApp(backend.server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/things/me", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateReports503WhenAuthServiceUnreachable(t *testing.T) {
	backend := newFakeAuthBackend()
	backend.respondValid(nil)
	baseURL := backend.server.URL
	backend.server.Close()

	app := newGateApp(baseURL)

	req := httptest.NewRequest(http.MethodGet, "/api/things/me", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Transport failure is a dependency outage, not an auth failure.
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errorCodeOf(t, resp.Body))
}

func TestGatePassesThroughWithoutBearerHeader(t *testing.T) {
	backend := newFakeAuthBackend()
	defer backend.server.Close()
	backend.respondValid(nil)

	app := newGateApp(backend.server.URL)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/api/things/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		// The gate lets the request through; the identity guard rejects it.
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
	assert.Equal(t, 0, backend.calls)
}

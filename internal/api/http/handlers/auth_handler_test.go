package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/arthive/illustration-platform/internal/api/http"
	"github.com/arthive/illustration-platform/internal/api/http/handlers"
	"github.com/arthive/illustration-platform/internal/config"
	"github.com/arthive/illustration-platform/internal/domain"
	"github.com/arthive/illustration-platform/internal/events"
	"github.com/arthive/illustration-platform/internal/service"
)

type memoryUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

type authEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    *domain.Identity `json:"user"`
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:   "handler-test-secret",
			Issuer:   "auth-service",
			Audience: "illustration-platform",
		},
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	authService := service.NewAuthService(cfg, newMemoryUserRepo(), events.NewInMemoryDispatcher(), zap.NewNop())

	app := fiber.New()
	httptransport.RegisterAuthRoutes(app, httptransport.AuthRouteConfig{
		Health: handlers.NewHealthHandler("auth-service", "test", nil, nil),
		Auth:   handlers.NewAuthHandler(authService, "auth-service"),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, authEnvelope) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestRegisterEndpoint(t *testing.T) {
	app := newAuthApp(t)

	resp, envelope := postJSON(t, app, "/api/auth/register", map[string]string{
		"email":    "artist@example.com",
		"password": "pass123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Token)
	require.NotNil(t, envelope.User)
	assert.Equal(t, "artist@example.com", envelope.User.Email)
	assert.Equal(t, domain.DefaultRole, envelope.User.Role)
}

func TestRegisterEndpointRejectsDuplicate(t *testing.T) {
	app := newAuthApp(t)

	resp, _ := postJSON(t, app, "/api/auth/register", map[string]string{
		"email": "artist@example.com", "password": "pass123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope := postJSON(t, app, "/api/auth/register", map[string]string{
		"email": "artist@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Empty(t, envelope.Token)
}

func TestRegisterEndpointRequiresCredentials(t *testing.T) {
	app := newAuthApp(t)

	resp, envelope := postJSON(t, app, "/api/auth/register", map[string]string{"email": "artist@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestLoginEndpoint(t *testing.T) {
	app := newAuthApp(t)
	_, registered := postJSON(t, app, "/api/auth/register", map[string]string{
		"email": "artist@example.com", "password": "pass123",
	})
	require.True(t, registered.Success)

	resp, envelope := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "artist@example.com", "password": "pass123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Token)
}

func TestLoginEndpointRejectsBadCredentials(t *testing.T) {
	app := newAuthApp(t)
	_, registered := postJSON(t, app, "/api/auth/register", map[string]string{
		"email": "artist@example.com", "password": "pass123",
	})
	require.True(t, registered.Success)

	resp, envelope := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "artist@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "invalid email or password", envelope.Message)
}

func TestValidateEndpoint(t *testing.T) {
	app := newAuthApp(t)
	_, registered := postJSON(t, app, "/api/auth/register", map[string]string{
		"email": "artist@example.com", "password": "pass123",
	})
	require.True(t, registered.Success)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var envelope authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.User)
	assert.Equal(t, registered.User.UserID, envelope.User.UserID)
	assert.Empty(t, envelope.Token)
}

func TestValidateEndpointRequiresBearerHeader(t *testing.T) {
	app := newAuthApp(t)

	for _, header := range []string{"", "Basic abc", "just-a-token"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}

func TestValidateEndpointRejectsBadToken(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var envelope authEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
}

func TestAuthHealthEndpoint(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "auth-service", payload["service"])
}

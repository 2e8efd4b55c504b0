package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arthive/illustration-platform/internal/api/dto"
	"github.com/arthive/illustration-platform/internal/service"
)

// AuthHandler exposes the register/login/validate endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	serviceName string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, serviceName string) *AuthHandler {
	return &AuthHandler{auth: authService, serviceName: serviceName}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badEnvelope(c, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return badEnvelope(c, "email and password required")
	}

	result := h.auth.Register(c.UserContext(), req.Email, req.Password, req.Role)
	if !result.Success() {
		return envelope(c, http.StatusBadRequest, result)
	}
	return envelope(c, http.StatusOK, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badEnvelope(c, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return badEnvelope(c, "email and password required")
	}

	result := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if !result.Success() {
		return envelope(c, http.StatusUnauthorized, result)
	}
	return envelope(c, http.StatusOK, result)
}

// Validate handles POST /api/auth/validate. The token travels in the
// Authorization header, never in the body.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return badEnvelope(c, "invalid authorization header")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	result := h.auth.Validate(c.UserContext(), token)
	if !result.Success() {
		return envelope(c, http.StatusUnauthorized, result)
	}
	return envelope(c, http.StatusOK, result)
}

// Health handles GET /api/auth/health.
func (h *AuthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   h.serviceName,
		"timestamp": time.Now().UTC(),
	})
}

func envelope(c *fiber.Ctx, status int, result *service.AuthResult) error {
	return c.Status(status).JSON(dto.AuthResponse{
		Success: result.Success(),
		Message: result.Message,
		Token:   result.Token,
		User:    result.User,
	})
}

func badEnvelope(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(dto.AuthResponse{
		Success: false,
		Message: message,
	})
}

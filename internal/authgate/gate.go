// Package authgate implements the remote authorization gate shared by the
// downstream services. Instead of holding the signing secret, each service
// forwards the inbound bearer token to the auth service's validate endpoint
// and trusts the identity it returns.
package authgate

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arthive/illustration-platform/internal/config"
	"github.com/arthive/illustration-platform/internal/domain"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

const validatePath = "/api/auth/validate"

// Gate validates bearer tokens against the auth service and injects the
// resulting identity into the request context.
type Gate struct {
	baseURL string
	client  *http.Client
	cache   *TokenCache
	logger  *zap.Logger
}

// NewGate constructs the gate. cache may be nil to disable caching, in which
// case every protected request costs one round trip to the auth service.
func NewGate(cfg config.AuthClientConfig, cache *TokenCache, logger *zap.Logger) *Gate {
	return &Gate{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout()},
		cache:   cache,
		logger:  logger,
	}
}

type validateResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	User    *domain.Identity `json:"user"`
}

// Authenticate is the gate middleware. Requests without a bearer header pass
// through unauthenticated; route guards decide whether that is acceptable.
func (g *Gate) Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Next()
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	if identity, ok := g.cache.Get(c.UserContext(), token); ok {
		setIdentity(c, identity)
		return c.Next()
	}

	// The validate endpoint accepts credentials only via the Authorization
	// header, so the inbound header is forwarded verbatim.
	req, err := http.NewRequestWithContext(c.UserContext(), http.MethodPost, g.baseURL+validatePath, nil)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set(fiber.HeaderAuthorization, authHeader)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("auth service unreachable", zap.Error(err))
		return apperrors.NewServiceUnavailable("authentication service unavailable")
	}
	defer resp.Body.Close()

	var result validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		g.logger.Warn("token validation response unreadable", zap.Error(err))
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	if resp.StatusCode != http.StatusOK || !result.Success || result.User == nil {
		g.logger.Warn("token validation failed", zap.Int("status", resp.StatusCode))
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	g.cache.Set(c.UserContext(), token, result.User)
	setIdentity(c, result.User)
	return c.Next()
}

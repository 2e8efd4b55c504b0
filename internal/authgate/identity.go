package authgate

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arthive/illustration-platform/internal/domain"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

const identityKey = "auth_identity"

// IdentityFromContext retrieves the validated caller, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// RequireIdentity rejects requests that reached a protected route without a
// validated identity.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, identity *domain.Identity) {
	c.Locals(identityKey, identity)
}

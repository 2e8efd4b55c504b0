package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/arthive/illustration-platform/internal/auth"
	"github.com/arthive/illustration-platform/internal/config"
	"github.com/arthive/illustration-platform/internal/domain"
	"github.com/arthive/illustration-platform/internal/events"
	"github.com/arthive/illustration-platform/internal/repository"
)

const uniqueViolation = "23505"

// AuthStatus classifies the outcome of an auth operation.
type AuthStatus int

const (
	AuthOK AuthStatus = iota
	AuthDuplicateEmail
	AuthInvalidCredentials
	AuthAccountDisabled
	AuthInvalidToken
	AuthInternalError
)

// AuthResult is the uniform envelope every auth operation returns. Internal
// errors never escape as raw failures; they surface as a status plus message.
type AuthResult struct {
	Status  AuthStatus
	Message string
	Token   string
	User    *domain.Identity
}

// Success reports whether the operation succeeded.
func (r *AuthResult) Success() bool {
	return r.Status == AuthOK
}

// AuthService coordinates registration, login and token validation.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	dummyHash  string
}

// NewAuthService builds the service.
func NewAuthService(cfg *config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	// Compared against when login hits an unknown email, so both failure
	// paths perform one bcrypt comparison.
	dummyHash, _ := auth.HashPassword("credential-timing-pad", cfg.Auth.BcryptCost)

	return &AuthService{
		users: users,
		tokens: auth.NewTokenManager(auth.Config{
			Secret:   cfg.JWT.Secret,
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
		}),
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		dummyHash:  dummyHash,
	}
}

// Register creates a new account and issues its first token. A colliding
// email fails deterministically: checked before the write, and backed by the
// unique index for the race between two simultaneous registrations.
func (s *AuthService) Register(ctx context.Context, email, password, role string) *AuthResult {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return &AuthResult{Status: AuthDuplicateEmail, Message: "user with this email already exists"}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return s.internalFailure("registration failed", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return s.internalFailure("registration failed", err)
	}

	if role == "" {
		role = domain.DefaultRole
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return &AuthResult{Status: AuthDuplicateEmail, Message: "user with this email already exists"}
		}
		return s.internalFailure("registration failed", err)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return s.internalFailure("registration failed", err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})

	return &AuthResult{
		Status:  AuthOK,
		Message: "user registered successfully",
		Token:   token,
		User:    identityOf(user),
	}
}

// Login authenticates by email and password and mints a fresh token. Unknown
// email and wrong password are deliberately indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) *AuthResult {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = auth.ComparePassword(s.dummyHash, password)
			return &AuthResult{Status: AuthInvalidCredentials, Message: "invalid email or password"}
		}
		return s.internalFailure("login failed", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return &AuthResult{Status: AuthInvalidCredentials, Message: "invalid email or password"}
	}

	if !user.IsActive {
		return &AuthResult{Status: AuthAccountDisabled, Message: "user account is disabled"}
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return s.internalFailure("login failed", err)
	}

	return &AuthResult{
		Status:  AuthOK,
		Message: "login successful",
		Token:   token,
		User:    identityOf(user),
	}
}

// Validate verifies a bearer token, then re-fetches the user and re-checks
// the active flag so deactivation takes effect before the token expires. All
// failure modes collapse into one opaque invalid-token outcome.
func (s *AuthService) Validate(ctx context.Context, token string) *AuthResult {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return &AuthResult{Status: AuthInvalidToken, Message: "invalid token"}
	}

	user, err := s.users.GetByID(ctx, claims.ID)
	if err != nil || !user.IsActive {
		return &AuthResult{Status: AuthInvalidToken, Message: "invalid token"}
	}

	return &AuthResult{
		Status:  AuthOK,
		Message: "token is valid",
		User:    identityOf(user),
	}
}

func (s *AuthService) internalFailure(message string, err error) *AuthResult {
	s.logger.Error(message, zap.Error(err))
	return &AuthResult{Status: AuthInternalError, Message: message}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func identityOf(user *domain.User) *domain.Identity {
	return &domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

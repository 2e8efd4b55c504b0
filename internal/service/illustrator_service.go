package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/arthive/illustration-platform/internal/domain"
	"github.com/arthive/illustration-platform/internal/events"
	"github.com/arthive/illustration-platform/internal/repository"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

// IllustratorCreateInput carries fields for a new profile.
type IllustratorCreateInput struct {
	Name               string
	Bio                *string
	Specialty          *string
	ProfileImageURL    *string
	WebsiteURL         *string
	InstagramURL       *string
	TwitterURL         *string
	IsAvailableForWork bool
}

// IllustratorUpdateInput carries partial updates; nil means unchanged.
type IllustratorUpdateInput struct {
	Name               *string
	Bio                *string
	Specialty          *string
	ProfileImageURL    *string
	WebsiteURL         *string
	InstagramURL       *string
	TwitterURL         *string
	IsAvailableForWork *bool
	IsPublished        *bool
}

// IllustratorListQuery captures public listing parameters.
type IllustratorListQuery struct {
	Page               int
	PageSize           int
	Specialty          *string
	IsAvailableForWork *bool
}

// IllustratorService owns illustrator profiles and enforces the
// one-profile-per-user and owner-only mutation rules.
type IllustratorService struct {
	illustrators repository.IllustratorRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// NewIllustratorService builds the service.
func NewIllustratorService(illustrators repository.IllustratorRepository, dispatcher events.Dispatcher, logger *zap.Logger) *IllustratorService {
	return &IllustratorService{illustrators: illustrators, dispatcher: dispatcher, logger: logger}
}

// Create adds a profile for the authenticated user. Each user gets at most
// one profile.
func (s *IllustratorService) Create(ctx context.Context, userID string, input IllustratorCreateInput) (*domain.Illustrator, error) {
	if _, err := s.illustrators.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.NewConflict("an illustrator profile already exists for this user", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	illustrator := &domain.Illustrator{
		UserID:             userID,
		Name:               input.Name,
		Bio:                input.Bio,
		Specialty:          input.Specialty,
		ProfileImageURL:    input.ProfileImageURL,
		WebsiteURL:         input.WebsiteURL,
		InstagramURL:       input.InstagramURL,
		TwitterURL:         input.TwitterURL,
		IsAvailableForWork: input.IsAvailableForWork,
		IsPublished:        true,
	}
	if err := s.illustrators.Create(ctx, illustrator); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("illustrator profile created",
		zap.Int64("illustrator_id", illustrator.ID),
		zap.String("user_id", userID),
	)
	s.publish(ctx, events.EventIllustratorCreated, userID, events.IllustratorPayload{
		IllustratorID: illustrator.ID,
		Name:          illustrator.Name,
	})

	return illustrator, nil
}

// GetByID returns a published profile.
func (s *IllustratorService) GetByID(ctx context.Context, id int64) (*domain.Illustrator, error) {
	illustrator, err := s.illustrators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("illustrator", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !illustrator.IsPublished {
		return nil, apperrors.NewNotFound("illustrator", map[string]any{"id": id})
	}
	return illustrator, nil
}

// GetByUserID returns the profile owned by a user id.
func (s *IllustratorService) GetByUserID(ctx context.Context, userID string) (*domain.Illustrator, error) {
	illustrator, err := s.illustrators.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("illustrator", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return illustrator, nil
}

// List returns published profiles with paging and filters.
func (s *IllustratorService) List(ctx context.Context, query IllustratorListQuery) ([]domain.Illustrator, int, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	illustrators, total, err := s.illustrators.ListPublished(ctx, repository.IllustratorFilter{
		Specialty:          query.Specialty,
		IsAvailableForWork: query.IsAvailableForWork,
		Limit:              pageSize,
		Offset:             (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return illustrators, total, nil
}

// Update mutates a profile; only its owner may do so. An existing profile
// owned by someone else is Forbidden, distinct from NotFound.
func (s *IllustratorService) Update(ctx context.Context, userID string, id int64, input IllustratorUpdateInput) (*domain.Illustrator, error) {
	illustrator, err := s.ownedProfile(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		illustrator.Name = *input.Name
	}
	if input.Bio != nil {
		illustrator.Bio = input.Bio
	}
	if input.Specialty != nil {
		illustrator.Specialty = input.Specialty
	}
	if input.ProfileImageURL != nil {
		illustrator.ProfileImageURL = input.ProfileImageURL
	}
	if input.WebsiteURL != nil {
		illustrator.WebsiteURL = input.WebsiteURL
	}
	if input.InstagramURL != nil {
		illustrator.InstagramURL = input.InstagramURL
	}
	if input.TwitterURL != nil {
		illustrator.TwitterURL = input.TwitterURL
	}
	if input.IsAvailableForWork != nil {
		illustrator.IsAvailableForWork = *input.IsAvailableForWork
	}
	if input.IsPublished != nil {
		illustrator.IsPublished = *input.IsPublished
	}

	if err := s.illustrators.Update(ctx, illustrator); err != nil {
		return nil, apperrors.MapError(err)
	}
	return illustrator, nil
}

// Delete removes a profile; only its owner may do so.
func (s *IllustratorService) Delete(ctx context.Context, userID string, id int64) error {
	illustrator, err := s.ownedProfile(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.illustrators.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventIllustratorDeleted, userID, events.IllustratorPayload{
		IllustratorID: id,
		Name:          illustrator.Name,
	})
	return nil
}

func (s *IllustratorService) ownedProfile(ctx context.Context, userID string, id int64) (*domain.Illustrator, error) {
	illustrator, err := s.illustrators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("illustrator", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if illustrator.UserID != userID {
		s.logger.Warn("ownership violation on illustrator profile",
			zap.Int64("illustrator_id", id),
			zap.String("user_id", userID),
			zap.String("owner_id", illustrator.UserID),
		)
		return nil, apperrors.NewForbidden("you can only modify your own profile")
	}
	return illustrator, nil
}

func (s *IllustratorService) publish(ctx context.Context, eventType events.EventType, actorID string, payload any) {
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

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/arthive/illustration-platform/internal/domain"
	"github.com/arthive/illustration-platform/internal/events"
	"github.com/arthive/illustration-platform/internal/repository"
	"github.com/arthive/illustration-platform/internal/storage"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

const uploadURLTTL = 15 * time.Minute

// ImageCreateInput carries metadata for an already-uploaded image.
type ImageCreateInput struct {
	Title        string
	Description  string
	ImageURL     string
	ThumbnailURL string
	Tags         []string
	IsPublished  bool
}

// ImageUpdateInput carries partial updates; nil means unchanged.
type ImageUpdateInput struct {
	Title       *string
	Description *string
	Tags        []string
	IsPublished *bool
}

// ImageListQuery captures public listing parameters.
type ImageListQuery struct {
	Page     int
	PageSize int
	Tags     []string
	SortBy   string
}

// DirectUploadInput carries a multipart upload. Open is invoked once for the
// full image and once more for the thumbnail copy.
type DirectUploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
	Title       string
	Description string
	Tags        []string
}

// ImageService owns image assets: metadata rows plus the stored objects
// behind their URLs. Mutations are restricted to the owning identity.
type ImageService struct {
	images     repository.ImageRepository
	store      storage.ObjectStorage
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewImageService builds the service.
func NewImageService(images repository.ImageRepository, store storage.ObjectStorage, dispatcher events.Dispatcher, logger *zap.Logger) *ImageService {
	return &ImageService{images: images, store: store, dispatcher: dispatcher, logger: logger}
}

// List returns published images with paging, tag filter and sort order.
func (s *ImageService) List(ctx context.Context, query ImageListQuery) ([]domain.Image, int, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	images, total, err := s.images.ListPublished(ctx, repository.ImageFilter{
		Tags:   query.Tags,
		SortBy: repository.ImageSort(query.SortBy),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return images, total, nil
}

// GetByID returns a single image and counts the view.
func (s *ImageService) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("image", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.images.AddViews(ctx, id, 1); err != nil {
		s.logger.Warn("view count increment failed", zap.String("image_id", id), zap.Error(err))
	}
	return image, nil
}

// ListByIllustrator returns an owner's published images.
func (s *ImageService) ListByIllustrator(ctx context.Context, illustratorID string, page, pageSize int) ([]domain.Image, int, error) {
	page, pageSize = normalizePage(page, pageSize)
	images, total, err := s.images.ListByIllustrator(ctx, illustratorID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return images, total, nil
}

// Create stores metadata for an image whose bytes already live in storage.
func (s *ImageService) Create(ctx context.Context, ownerID string, input ImageCreateInput) (*domain.Image, error) {
	image := &domain.Image{
		ID:            uuid.NewString(),
		IllustratorID: ownerID,
		Title:         input.Title,
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		ThumbnailURL:  input.ThumbnailURL,
		Tags:          normalizeTags(input.Tags),
		IsPublished:   input.IsPublished,
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("image created", zap.String("image_id", image.ID), zap.String("owner_id", ownerID))
	s.publish(ctx, events.EventImageCreated, ownerID, events.ImagePayload{ImageID: image.ID, Title: image.Title})
	return image, nil
}

// DirectUpload stores the file bytes, a thumbnail copy, and the metadata row.
func (s *ImageService) DirectUpload(ctx context.Context, ownerID string, input DirectUploadInput) (*domain.Image, error) {
	imageURL, err := s.uploadCopy(ctx, "images", input)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	// The thumbnail reuses the original bytes; resizing is out of scope.
	thumbnailURL, err := s.uploadCopy(ctx, "thumbnails", input)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return s.Create(ctx, ownerID, ImageCreateInput{
		Title:        input.Title,
		Description:  input.Description,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		Tags:         input.Tags,
		IsPublished:  true,
	})
}

// UploadURL mints a presigned PUT slot for a direct client upload.
func (s *ImageService) UploadURL(ctx context.Context, fileName, contentType string) (*storage.UploadURL, error) {
	key := path.Join("images", uuid.NewString(), sanitizeFileName(fileName))
	uploadURL, err := s.store.PresignUpload(ctx, key, contentType, uploadURLTTL)
	if err != nil {
		if errors.Is(err, storage.ErrPresignUnsupported) {
			return nil, apperrors.NewValidationError("presigned uploads not supported by the configured storage backend", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return uploadURL, nil
}

// Update mutates image metadata; only the owner may do so.
func (s *ImageService) Update(ctx context.Context, userID, id string, input ImageUpdateInput) (*domain.Image, error) {
	image, err := s.ownedImage(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		image.Title = *input.Title
	}
	if input.Description != nil {
		image.Description = *input.Description
	}
	if input.Tags != nil {
		image.Tags = normalizeTags(input.Tags)
	}
	if input.IsPublished != nil {
		image.IsPublished = *input.IsPublished
	}

	if err := s.images.Update(ctx, image); err != nil {
		return nil, apperrors.MapError(err)
	}
	return image, nil
}

// Delete removes the stored objects and the metadata row; owner only.
func (s *ImageService) Delete(ctx context.Context, userID, id string) error {
	image, err := s.ownedImage(ctx, userID, id)
	if err != nil {
		return err
	}

	// Storage cleanup failures do not block the row deletion; orphaned
	// objects are preferable to metadata pointing at deleted files.
	if err := s.store.Delete(ctx, image.ImageURL); err != nil {
		s.logger.Warn("stored image cleanup failed", zap.String("image_id", id), zap.Error(err))
	}
	if err := s.store.Delete(ctx, image.ThumbnailURL); err != nil {
		s.logger.Warn("stored thumbnail cleanup failed", zap.String("image_id", id), zap.Error(err))
	}

	if err := s.images.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventImageDeleted, userID, events.ImagePayload{ImageID: id, Title: image.Title})
	return nil
}

func (s *ImageService) uploadCopy(ctx context.Context, prefix string, input DirectUploadInput) (string, error) {
	file, err := input.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := path.Join(prefix, uuid.NewString(), sanitizeFileName(input.FileName))
	return s.store.Upload(ctx, key, file, input.Size, input.ContentType)
}

// sanitizeFileName strips client-supplied directory components so the storage
// key stays under its prefix. A filename that is nothing but separators or
// dot segments falls back to a fixed name.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	return name
}

func (s *ImageService) ownedImage(ctx context.Context, userID, id string) (*domain.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("image", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if image.IllustratorID != userID {
		s.logger.Warn("ownership violation on image",
			zap.String("image_id", id),
			zap.String("user_id", userID),
			zap.String("owner_id", image.IllustratorID),
		)
		return nil, apperrors.NewForbidden("you can only modify your own images")
	}
	return image, nil
}

func (s *ImageService) publish(ctx context.Context, eventType events.EventType, actorID string, payload any) {
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

func normalizeTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.ToLower(strings.TrimSpace(tag)); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

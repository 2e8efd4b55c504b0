package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arthive/illustration-platform/internal/api/dto"
	"github.com/arthive/illustration-platform/internal/authgate"
	"github.com/arthive/illustration-platform/internal/service"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

// ImagesHandler manages image asset endpoints.
type ImagesHandler struct {
	service *service.ImageService
}

// NewImagesHandler constructs handler.
func NewImagesHandler(imageService *service.ImageService) *ImagesHandler {
	return &ImagesHandler{service: imageService}
}

// List GET /api/images.
func (h *ImagesHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	query := service.ImageListQuery{
		Page:     page,
		PageSize: pageSize,
		SortBy:   c.Query("sort_by", "recent"),
	}
	if tags := c.Query("tags"); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}

	images, total, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPagedImages(images, page, pageSize, total))
}

// GetByID GET /api/images/:id.
func (h *ImagesHandler) GetByID(c *fiber.Ctx) error {
	image, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ImageFromDomain(image))
}

// ListByIllustrator GET /api/images/illustrator/:illustratorId.
func (h *ImagesHandler) ListByIllustrator(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	images, total, err := h.service.ListByIllustrator(c.UserContext(), c.Params("illustratorId"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPagedImages(images, page, pageSize, total))
}

// Create POST /api/images. Metadata for an image already uploaded to storage.
func (h *ImagesHandler) Create(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.ImageURL == "" {
		return apperrors.NewValidationError("title and image_url required", nil)
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	image, err := h.service.Create(c.UserContext(), identity.UserID, service.ImageCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		Tags:         req.Tags,
		IsPublished:  published,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ImageFromDomain(image))
}

// DirectUpload POST /api/images/direct-upload. Multipart file plus metadata.
func (h *ImagesHandler) DirectUpload(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	file, err := c.FormFile("file")
	if err != nil || file.Size == 0 {
		return apperrors.NewValidationError("no file uploaded", nil)
	}

	title := c.FormValue("title")
	if title == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	var tags []string
	if raw := c.FormValue("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	image, err := h.service.DirectUpload(c.UserContext(), identity.UserID, service.DirectUploadInput{
		FileName:    file.Filename,
		ContentType: contentTypeOf(file),
		Size:        file.Size,
		Open:        func() (io.ReadCloser, error) { return file.Open() },
		Title:       title,
		Description: c.FormValue("description"),
		Tags:        tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ImageFromDomain(image))
}

// UploadURL POST /api/images/upload-url. Presigned PUT for direct uploads.
func (h *ImagesHandler) UploadURL(c *fiber.Ctx) error {
	if _, ok := authgate.IdentityFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	fileName := c.Query("file_name")
	if fileName == "" {
		return apperrors.NewValidationError("file_name required", nil)
	}
	contentType := c.Query("content_type", "image/jpeg")

	uploadURL, err := h.service.UploadURL(c.UserContext(), fileName, contentType)
	if err != nil {
		return err
	}
	return c.JSON(uploadURL)
}

// Update PUT /api/images/:id.
func (h *ImagesHandler) Update(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	image, err := h.service.Update(c.UserContext(), identity.UserID, c.Params("id"), service.ImageUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.ImageFromDomain(image))
}

// Delete DELETE /api/images/:id.
func (h *ImagesHandler) Delete(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.service.Delete(c.UserContext(), identity.UserID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func contentTypeOf(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

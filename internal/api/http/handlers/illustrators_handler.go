package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arthive/illustration-platform/internal/api/dto"
	"github.com/arthive/illustration-platform/internal/authgate"
	"github.com/arthive/illustration-platform/internal/service"
	apperrors "github.com/arthive/illustration-platform/pkg/util"
)

// IllustratorsHandler manages illustrator profile endpoints.
type IllustratorsHandler struct {
	service *service.IllustratorService
}

// NewIllustratorsHandler constructs handler.
func NewIllustratorsHandler(illustratorService *service.IllustratorService) *IllustratorsHandler {
	return &IllustratorsHandler{service: illustratorService}
}

// Create POST /api/illustrators.
func (h *IllustratorsHandler) Create(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateIllustratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	available := true
	if req.IsAvailableForWork != nil {
		available = *req.IsAvailableForWork
	}

	illustrator, err := h.service.Create(c.UserContext(), identity.UserID, service.IllustratorCreateInput{
		Name:               req.Name,
		Bio:                req.Bio,
		Specialty:          req.Specialty,
		ProfileImageURL:    req.ProfileImageURL,
		WebsiteURL:         req.WebsiteURL,
		InstagramURL:       req.InstagramURL,
		TwitterURL:         req.TwitterURL,
		IsAvailableForWork: available,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.IllustratorFromDomain(illustrator))
}

// List GET /api/illustrators.
func (h *IllustratorsHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	query := service.IllustratorListQuery{Page: page, PageSize: pageSize}
	if specialty := c.Query("specialty"); specialty != "" {
		query.Specialty = &specialty
	}
	if raw := c.Query("is_available_for_work"); raw != "" {
		if available, err := strconv.ParseBool(raw); err == nil {
			query.IsAvailableForWork = &available
		}
	}

	illustrators, total, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return err
	}

	items := make([]dto.IllustratorResponse, 0, len(illustrators))
	for i := range illustrators {
		items = append(items, dto.IllustratorFromDomain(&illustrators[i]))
	}
	return c.JSON(fiber.Map{
		"illustrators": items,
		"pagination":   dto.NewPagination(page, pageSize, total),
	})
}

// GetByID GET /api/illustrators/:id.
func (h *IllustratorsHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.NewValidationError("invalid illustrator id", nil)
	}

	illustrator, err := h.service.GetByID(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(dto.IllustratorFromDomain(illustrator))
}

// GetByUserID GET /api/illustrators/user/:userId.
func (h *IllustratorsHandler) GetByUserID(c *fiber.Ctx) error {
	illustrator, err := h.service.GetByUserID(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.IllustratorFromDomain(illustrator))
}

// Update PUT /api/illustrators/:id.
func (h *IllustratorsHandler) Update(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.NewValidationError("invalid illustrator id", nil)
	}

	var req dto.UpdateIllustratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	illustrator, err := h.service.Update(c.UserContext(), identity.UserID, int64(id), service.IllustratorUpdateInput{
		Name:               req.Name,
		Bio:                req.Bio,
		Specialty:          req.Specialty,
		ProfileImageURL:    req.ProfileImageURL,
		WebsiteURL:         req.WebsiteURL,
		InstagramURL:       req.InstagramURL,
		TwitterURL:         req.TwitterURL,
		IsAvailableForWork: req.IsAvailableForWork,
		IsPublished:        req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.IllustratorFromDomain(illustrator))
}

// Delete DELETE /api/illustrators/:id.
func (h *IllustratorsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := authgate.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.NewValidationError("invalid illustrator id", nil)
	}

	if err := h.service.Delete(c.UserContext(), identity.UserID, int64(id)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

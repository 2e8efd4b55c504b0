package dto

import (
	"time"

	"github.com/arthive/illustration-platform/internal/domain"
)

// CreateIllustratorRequest payload for a new profile.
type CreateIllustratorRequest struct {
	Name               string  `json:"name"`
	Bio                *string `json:"bio"`
	Specialty          *string `json:"specialty"`
	ProfileImageURL    *string `json:"profile_image_url"`
	WebsiteURL         *string `json:"website_url"`
	InstagramURL       *string `json:"instagram_url"`
	TwitterURL         *string `json:"twitter_url"`
	IsAvailableForWork *bool   `json:"is_available_for_work"`
}

// UpdateIllustratorRequest payload; absent fields stay unchanged.
type UpdateIllustratorRequest struct {
	Name               *string `json:"name"`
	Bio                *string `json:"bio"`
	Specialty          *string `json:"specialty"`
	ProfileImageURL    *string `json:"profile_image_url"`
	WebsiteURL         *string `json:"website_url"`
	InstagramURL       *string `json:"instagram_url"`
	TwitterURL         *string `json:"twitter_url"`
	IsAvailableForWork *bool   `json:"is_available_for_work"`
	IsPublished        *bool   `json:"is_published"`
}

// IllustratorResponse response shape.
type IllustratorResponse struct {
	ID                 int64     `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Bio                *string   `json:"bio"`
	Specialty          *string   `json:"specialty"`
	ProfileImageURL    *string   `json:"profile_image_url"`
	WebsiteURL         *string   `json:"website_url"`
	InstagramURL       *string   `json:"instagram_url"`
	TwitterURL         *string   `json:"twitter_url"`
	IsAvailableForWork bool      `json:"is_available_for_work"`
	IsPublished        bool      `json:"is_published"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// IllustratorFromDomain maps the domain model to its response shape.
func IllustratorFromDomain(ill *domain.Illustrator) IllustratorResponse {
	return IllustratorResponse{
		ID:                 ill.ID,
		UserID:             ill.UserID,
		Name:               ill.Name,
		Bio:                ill.Bio,
		Specialty:          ill.Specialty,
		ProfileImageURL:    ill.ProfileImageURL,
		WebsiteURL:         ill.WebsiteURL,
		InstagramURL:       ill.InstagramURL,
		TwitterURL:         ill.TwitterURL,
		IsAvailableForWork: ill.IsAvailableForWork,
		IsPublished:        ill.IsPublished,
		CreatedAt:          ill.CreatedAt,
		UpdatedAt:          ill.UpdatedAt,
	}
}

// NewPagination computes the page envelope.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
	}
}

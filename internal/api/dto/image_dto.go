package dto

import (
	"time"

	"github.com/arthive/illustration-platform/internal/domain"
)

// CreateImageRequest payload for metadata of an already-uploaded image.
type CreateImageRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Tags         []string `json:"tags"`
	IsPublished  *bool    `json:"is_published"`
}

// UpdateImageRequest payload; absent fields stay unchanged.
type UpdateImageRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
}

// ImageResponse response shape.
type ImageResponse struct {
	ID            string    `json:"id"`
	IllustratorID string    `json:"illustrator_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	Tags          []string  `json:"tags"`
	IsPublished   bool      `json:"is_published"`
	ViewCount     int64     `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PagedImages is the image listing envelope.
type PagedImages struct {
	Items      []ImageResponse `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ImageFromDomain maps the domain model to its response shape.
func ImageFromDomain(image *domain.Image) ImageResponse {
	tags := image.Tags
	if tags == nil {
		tags = []string{}
	}
	return ImageResponse{
		ID:            image.ID,
		IllustratorID: image.IllustratorID,
		Title:         image.Title,
		Description:   image.Description,
		ImageURL:      image.ImageURL,
		ThumbnailURL:  image.ThumbnailURL,
		Tags:          tags,
		IsPublished:   image.IsPublished,
		ViewCount:     image.ViewCount,
		CreatedAt:     image.CreatedAt,
		UpdatedAt:     image.UpdatedAt,
	}
}

// NewPagedImages builds the listing envelope.
func NewPagedImages(images []domain.Image, page, pageSize, total int) PagedImages {
	items := make([]ImageResponse, 0, len(images))
	for i := range images {
		items = append(items, ImageFromDomain(&images[i]))
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PagedImages{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

package domain

import "time"

// Image is a stored illustration asset. IllustratorID holds the owning
// user's id and is the key checked on every mutation.
type Image struct {
	ID            string
	IllustratorID string
	Title         string
	Description   string
	ImageURL      string
	ThumbnailURL  string
	Tags          []string
	IsPublished   bool
	ViewCount     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

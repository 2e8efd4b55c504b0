package domain

import "time"

// Illustrator is a public illustrator profile owned by exactly one user.
type Illustrator struct {
	ID                 int64
	UserID             string
	Name               string
	Bio                *string
	Specialty          *string
	ProfileImageURL    *string
	WebsiteURL         *string
	InstagramURL       *string
	TwitterURL         *string
	IsAvailableForWork bool
	IsPublished        bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

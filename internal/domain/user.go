package domain

import "time"

// DefaultRole is assigned when a registration carries no explicit role.
const DefaultRole = "User"

// User is the credential-store record for a platform account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package domain

// Identity is the verified caller injected into a request after token
// validation. A nil Identity means the request is unauthenticated.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

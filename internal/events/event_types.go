package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventIllustratorCreated EventType = "illustrator_created"
	EventIllustratorDeleted EventType = "illustrator_deleted"
	EventImageCreated       EventType = "image_created"
	EventImageDeleted       EventType = "image_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IllustratorPayload payload for profile lifecycle events.
type IllustratorPayload struct {
	IllustratorID int64  `json:"illustrator_id"`
	Name          string `json:"name"`
}

// ImagePayload payload for image lifecycle events.
type ImagePayload struct {
	ImageID string `json:"image_id"`
	Title   string `json:"title"`
}

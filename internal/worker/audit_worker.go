package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/arthive/illustration-platform/internal/events"
)

// StartAuditWorker subscribes a structured audit log to platform events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	handler := func(_ context.Context, event events.Event) error {
		logger.Info("audit",
			zap.String("event", string(event.Type)),
			zap.String("actor_id", event.ActorID),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventIllustratorCreated,
		events.EventIllustratorDeleted,
		events.EventImageCreated,
		events.EventImageDeleted,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}

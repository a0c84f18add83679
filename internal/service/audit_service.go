package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/thuanhighclean/cleaning-service/internal/events"
)

// AuditService writes domain events to the operational log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventMessageReceived, a.handleEvent)
	a.dispatcher.Subscribe(events.EventOrderCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventOrderDeleted, a.handleEvent)
	a.dispatcher.Subscribe(events.EventOrderPurged, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}

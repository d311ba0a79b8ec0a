package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// NotificationService consumes ticket lifecycle events. Delivery channels
// are stubbed to structured log lines; the subscription wiring is real.
type NotificationService struct {
	dispatcher *events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher *events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.TicketCreated, n.handle)
	n.dispatcher.Subscribe(events.TicketAssigned, n.handle)
	n.dispatcher.Subscribe(events.TicketUnassigned, n.handle)
	n.dispatcher.Subscribe(events.TicketStatusUpdated, n.handle)
	n.dispatcher.Subscribe(events.TicketDeleted, n.handle)
}

func (n *NotificationService) handle(_ context.Context, event events.Event) error {
	n.logger.Info("ticket notification",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdesk-hq/helpdesk-service/internal/events"
)

// NotificationService logs domain events for operators. Actual delivery
// (email, webhooks) is out of scope; the assignment system comment is the
// only durable notification the ticket subsystem records.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleEvent)
}

func (n *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

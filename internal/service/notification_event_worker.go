package service

import (
	"context"
	"fmt"
	"strings"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/metrics"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"
	"notifhub-be/pkg/events"
	pktNats "notifhub-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationEventWorker turns domain events from the bus into notification
// sends. Every event goes through the same dispatch pipeline as the API path,
// so preference filtering and provider fan-out apply to both.
type NotificationEventWorker struct {
	dispatch   INotificationDispatchService
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewNotificationEventWorker(
	dispatch INotificationDispatchService,
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *NotificationEventWorker {
	return &NotificationEventWorker{
		dispatch:   dispatch,
		subscriber: subscriber,
		uowFactory: uowFactory,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (w *NotificationEventWorker) Start() {
	err := w.subscriber.Subscribe("events.>", "notif-event-worker", w.handleEvent)
	if err != nil {
		w.logger.Error("NotificationEventWorker", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	w.logger.Info("NotificationEventWorker", "Event worker started, listening to events.>", nil)
}

func (w *NotificationEventWorker) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects include the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	// 1. A template whose code matches the event decides whether this event
	// notifies anyone at all. Events without one are simply not
	// notification-worthy.
	uow := w.uowFactory.NewUnitOfWork(ctx)
	template, err := uow.NotificationTemplateRepository().FindOne(ctx,
		specification.ByCode{Code: typeCode},
		specification.ActiveOnly{},
	)
	if err != nil {
		w.logger.Error("NotificationEventWorker", "Template lookup failed", map[string]interface{}{"code": typeCode, "error": err.Error()})
		return err // NATS will retry
	}
	if template == nil {
		return nil
	}

	// 2. Resolve the recipient from the payload.
	payload := event.Payload()
	uidStr, ok := payload["user_id"].(string)
	if !ok {
		w.logger.Warn("NotificationEventWorker", fmt.Sprintf("Event %s carries no user_id, dropping", typeCode), nil)
		return nil
	}
	userId, err := uuid.Parse(uidStr)
	if err != nil {
		w.logger.Warn("NotificationEventWorker", fmt.Sprintf("Event %s carries malformed user_id, dropping", typeCode), map[string]interface{}{"user_id": uidStr})
		return nil
	}

	// 3. Every payload field becomes a template variable.
	variables := make(map[string]string, len(payload))
	for key, value := range payload {
		variables[key] = fmt.Sprintf("%v", value)
	}

	templateId := template.Id.String()
	req := &dto.SendNotificationRequest{
		RecipientId:       userId.String(),
		Type:              string(template.Type),
		Channels:          channelStrings(template.Channels),
		Priority:          string(entity.NotificationPriorityMedium),
		TemplateId:        &templateId,
		TemplateVariables: variables,
		Metadata:          payload,
	}

	// 4. Send through the shared pipeline.
	res, err := w.dispatch.Send(ctx, req)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindPreferenceFiltered:
			// The user muted every requested channel; nothing to retry.
			metrics.RecordEventConsumed(typeCode, true)
			return nil
		case apperror.KindValidation, apperror.KindNotFound:
			w.logger.Warn("NotificationEventWorker", fmt.Sprintf("Dropping undeliverable event %s", typeCode), map[string]interface{}{"error": err.Error()})
			metrics.RecordEventConsumed(typeCode, false)
			return nil
		default:
			metrics.RecordEventConsumed(typeCode, false)
			return err // NATS will retry
		}
	}

	metrics.RecordEventConsumed(typeCode, res.Success)
	return nil
}

func channelStrings(channels []entity.NotificationChannel) []string {
	values := make([]string, 0, len(channels))
	for _, channel := range channels {
		values = append(values, string(channel))
	}
	return values
}

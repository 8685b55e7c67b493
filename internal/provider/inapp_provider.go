package provider

import (
	"context"

	"notifhub-be/internal/entity"
)

// NotificationDelivery pushes a real-time frame to a connected user. The
// websocket hub implements it.
type NotificationDelivery interface {
	SendToUser(userId string, payload interface{})
}

// InAppProvider stores nothing itself: the notification row is already
// persisted before dispatch, so in-app delivery is the real-time push plus
// the unread list the user polls later. Delivery to an offline user still
// succeeds.
type InAppProvider struct {
	delivery NotificationDelivery
}

func NewInAppProvider(delivery NotificationDelivery) *InAppProvider {
	return &InAppProvider{delivery: delivery}
}

func (p *InAppProvider) Channel() entity.NotificationChannel {
	return entity.NotificationChannelInApp
}

type inAppPayload struct {
	Event        string      `json:"event"`
	Notification interface{} `json:"notification"`
}

func (p *InAppProvider) Send(ctx context.Context, notification *entity.Notification, recipient *Recipient) (*Result, error) {
	p.delivery.SendToUser(recipient.UserId.String(), inAppPayload{
		Event: "notification.created",
		Notification: map[string]interface{}{
			"id":         notification.Id.String(),
			"type":       string(notification.Type),
			"title":      notification.Title,
			"message":    notification.Message,
			"priority":   string(notification.Priority),
			"created_at": notification.CreatedAt,
			"metadata":   notification.Metadata,
		},
	})

	return &Result{MessageId: notification.Id.String()}, nil
}

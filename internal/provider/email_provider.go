package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/mailer"
)

type EmailProvider struct {
	mailer mailer.IEmailService
}

func NewEmailProvider(emailService mailer.IEmailService) *EmailProvider {
	return &EmailProvider{mailer: emailService}
}

func (p *EmailProvider) Channel() entity.NotificationChannel {
	return entity.NotificationChannelEmail
}

func (p *EmailProvider) Send(ctx context.Context, notification *entity.Notification, recipient *Recipient) (*Result, error) {
	if recipient.Email == "" {
		return nil, fmt.Errorf("recipient has no email address")
	}

	if err := p.mailer.SendNotification(recipient.Email, notification.Title, notification.Title, notification.Message); err != nil {
		return nil, err
	}

	// SMTP hand-off exposes no provider message id; synthesize one so the
	// delivery record still carries a reference.
	return &Result{MessageId: uuid.NewString()}, nil
}

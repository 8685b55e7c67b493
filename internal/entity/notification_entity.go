package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"notifhub-be/internal/pkg/apperror"
)

type NotificationType string
type NotificationChannel string
type NotificationPriority string
type NotificationStatus string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeSystem  NotificationType = "system"

	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelPush  NotificationChannel = "push"
	NotificationChannelInApp NotificationChannel = "in_app"

	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"

	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusRead      NotificationStatus = "read"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusCancelled NotificationStatus = "cancelled"

	// PreferenceTypeGeneral is the catch-all preference bucket consulted when
	// a notification type has no dedicated preference row.
	PreferenceTypeGeneral = "general"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning,
		NotificationTypeError, NotificationTypeSystem:
		return true
	}
	return false
}

func (c NotificationChannel) Valid() bool {
	switch c {
	case NotificationChannelEmail, NotificationChannelSMS,
		NotificationChannelPush, NotificationChannelInApp:
		return true
	}
	return false
}

func (p NotificationPriority) Valid() bool {
	switch p {
	case NotificationPriorityLow, NotificationPriorityMedium,
		NotificationPriorityHigh, NotificationPriorityUrgent:
		return true
	}
	return false
}

// Notification is one message destined for one user across one or more
// channels. Status moves pending -> sent/failed/cancelled, then on the read
// path to delivered/read. Terminal statuses never return to pending.
type Notification struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Type         NotificationType
	Title        string
	Message      string
	Channels     []NotificationChannel
	Priority     NotificationPriority
	TemplateId   *uuid.UUID
	Status       NotificationStatus
	ScheduledFor *time.Time
	SentAt       *time.Time
	DeliveredAt  *time.Time
	ReadAt       *time.Time
	ExpiresAt    *time.Time
	Metadata     map[string]interface{}
	DeliveryData map[string]interface{}
	RetryCount   int
	MaxRetries   int
	LastError    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate returns every constraint violation as a human-readable message.
// An empty slice means the notification is well-formed.
func (n *Notification) Validate() []string {
	var violations []string
	if n.UserId == uuid.Nil {
		violations = append(violations, "recipient is required")
	}
	if !n.Type.Valid() {
		violations = append(violations, fmt.Sprintf("unknown notification type: %s", n.Type))
	}
	if n.Title == "" {
		violations = append(violations, "title is required")
	}
	if n.Message == "" {
		violations = append(violations, "content is required")
	}
	if len(n.Channels) == 0 {
		violations = append(violations, "at least one channel is required")
	}
	for _, channel := range n.Channels {
		if !channel.Valid() {
			violations = append(violations, fmt.Sprintf("unknown channel: %s", channel))
		}
	}
	if !n.Priority.Valid() {
		violations = append(violations, fmt.Sprintf("unknown priority: %s", n.Priority))
	}
	return violations
}

func (n *Notification) IsTerminal() bool {
	switch n.Status {
	case NotificationStatusSent, NotificationStatusFailed, NotificationStatusCancelled:
		return true
	}
	return false
}

func (n *Notification) IsRead() bool {
	return n.Status == NotificationStatusRead
}

func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}

// MarkSent transitions pending -> sent and stamps SentAt.
func (n *Notification) MarkSent() error {
	if n.Status != NotificationStatusPending {
		return apperror.Conflict(fmt.Sprintf("cannot mark notification as sent from status %s", n.Status))
	}
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	return nil
}

// MarkFailed records the first delivery error and moves the notification to
// its failed terminal state. Allowed from pending and sent.
func (n *Notification) MarkFailed(message string) error {
	if n.Status != NotificationStatusPending && n.Status != NotificationStatusSent {
		return apperror.Conflict(fmt.Sprintf("cannot mark notification as failed from status %s", n.Status))
	}
	n.Status = NotificationStatusFailed
	n.LastError = &message
	return nil
}

// MarkDelivered transitions sent -> delivered. Marking an already delivered
// notification again is a no-op.
func (n *Notification) MarkDelivered() error {
	if n.Status == NotificationStatusDelivered {
		return nil
	}
	if n.Status != NotificationStatusSent {
		return apperror.Conflict(fmt.Sprintf("cannot mark notification as delivered from status %s", n.Status))
	}
	now := time.Now()
	n.Status = NotificationStatusDelivered
	n.DeliveredAt = &now
	return nil
}

// MarkRead stamps ReadAt. Already-read notifications are left untouched;
// cancelled ones reject the transition.
func (n *Notification) MarkRead() error {
	if n.Status == NotificationStatusRead {
		return nil
	}
	if n.Status == NotificationStatusCancelled {
		return apperror.Conflict("cannot mark a cancelled notification as read")
	}
	now := time.Now()
	n.Status = NotificationStatusRead
	n.ReadAt = &now
	return nil
}

// Cancel aborts a pending notification before dispatch.
func (n *Notification) Cancel() error {
	if n.Status != NotificationStatusPending {
		return apperror.Conflict(fmt.Sprintf("cannot cancel notification from status %s", n.Status))
	}
	n.Status = NotificationStatusCancelled
	return nil
}

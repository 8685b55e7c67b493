package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification stores one dispatch record per recipient.
type Notification struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID                   `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	Type         string                      `gorm:"type:varchar(20);not null;index:idx_notifications_type" json:"type"`
	Title        string                      `gorm:"type:varchar(200);not null" json:"title"`
	Message      string                      `gorm:"type:text;not null" json:"message"`
	Channels     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"channels"`
	Priority     string                      `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	TemplateID   *uuid.UUID                  `gorm:"type:uuid" json:"template_id,omitempty"`
	Status       string                      `gorm:"type:varchar(20);not null;default:'pending';index:idx_notifications_status" json:"status"`
	ScheduledFor *time.Time                  `json:"scheduled_for,omitempty"`
	SentAt       *time.Time                  `json:"sent_at,omitempty"`
	DeliveredAt  *time.Time                  `json:"delivered_at,omitempty"`
	ReadAt       *time.Time                  `json:"read_at,omitempty"`
	ExpiresAt    *time.Time                  `gorm:"index:idx_notifications_expires" json:"expires_at,omitempty"`
	Metadata     datatypes.JSON              `gorm:"type:jsonb" json:"metadata,omitempty"`
	DeliveryData datatypes.JSON              `gorm:"type:jsonb" json:"delivery_data,omitempty"`
	RetryCount   int                         `gorm:"default:0" json:"retry_count"`
	MaxRetries   int                         `gorm:"default:3" json:"max_retries"`
	LastError    *string                     `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationTemplate holds reusable subject/body text keyed by code.
// Variables is a jsonb object mapping placeholder names to default values.
type NotificationTemplate struct {
	ID        uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string                      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name      string                      `gorm:"type:varchar(100);not null" json:"name"`
	Type      string                      `gorm:"type:varchar(20);not null" json:"type"`
	Subject   string                      `gorm:"type:varchar(200)" json:"subject,omitempty"`
	Body      string                      `gorm:"type:text;not null" json:"body"`
	Channels  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"channels"`
	Variables datatypes.JSON              `gorm:"type:jsonb" json:"variables"`
	IsActive  bool                        `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NotificationTemplate) TableName() string {
	return "notification_templates"
}

// NotificationPreference stores a user's channel toggles for one
// notification type. One row per (user, type).
type NotificationPreference struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notification_preferences_user_type,priority:1" json:"user_id"`
	Type         string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_notification_preferences_user_type,priority:2" json:"type"`
	EmailEnabled bool      `gorm:"default:true" json:"email_enabled"`
	SMSEnabled   bool      `gorm:"default:true" json:"sms_enabled"`
	PushEnabled  bool      `gorm:"default:true" json:"push_enabled"`
	InAppEnabled bool      `gorm:"default:true" json:"in_app_enabled"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

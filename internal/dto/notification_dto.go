package dto

import "time"

type SendNotificationRequest struct {
	RecipientId       string                 `json:"recipient_id" validate:"required"`
	Type              string                 `json:"type" validate:"required"`
	Title             string                 `json:"title"`
	Content           string                 `json:"content"`
	Channels          []string               `json:"channels,omitempty"`
	Priority          string                 `json:"priority,omitempty"`
	TemplateId        *string                `json:"template_id,omitempty"`
	TemplateVariables map[string]string      `json:"template_variables,omitempty"`
	ScheduledAt       *time.Time             `json:"scheduled_at,omitempty"`
	ExpiresAt         *time.Time             `json:"expires_at,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

type ChannelResultResponse struct {
	Channel   string  `json:"channel"`
	Success   bool    `json:"success"`
	MessageId *string `json:"message_id,omitempty"`
	Error     *string `json:"error,omitempty"`
}

type NotificationResponse struct {
	Id           string                 `json:"id"`
	UserId       string                 `json:"user_id"`
	Type         string                 `json:"type"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Channels     []string               `json:"channels"`
	Priority     string                 `json:"priority"`
	TemplateId   *string                `json:"template_id,omitempty"`
	Status       string                 `json:"status"`
	ScheduledFor *time.Time             `json:"scheduled_for,omitempty"`
	SentAt       *time.Time             `json:"sent_at,omitempty"`
	DeliveredAt  *time.Time             `json:"delivered_at,omitempty"`
	ReadAt       *time.Time             `json:"read_at,omitempty"`
	ExpiresAt    *time.Time             `json:"expires_at,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	DeliveryData map[string]interface{} `json:"delivery_data,omitempty"`
	RetryCount   int                    `json:"retry_count"`
	MaxRetries   int                    `json:"max_retries"`
	LastError    *string                `json:"last_error,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type SendNotificationResponse struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	Notification *NotificationResponse   `json:"notification,omitempty"`
	Results      []ChannelResultResponse `json:"results,omitempty"`
}

type ListNotificationsRequest struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	HasMore       bool                   `json:"has_more"`
}

type NotificationStatsResponse struct {
	Total    int64            `json:"total"`
	Unread   int64            `json:"unread"`
	ByStatus map[string]int64 `json:"by_status"`
	ByType   map[string]int64 `json:"by_type"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type NotificationPreferenceRequest struct {
	Type         string `json:"type" validate:"required"`
	EmailEnabled *bool  `json:"email_enabled"`
	SMSEnabled   *bool  `json:"sms_enabled"`
	PushEnabled  *bool  `json:"push_enabled"`
	InAppEnabled *bool  `json:"in_app_enabled"`
}

type NotificationPreferenceResponse struct {
	Type         string    `json:"type"`
	EmailEnabled bool      `json:"email_enabled"`
	SMSEnabled   bool      `json:"sms_enabled"`
	PushEnabled  bool      `json:"push_enabled"`
	InAppEnabled bool      `json:"in_app_enabled"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CleanupNotificationsRequest struct {
	OlderThanDays int  `json:"older_than_days"`
	ExpiredOnly   bool `json:"expired_only"`
}

type CleanupNotificationsResponse struct {
	Deleted int64 `json:"deleted"`
}

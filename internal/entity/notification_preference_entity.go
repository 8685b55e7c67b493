package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference records, per user and notification type, which
// channels are enabled. It is a read-side filter only: a channel is excluded
// from dispatch when a stored preference explicitly disables it, and absence
// of a row restricts nothing.
type NotificationPreference struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Type         string
	EmailEnabled bool
	SMSEnabled   bool
	PushEnabled  bool
	InAppEnabled bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChannelEnabled reports whether this preference row allows the channel.
// Unknown channels are allowed so new channels never get silently muted.
func (p *NotificationPreference) ChannelEnabled(channel NotificationChannel) bool {
	switch channel {
	case NotificationChannelEmail:
		return p.EmailEnabled
	case NotificationChannelSMS:
		return p.SMSEnabled
	case NotificationChannelPush:
		return p.PushEnabled
	case NotificationChannelInApp:
		return p.InAppEnabled
	}
	return true
}

// FilterChannels returns the subset of requested channels that every given
// preference row allows, preserving the caller's order. With no rows the
// requested set passes through unchanged.
func FilterChannels(requested []NotificationChannel, preferences []*NotificationPreference) []NotificationChannel {
	if len(preferences) == 0 {
		return requested
	}
	enabled := make([]NotificationChannel, 0, len(requested))
	for _, channel := range requested {
		allowed := true
		for _, preference := range preferences {
			if !preference.ChannelEnabled(channel) {
				allowed = false
				break
			}
		}
		if allowed {
			enabled = append(enabled, channel)
		}
	}
	return enabled
}

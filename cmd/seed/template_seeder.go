package main

import (
	"log"

	"notifhub-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTemplates populates the database with default notification
// templates. Templates whose code matches a domain event type double as the
// opt-in list for event-driven notifications.
func SeedNotificationTemplates(db *gorm.DB) {
	templates := []model.NotificationTemplate{
		{
			Code:      "USER_REGISTERED",
			Name:      "Welcome Message",
			Type:      "success",
			Subject:   "Welcome aboard, {full_name}!",
			Body:      "Hi {full_name}, your account is ready. Head to your settings to pick which notifications you want to receive.",
			Channels:  datatypes.JSONSlice[string]{"email", "in_app"},
			Variables: datatypes.JSON([]byte(`{"full_name": "there"}`)),
			IsActive:  true,
		},
		{
			Code:      "USER_LOGIN",
			Name:      "Login Alert",
			Type:      "info",
			Subject:   "New sign-in to your account",
			Body:      "You signed in from {device} at {time}.",
			Channels:  datatypes.JSONSlice[string]{"in_app"},
			Variables: datatypes.JSON([]byte(`{"device": "an unknown device", "time": "an unknown time"}`)),
			IsActive:  true,
		},
		{
			Code:      "PROFILE_UPDATED",
			Name:      "Profile Change Alert",
			Type:      "info",
			Subject:   "Your profile was updated",
			Body:      "These profile fields changed: {fields}. If this was not you, reset your password immediately.",
			Channels:  datatypes.JSONSlice[string]{"in_app", "email"},
			Variables: datatypes.JSON([]byte(`{"fields": "some fields"}`)),
			IsActive:  true,
		},
		{
			Code:      "SECURITY_ALERT",
			Name:      "Security Alert",
			Type:      "warning",
			Subject:   "Security alert on your account",
			Body:      "We noticed {activity} on your account. Review your recent activity if you do not recognize it.",
			Channels:  datatypes.JSONSlice[string]{"email", "sms", "in_app"},
			Variables: datatypes.JSON([]byte(`{"activity": "unusual activity"}`)),
			IsActive:  true,
		},
		{
			Code:      "SYSTEM_MAINTENANCE",
			Name:      "Maintenance Window",
			Type:      "system",
			Subject:   "Scheduled maintenance",
			Body:      "The service will be unavailable on {date} between {start} and {end}.",
			Channels:  datatypes.JSONSlice[string]{"email", "in_app"},
			Variables: datatypes.JSON([]byte(`{"date": "TBD", "start": "00:00", "end": "00:00"}`)),
			IsActive:  true,
		},
		{
			// No subject: the rendered notification keeps the caller's title.
			Code:      "GENERAL_ANNOUNCEMENT",
			Name:      "General Announcement",
			Type:      "info",
			Body:      "{message}",
			Channels:  datatypes.JSONSlice[string]{"in_app"},
			Variables: datatypes.JSON([]byte(`{"message": ""}`)),
			IsActive:  true,
		},
	}

	for _, t := range templates {
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification template %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification templates seeded successfully.")
}

package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validNotification() *Notification {
	return &Notification{
		Id:       uuid.New(),
		UserId:   uuid.New(),
		Type:     NotificationTypeInfo,
		Title:    "Title",
		Message:  "Message",
		Channels: []NotificationChannel{NotificationChannelInApp},
		Priority: NotificationPriorityMedium,
		Status:   NotificationStatusPending,
	}
}

func TestNotificationValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(n *Notification)
		wantViolations []string
	}{
		{
			name:           "valid notification",
			mutate:         func(n *Notification) {},
			wantViolations: nil,
		},
		{
			name:           "missing recipient",
			mutate:         func(n *Notification) { n.UserId = uuid.Nil },
			wantViolations: []string{"recipient is required"},
		},
		{
			name:           "unknown type",
			mutate:         func(n *Notification) { n.Type = "urgent-ping" },
			wantViolations: []string{"unknown notification type: urgent-ping"},
		},
		{
			name:           "missing title",
			mutate:         func(n *Notification) { n.Title = "" },
			wantViolations: []string{"title is required"},
		},
		{
			name:           "missing content",
			mutate:         func(n *Notification) { n.Message = "" },
			wantViolations: []string{"content is required"},
		},
		{
			name:           "no channels",
			mutate:         func(n *Notification) { n.Channels = nil },
			wantViolations: []string{"at least one channel is required"},
		},
		{
			name: "unknown channel",
			mutate: func(n *Notification) {
				n.Channels = []NotificationChannel{NotificationChannelEmail, "pigeon"}
			},
			wantViolations: []string{"unknown channel: pigeon"},
		},
		{
			name:           "unknown priority",
			mutate:         func(n *Notification) { n.Priority = "asap" },
			wantViolations: []string{"unknown priority: asap"},
		},
		{
			name: "multiple violations keep declaration order",
			mutate: func(n *Notification) {
				n.Title = ""
				n.Message = ""
			},
			wantViolations: []string{"title is required", "content is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNotification()
			tt.mutate(n)

			got := n.Validate()
			if len(got) != len(tt.wantViolations) {
				t.Fatalf("Validate() = %v, want %v", got, tt.wantViolations)
			}
			for i := range got {
				if got[i] != tt.wantViolations[i] {
					t.Errorf("Validate()[%d] = %q, want %q", i, got[i], tt.wantViolations[i])
				}
			}
		})
	}
}

func TestNotificationStatusTransitions(t *testing.T) {
	t.Run("MarkSent from pending", func(t *testing.T) {
		n := validNotification()
		if err := n.MarkSent(); err != nil {
			t.Fatalf("MarkSent() error = %v", err)
		}
		if n.Status != NotificationStatusSent {
			t.Errorf("Status = %s, want sent", n.Status)
		}
		if n.SentAt == nil {
			t.Error("SentAt not stamped")
		}
	})

	t.Run("MarkSent from sent rejected", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		if err := n.MarkSent(); err == nil {
			t.Error("MarkSent() from sent should error")
		}
	})

	t.Run("MarkFailed from pending records error", func(t *testing.T) {
		n := validNotification()
		if err := n.MarkFailed("smtp timeout"); err != nil {
			t.Fatalf("MarkFailed() error = %v", err)
		}
		if n.Status != NotificationStatusFailed {
			t.Errorf("Status = %s, want failed", n.Status)
		}
		if n.LastError == nil || *n.LastError != "smtp timeout" {
			t.Errorf("LastError = %v, want smtp timeout", n.LastError)
		}
	})

	t.Run("MarkFailed from sent allowed", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		if err := n.MarkFailed("bounced"); err != nil {
			t.Errorf("MarkFailed() from sent error = %v", err)
		}
	})

	t.Run("MarkFailed from read rejected", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusRead
		if err := n.MarkFailed("late"); err == nil {
			t.Error("MarkFailed() from read should error")
		}
	})

	t.Run("MarkDelivered from sent", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		if err := n.MarkDelivered(); err != nil {
			t.Fatalf("MarkDelivered() error = %v", err)
		}
		if n.Status != NotificationStatusDelivered || n.DeliveredAt == nil {
			t.Errorf("Status = %s, DeliveredAt = %v", n.Status, n.DeliveredAt)
		}
	})

	t.Run("MarkDelivered twice is a no-op", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		_ = n.MarkDelivered()
		stamped := n.DeliveredAt
		if err := n.MarkDelivered(); err != nil {
			t.Errorf("second MarkDelivered() error = %v", err)
		}
		if n.DeliveredAt != stamped {
			t.Error("second MarkDelivered() restamped DeliveredAt")
		}
	})

	t.Run("MarkDelivered from pending rejected", func(t *testing.T) {
		n := validNotification()
		if err := n.MarkDelivered(); err == nil {
			t.Error("MarkDelivered() from pending should error")
		}
	})

	t.Run("MarkRead from sent", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		if err := n.MarkRead(); err != nil {
			t.Fatalf("MarkRead() error = %v", err)
		}
		if n.Status != NotificationStatusRead || n.ReadAt == nil {
			t.Errorf("Status = %s, ReadAt = %v", n.Status, n.ReadAt)
		}
	})

	t.Run("MarkRead twice is a no-op", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		_ = n.MarkRead()
		stamped := n.ReadAt
		if err := n.MarkRead(); err != nil {
			t.Errorf("second MarkRead() error = %v", err)
		}
		if n.ReadAt != stamped {
			t.Error("second MarkRead() restamped ReadAt")
		}
	})

	t.Run("MarkRead on cancelled rejected", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusCancelled
		if err := n.MarkRead(); err == nil {
			t.Error("MarkRead() on cancelled should error")
		}
	})

	t.Run("Cancel from pending", func(t *testing.T) {
		n := validNotification()
		if err := n.Cancel(); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if n.Status != NotificationStatusCancelled {
			t.Errorf("Status = %s, want cancelled", n.Status)
		}
	})

	t.Run("Cancel after dispatch rejected", func(t *testing.T) {
		n := validNotification()
		n.Status = NotificationStatusSent
		if err := n.Cancel(); err == nil {
			t.Error("Cancel() from sent should error")
		}
	})
}

func TestNotificationIsTerminal(t *testing.T) {
	tests := []struct {
		status NotificationStatus
		want   bool
	}{
		{NotificationStatusPending, false},
		{NotificationStatusSent, true},
		{NotificationStatusDelivered, false},
		{NotificationStatusRead, false},
		{NotificationStatusFailed, true},
		{NotificationStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			n := validNotification()
			n.Status = tt.status
			if got := n.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotificationIsExpired(t *testing.T) {
	now := time.Now()

	n := validNotification()
	if n.IsExpired(now) {
		t.Error("notification without ExpiresAt should never expire")
	}

	past := now.Add(-time.Minute)
	n.ExpiresAt = &past
	if !n.IsExpired(now) {
		t.Error("notification expired a minute ago should report expired")
	}

	future := now.Add(time.Minute)
	n.ExpiresAt = &future
	if n.IsExpired(now) {
		t.Error("notification expiring in a minute should not report expired")
	}
}

func TestNotificationTypeValid(t *testing.T) {
	for _, valid := range []NotificationType{"info", "success", "warning", "error", "system"} {
		if !valid.Valid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	for _, invalid := range []NotificationType{"", "INFO", "alert"} {
		if invalid.Valid() {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}

func TestErrorMessagesNameTheStatus(t *testing.T) {
	n := validNotification()
	n.Status = NotificationStatusRead

	err := n.MarkSent()
	if err == nil || !strings.Contains(err.Error(), "read") {
		t.Errorf("MarkSent() error = %v, want the current status in the message", err)
	}
}

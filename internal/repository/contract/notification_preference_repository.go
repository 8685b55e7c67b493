package contract

import (
	"context"

	"notifhub-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationPreferenceRepository interface {
	// Upsert creates or replaces the row for (preference.UserId, preference.Type).
	Upsert(ctx context.Context, preference *entity.NotificationPreference) error
	FindByUserAndType(ctx context.Context, userId uuid.UUID, preferenceType string) ([]*entity.NotificationPreference, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.NotificationPreference, error)
}

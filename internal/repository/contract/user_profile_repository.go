package contract

import (
	"context"

	"notifhub-be/internal/entity"

	"github.com/google/uuid"
)

type UserProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.UserProfile) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error)

	// Activity log
	CreateActivity(ctx context.Context, activity *entity.UserActivity) error
	FindActivities(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.UserActivity, int64, error)
}

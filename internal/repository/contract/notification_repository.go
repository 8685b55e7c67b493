package contract

import (
	"context"
	"time"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

// NotificationFilter narrows FindByUser. Zero values mean "no filter";
// Limit <= 0 falls back to the repository default.
type NotificationFilter struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

// NotificationStats aggregates one user's notification counts.
type NotificationStats struct {
	Total    int64
	Unread   int64
	ByStatus map[string]int64
	ByType   map[string]int64
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	Update(ctx context.Context, notification *entity.Notification) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notification, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Query path
	FindByUser(ctx context.Context, userId uuid.UUID, filter NotificationFilter) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userId uuid.UUID) (int64, error)
	GetStats(ctx context.Context, userId uuid.UUID) (*NotificationStats, error)

	// Read-state
	MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error)

	// Maintenance
	FindExpired(ctx context.Context, now time.Time) ([]*entity.Notification, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

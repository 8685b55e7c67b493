package contract

import (
	"context"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/repository/specification"
)

type NotificationTemplateRepository interface {
	Create(ctx context.Context, template *entity.NotificationTemplate) error
	Update(ctx context.Context, template *entity.NotificationTemplate) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotificationTemplate, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotificationTemplate, error)
}

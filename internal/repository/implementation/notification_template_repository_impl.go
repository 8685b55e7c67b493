package implementation

import (
	"context"
	"errors"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/mapper"
	"notifhub-be/internal/model"
	"notifhub-be/internal/repository/contract"
	"notifhub-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NotificationTemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationTemplateRepository(db *gorm.DB) contract.NotificationTemplateRepository {
	return &NotificationTemplateRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationTemplateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NotificationTemplateRepositoryImpl) Create(ctx context.Context, template *entity.NotificationTemplate) error {
	m := r.mapper.TemplateToModel(template)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*template = *r.mapper.TemplateToEntity(m)
	return nil
}

func (r *NotificationTemplateRepositoryImpl) Update(ctx context.Context, template *entity.NotificationTemplate) error {
	m := r.mapper.TemplateToModel(template)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*template = *r.mapper.TemplateToEntity(m)
	return nil
}

func (r *NotificationTemplateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotificationTemplate, error) {
	var m model.NotificationTemplate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.TemplateToEntity(&m), nil
}

func (r *NotificationTemplateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotificationTemplate, error) {
	var models []*model.NotificationTemplate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	templates := make([]*entity.NotificationTemplate, len(models))
	for i, m := range models {
		templates[i] = r.mapper.TemplateToEntity(m)
	}
	return templates, nil
}

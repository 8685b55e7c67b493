package implementation

import (
	"context"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/mapper"
	"notifhub-be/internal/model"
	"notifhub-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationPreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationPreferenceRepository(db *gorm.DB) contract.NotificationPreferenceRepository {
	return &NotificationPreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationPreferenceRepositoryImpl) Upsert(ctx context.Context, preference *entity.NotificationPreference) error {
	m := r.mapper.PreferenceToModel(preference)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO notification_preferences (id, user_id, type, email_enabled, sms_enabled, push_enabled, in_app_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (user_id, type)
		DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			sms_enabled = EXCLUDED.sms_enabled,
			push_enabled = EXCLUDED.push_enabled,
			in_app_enabled = EXCLUDED.in_app_enabled,
			updated_at = NOW()
	`, m.ID, m.UserID, m.Type, m.EmailEnabled, m.SMSEnabled, m.PushEnabled, m.InAppEnabled).Error
}

func (r *NotificationPreferenceRepositoryImpl) FindByUserAndType(ctx context.Context, userId uuid.UUID, preferenceType string) ([]*entity.NotificationPreference, error) {
	var models []*model.NotificationPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userId, preferenceType).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.PreferencesToEntities(models), nil
}

func (r *NotificationPreferenceRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.NotificationPreference, error) {
	var models []*model.NotificationPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("type ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.PreferencesToEntities(models), nil
}

package implementation

import (
	"context"
	"errors"
	"time"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/mapper"
	"notifhub-be/internal/model"
	"notifhub-be/internal/repository/contract"
	"notifhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultNotificationLimit = 10

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entity.Notification) error {
	m := r.mapper.ToModel(notification)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notification = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotificationRepositoryImpl) Update(ctx context.Context, notification *entity.Notification) error {
	m := r.mapper.ToModel(notification)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*notification = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotificationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notification, error) {
	var m model.Notification
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *NotificationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error) {
	var models []*model.Notification
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *NotificationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Notification{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepositoryImpl) FindByUser(ctx context.Context, userId uuid.UUID, filter contract.NotificationFilter) ([]*entity.Notification, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	db := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userId)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Notification
	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return r.mapper.ToEntities(models), total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ?", userId).
		Where("status NOT IN ?", []string{string(entity.NotificationStatusRead), string(entity.NotificationStatusCancelled)}).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) GetStats(ctx context.Context, userId uuid.UUID) (*contract.NotificationStats, error) {
	stats := &contract.NotificationStats{
		ByStatus: map[string]int64{},
		ByType:   map[string]int64{},
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Select("status AS key, COUNT(*) AS count").
		Where("user_id = ?", userId).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
		stats.Total += b.Count
	}

	var byType []bucket
	err = r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Select("type AS key, COUNT(*) AS count").
		Where("user_id = ?", userId).
		Group("type").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	unread, err := r.CountUnread(ctx, userId)
	if err != nil {
		return nil, err
	}
	stats.Unread = unread

	return stats, nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ?", userId).
		Where("status NOT IN ?", []string{string(entity.NotificationStatusRead), string(entity.NotificationStatusCancelled)}).
		Updates(map[string]interface{}{
			"status":  string(entity.NotificationStatusRead),
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) FindExpired(ctx context.Context, now time.Time) ([]*entity.Notification, error) {
	return r.FindAll(ctx, specification.ExpiredBefore{At: now})
}

func (r *NotificationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

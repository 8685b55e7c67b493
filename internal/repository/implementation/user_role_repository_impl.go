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

type UserRoleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserRoleMapper
}

func NewUserRoleRepository(db *gorm.DB) contract.UserRoleRepository {
	return &UserRoleRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserRoleMapper(),
	}
}

func (r *UserRoleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRoleRepositoryImpl) Create(ctx context.Context, role *entity.UserRole) error {
	m := r.mapper.ToModel(role)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*role = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRoleRepositoryImpl) Update(ctx context.Context, role *entity.UserRole) error {
	m := r.mapper.ToModel(role)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*role = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRoleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserRole{}).Error
}

func (r *UserRoleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserRole, error) {
	var m model.UserRole
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *UserRoleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserRole, error) {
	var models []*model.UserRole
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Order("level DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *UserRoleRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.UserRole, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []*model.UserRole
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// Assignments

func (r *UserRoleRepositoryImpl) CreateAssignment(ctx context.Context, assignment *entity.UserRoleAssignment) error {
	m := r.mapper.AssignmentToModel(assignment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*assignment = *r.mapper.AssignmentToEntity(m)
	return nil
}

func (r *UserRoleRepositoryImpl) RevokeAssignment(ctx context.Context, userId, roleId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.UserRoleAssignment{}).
		Where("user_id = ? AND role_id = ? AND is_active = ?", userId, roleId, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *UserRoleRepositoryImpl) FindAssignments(ctx context.Context, specs ...specification.Specification) ([]*entity.UserRoleAssignment, error) {
	var models []*model.UserRoleAssignment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.AssignmentsToEntities(models), nil
}

func (r *UserRoleRepositoryImpl) CountActiveAssignments(ctx context.Context, roleId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserRoleAssignment{}).
		Where("role_id = ? AND is_active = ?", roleId, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&count).Error
	return count, err
}

package mapper

import (
	"notifhub-be/internal/entity"
	"notifhub-be/internal/model"
)

type UserRoleMapper struct{}

func NewUserRoleMapper() *UserRoleMapper {
	return &UserRoleMapper{}
}

func (m *UserRoleMapper) ToEntity(r *model.UserRole) *entity.UserRole {
	if r == nil {
		return nil
	}
	return &entity.UserRole{
		Id:          r.Id,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Level:       r.Level,
		Permissions: r.Permissions,
		IsSystem:    r.IsSystem,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (m *UserRoleMapper) ToModel(r *entity.UserRole) *model.UserRole {
	if r == nil {
		return nil
	}
	return &model.UserRole{
		Id:          r.Id,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Level:       r.Level,
		Permissions: r.Permissions,
		IsSystem:    r.IsSystem,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (m *UserRoleMapper) ToEntities(roles []*model.UserRole) []*entity.UserRole {
	entities := make([]*entity.UserRole, len(roles))
	for i, r := range roles {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *UserRoleMapper) AssignmentToEntity(a *model.UserRoleAssignment) *entity.UserRoleAssignment {
	if a == nil {
		return nil
	}
	return &entity.UserRoleAssignment{
		Id:         a.Id,
		UserId:     a.UserId,
		RoleId:     a.RoleId,
		AssignedBy: a.AssignedBy,
		ExpiresAt:  a.ExpiresAt,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *UserRoleMapper) AssignmentToModel(a *entity.UserRoleAssignment) *model.UserRoleAssignment {
	if a == nil {
		return nil
	}
	return &model.UserRoleAssignment{
		Id:         a.Id,
		UserId:     a.UserId,
		RoleId:     a.RoleId,
		AssignedBy: a.AssignedBy,
		ExpiresAt:  a.ExpiresAt,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *UserRoleMapper) AssignmentsToEntities(assignments []*model.UserRoleAssignment) []*entity.UserRoleAssignment {
	entities := make([]*entity.UserRoleAssignment, len(assignments))
	for i, a := range assignments {
		entities[i] = m.AssignmentToEntity(a)
	}
	return entities
}

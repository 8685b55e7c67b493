package service

import (
	"context"
	"strings"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserRoleService interface {
	CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	GetRoles(ctx context.Context) ([]dto.RoleResponse, error)
	GetRole(ctx context.Context, roleId uuid.UUID) (*dto.RoleResponse, error)
	UpdateRole(ctx context.Context, roleId uuid.UUID, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	DeleteRole(ctx context.Context, roleId uuid.UUID) error

	AssignRole(ctx context.Context, userId uuid.UUID, req *dto.AssignRoleRequest, assignedBy uuid.UUID) (*dto.RoleAssignmentResponse, error)
	RevokeRole(ctx context.Context, userId, roleId uuid.UUID) error
	GetUserRoles(ctx context.Context, userId uuid.UUID) (*dto.UserRolesResponse, error)

	HasPermission(ctx context.Context, userId uuid.UUID, permission string) (bool, error)
	HighestRole(ctx context.Context, userId uuid.UUID) (*entity.UserRole, error)
}

type userRoleService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserRoleService(uowFactory unitofwork.RepositoryFactory) IUserRoleService {
	return &userRoleService{
		uowFactory: uowFactory,
	}
}

func (s *userRoleService) CreateRole(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRoleRepository()

	name := strings.ToLower(strings.TrimSpace(req.Name))

	existing, err := repo.FindOne(ctx, specification.ByRoleName{Name: name})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("role name already exists")
	}

	now := time.Now()
	role := &entity.UserRole{
		Id:          uuid.New(),
		Name:        name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Level:       req.Level,
		Permissions: req.Permissions,
		IsSystem:    false,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := repo.Create(ctx, role); err != nil {
		return nil, apperror.Internal(err)
	}

	return toRoleResponse(role), nil
}

func (s *userRoleService) GetRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	roles, err := uow.UserRoleRepository().FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, *toRoleResponse(role))
	}
	return responses, nil
}

func (s *userRoleService) GetRole(ctx context.Context, roleId uuid.UUID) (*dto.RoleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	role, err := uow.UserRoleRepository().FindOne(ctx, specification.ByID{ID: roleId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if role == nil {
		return nil, apperror.NotFound("Role not found")
	}
	return toRoleResponse(role), nil
}

func (s *userRoleService) UpdateRole(ctx context.Context, roleId uuid.UUID, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRoleRepository()

	role, err := repo.FindOne(ctx, specification.ByID{ID: roleId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if role == nil {
		return nil, apperror.NotFound("Role not found")
	}

	if req.DisplayName != nil {
		role.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Level != nil {
		role.Level = *req.Level
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}
	if req.IsActive != nil {
		if *req.IsActive {
			role.Activate()
		} else if err := role.Deactivate(); err != nil {
			return nil, err
		}
	}
	role.UpdatedAt = time.Now()

	if err := repo.Update(ctx, role); err != nil {
		return nil, apperror.Internal(err)
	}
	return toRoleResponse(role), nil
}

func (s *userRoleService) DeleteRole(ctx context.Context, roleId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRoleRepository()

	role, err := repo.FindOne(ctx, specification.ByID{ID: roleId})
	if err != nil {
		return apperror.Internal(err)
	}
	if role == nil {
		return apperror.NotFound("Role not found")
	}
	if role.IsSystem {
		return apperror.Forbidden("system roles cannot be deleted")
	}

	active, err := repo.CountActiveAssignments(ctx, roleId)
	if err != nil {
		return apperror.Internal(err)
	}
	if active > 0 {
		return apperror.Conflict("role still has active assignments")
	}

	if err := repo.Delete(ctx, roleId); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *userRoleService) AssignRole(ctx context.Context, userId uuid.UUID, req *dto.AssignRoleRequest, assignedBy uuid.UUID) (*dto.RoleAssignmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRoleRepository()

	role, err := repo.FindOne(ctx, specification.ByID{ID: req.RoleId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if role == nil {
		return nil, apperror.NotFound("Role not found")
	}
	if !role.IsActive {
		return nil, apperror.Conflict("cannot assign an inactive role")
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, apperror.Validation("expiry must be in the future")
	}

	existing, err := repo.FindAssignments(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByRoleID{RoleID: req.RoleId},
		specification.ValidAssignments{At: time.Now()},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(existing) > 0 {
		return nil, apperror.Conflict("role already assigned to this user")
	}

	// Expired assignments still carry is_active=true; retire them so the
	// unique index accepts the new row.
	if _, err := repo.RevokeAssignment(ctx, userId, req.RoleId); err != nil {
		return nil, apperror.Internal(err)
	}

	assignment := &entity.UserRoleAssignment{
		Id:         uuid.New(),
		UserId:     userId,
		RoleId:     req.RoleId,
		AssignedBy: &assignedBy,
		ExpiresAt:  req.ExpiresAt,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}

	if err := repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, apperror.Internal(err)
	}

	response := toAssignmentResponse(assignment, role)
	return &response, nil
}

func (s *userRoleService) RevokeRole(ctx context.Context, userId, roleId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	revoked, err := uow.UserRoleRepository().RevokeAssignment(ctx, userId, roleId)
	if err != nil {
		return apperror.Internal(err)
	}
	if revoked == 0 {
		return apperror.NotFound("Role assignment not found")
	}
	return nil
}

func (s *userRoleService) GetUserRoles(ctx context.Context, userId uuid.UUID) (*dto.UserRolesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	assignments, roles, err := s.validAssignmentsWithRoles(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RoleAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, toAssignmentResponse(assignment, roles[assignment.RoleId]))
	}

	return &dto.UserRolesResponse{
		UserId:      userId,
		Assignments: responses,
	}, nil
}

// HasPermission evaluates the effective permission set: the union of every
// active role the user holds through a currently valid assignment.
func (s *userRoleService) HasPermission(ctx context.Context, userId uuid.UUID, permission string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	_, roles, err := s.validAssignmentsWithRoles(ctx, uow, userId)
	if err != nil {
		return false, err
	}

	for _, role := range roles {
		if role != nil && role.IsActive && role.HasPermission(permission) {
			return true, nil
		}
	}
	return false, nil
}

// HighestRole returns the top-ranked active role among the user's valid
// assignments, or nil when the user holds none.
func (s *userRoleService) HighestRole(ctx context.Context, userId uuid.UUID) (*entity.UserRole, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	_, roles, err := s.validAssignmentsWithRoles(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	var highest *entity.UserRole
	for _, role := range roles {
		if role == nil || !role.IsActive {
			continue
		}
		if highest == nil || role.IsHigherLevel(highest) {
			highest = role
		}
	}
	return highest, nil
}

func (s *userRoleService) validAssignmentsWithRoles(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]*entity.UserRoleAssignment, map[uuid.UUID]*entity.UserRole, error) {
	repo := uow.UserRoleRepository()

	assignments, err := repo.FindAssignments(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ValidAssignments{At: time.Now()},
	)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if len(assignments) == 0 {
		return nil, map[uuid.UUID]*entity.UserRole{}, nil
	}

	roleIds := make([]uuid.UUID, 0, len(assignments))
	for _, assignment := range assignments {
		roleIds = append(roleIds, assignment.RoleId)
	}

	roles, err := repo.FindByIDs(ctx, roleIds)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}

	byId := make(map[uuid.UUID]*entity.UserRole, len(roles))
	for _, role := range roles {
		byId[role.Id] = role
	}
	return assignments, byId, nil
}

func toRoleResponse(role *entity.UserRole) *dto.RoleResponse {
	return &dto.RoleResponse{
		Id:          role.Id,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
		Level:       role.Level,
		Permissions: role.Permissions,
		IsSystem:    role.IsSystem,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func toAssignmentResponse(assignment *entity.UserRoleAssignment, role *entity.UserRole) dto.RoleAssignmentResponse {
	response := dto.RoleAssignmentResponse{
		Id:         assignment.Id,
		UserId:     assignment.UserId,
		AssignedBy: assignment.AssignedBy,
		ExpiresAt:  assignment.ExpiresAt,
		IsActive:   assignment.IsActive,
		CreatedAt:  assignment.CreatedAt,
	}
	if role != nil {
		response.Role = toRoleResponse(role)
	}
	return response
}

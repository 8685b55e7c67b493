package contract

import (
	"context"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRoleRepository interface {
	Create(ctx context.Context, role *entity.UserRole) error
	Update(ctx context.Context, role *entity.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserRole, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserRole, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.UserRole, error)

	// Assignments
	CreateAssignment(ctx context.Context, assignment *entity.UserRoleAssignment) error
	RevokeAssignment(ctx context.Context, userId, roleId uuid.UUID) (int64, error)
	FindAssignments(ctx context.Context, specs ...specification.Specification) ([]*entity.UserRoleAssignment, error)
	CountActiveAssignments(ctx context.Context, roleId uuid.UUID) (int64, error)
}

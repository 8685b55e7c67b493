package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"notifhub-be/internal/pkg/apperror"
)

// Reserved system role names seeded at install time. System roles cannot be
// deactivated or deleted.
const (
	RoleNameAdmin     = "admin"
	RoleNameModerator = "moderator"
	RoleNameUser      = "user"
)

// UserRole is a named permission set with a numeric rank. Higher Level
// outranks lower.
type UserRole struct {
	Id          uuid.UUID
	Name        string
	DisplayName string
	Description string
	Level       int
	Permissions []string
	IsSystem    bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func normalizePermission(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}

// HasPermission matches case-insensitively and ignores surrounding
// whitespace on both sides.
func (r *UserRole) HasPermission(permission string) bool {
	wanted := normalizePermission(permission)
	if wanted == "" {
		return false
	}
	for _, granted := range r.Permissions {
		if normalizePermission(granted) == wanted {
			return true
		}
	}
	return false
}

func (r *UserRole) HasAnyPermission(permissions ...string) bool {
	for _, permission := range permissions {
		if r.HasPermission(permission) {
			return true
		}
	}
	return false
}

func (r *UserRole) HasAllPermissions(permissions ...string) bool {
	for _, permission := range permissions {
		if !r.HasPermission(permission) {
			return false
		}
	}
	return true
}

func (r *UserRole) IsHigherLevel(other *UserRole) bool {
	return other != nil && r.Level > other.Level
}

func (r *UserRole) IsSameLevel(other *UserRole) bool {
	return other != nil && r.Level == other.Level
}

func (r *UserRole) IsLowerLevel(other *UserRole) bool {
	return other != nil && r.Level < other.Level
}

func (r *UserRole) Activate() {
	r.IsActive = true
}

// Deactivate rejects system roles; they must always stay assignable.
func (r *UserRole) Deactivate() error {
	if r.IsSystem {
		return apperror.Forbidden("system roles cannot be deactivated")
	}
	r.IsActive = false
	return nil
}

// UserRoleAssignment binds a user to a role, optionally until ExpiresAt and
// recording who granted it.
type UserRoleAssignment struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	RoleId     uuid.UUID
	AssignedBy *uuid.UUID
	ExpiresAt  *time.Time
	IsActive   bool
	CreatedAt  time.Time
}

func (a *UserRoleAssignment) IsExpired() bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(time.Now())
}

func (a *UserRoleAssignment) IsValid() bool {
	return a.IsActive && !a.IsExpired()
}

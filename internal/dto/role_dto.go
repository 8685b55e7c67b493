package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=50"`
	DisplayName string   `json:"display_name" validate:"required"`
	Description string   `json:"description"`
	Level       int      `json:"level" validate:"gte=0"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	DisplayName *string  `json:"display_name"`
	Description *string  `json:"description"`
	Level       *int     `json:"level" validate:"omitempty,gte=0"`
	Permissions []string `json:"permissions"`
	IsActive    *bool    `json:"is_active"`
}

type RoleResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Level       int       `json:"level"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"is_system"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignRoleRequest struct {
	RoleId    uuid.UUID  `json:"role_id" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type RoleAssignmentResponse struct {
	Id         uuid.UUID  `json:"id"`
	UserId     uuid.UUID  `json:"user_id"`
	Role       *RoleResponse `json:"role,omitempty"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

type UserRolesResponse struct {
	UserId      uuid.UUID                `json:"user_id"`
	Assignments []RoleAssignmentResponse `json:"assignments"`
}

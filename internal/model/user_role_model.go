package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserRole struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string                      `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName string                      `gorm:"type:varchar(100);not null"`
	Description string                      `gorm:"type:text"`
	Level       int                         `gorm:"not null;default:0"`
	Permissions datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsSystem    bool                        `gorm:"default:false"`
	IsActive    bool                        `gorm:"default:true"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type UserRoleAssignment struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_role_assignments_user"`
	RoleId     uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_role_assignments_role"`
	AssignedBy *uuid.UUID `gorm:"type:uuid"`
	ExpiresAt  *time.Time
	IsActive   bool      `gorm:"default:true"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (UserRoleAssignment) TableName() string {
	return "user_role_assignments"
}

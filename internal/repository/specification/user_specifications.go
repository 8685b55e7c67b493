package specification

import (
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}

// Role / Assignment Specs

type ByRoleName struct {
	Name string
}

func (s ByRoleName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

type ByRoleID struct {
	RoleID uuid.UUID
}

func (s ByRoleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role_id = ?", s.RoleID)
}

// ValidAssignments keeps assignments that are active and not yet expired at
// the given instant.
type ValidAssignments struct {
	At time.Time
}

func (s ValidAssignments) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND (expires_at IS NULL OR expires_at > ?)", true, s.At)
}

// Token Specs

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}

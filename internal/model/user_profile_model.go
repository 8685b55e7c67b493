package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserProfile struct {
	UserId        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FullName      string         `gorm:"type:varchar(255)"`
	Bio           string         `gorm:"type:text"`
	Phone         string         `gorm:"type:varchar(20)"`
	PhoneVerified bool           `gorm:"default:false"`
	Location      string         `gorm:"type:varchar(100)"`
	Website       string         `gorm:"type:varchar(255)"`
	AvatarURL     string         `gorm:"type:text"`
	SocialLinks   datatypes.JSON `gorm:"type:jsonb"`
	Preferences   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

type UserActivity struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_activities_user_created,priority:1"`
	Action    string         `gorm:"type:varchar(100);not null"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_user_activities_user_created,priority:2"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}

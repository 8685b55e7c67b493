package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	UserId        uuid.UUID              `json:"user_id"`
	FullName      string                 `json:"full_name"`
	Bio           string                 `json:"bio,omitempty"`
	Phone         string                 `json:"phone,omitempty"`
	PhoneVerified bool                   `json:"phone_verified"`
	Location      string                 `json:"location,omitempty"`
	Website       string                 `json:"website,omitempty"`
	AvatarURL     string                 `json:"avatar_url,omitempty"`
	SocialLinks   map[string]string      `json:"social_links,omitempty"`
	Preferences   map[string]interface{} `json:"preferences,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// UpdateProfileRequest uses pointers so omitted fields keep their stored
// value while empty strings clear it.
type UpdateProfileRequest struct {
	FullName    *string                `json:"full_name" validate:"omitempty,min=3"`
	Bio         *string                `json:"bio" validate:"omitempty,max=500"`
	Phone       *string                `json:"phone" validate:"omitempty,e164"`
	Location    *string                `json:"location"`
	Website     *string                `json:"website" validate:"omitempty,url"`
	AvatarURL   *string                `json:"avatar_url" validate:"omitempty,url"`
	SocialLinks map[string]string      `json:"social_links"`
	Preferences map[string]interface{} `json:"preferences"`
}

type UserActivityResponse struct {
	Id        uuid.UUID              `json:"id"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type UserActivityListResponse struct {
	Activities []UserActivityResponse `json:"activities"`
	Total      int64                  `json:"total"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
}

type PermissionCheckResponse struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// PublishActivityMessage is the payload queued for the activity recorder.
type PublishActivityMessage struct {
	UserId     uuid.UUID              `json:"user_id"`
	Action     string                 `json:"action"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

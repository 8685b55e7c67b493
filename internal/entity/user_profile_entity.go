package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	UserId        uuid.UUID
	FullName      string
	Bio           string
	Phone         string
	PhoneVerified bool
	Location      string
	Website       string
	AvatarURL     string
	SocialLinks   map[string]string
	Preferences   map[string]interface{}
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate carries the fields a caller wants to change. Nil pointers
// leave the current value untouched.
type ProfileUpdate struct {
	FullName    *string
	Bio         *string
	Phone       *string
	Location    *string
	Website     *string
	AvatarURL   *string
	SocialLinks map[string]string
	Preferences map[string]interface{}
}

// FieldChange records one field transition for the activity log.
type FieldChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}

// Apply mutates the profile in place and returns the diff against the prior
// values. Changing the phone number resets PhoneVerified until the new
// number is verified again.
func (p *UserProfile) Apply(update ProfileUpdate) []FieldChange {
	var changes []FieldChange

	setString := func(field string, target *string, value *string) {
		if value == nil || *value == *target {
			return
		}
		changes = append(changes, FieldChange{Field: field, Old: *target, New: *value})
		*target = *value
	}

	setString("full_name", &p.FullName, update.FullName)
	setString("bio", &p.Bio, update.Bio)
	setString("location", &p.Location, update.Location)
	setString("website", &p.Website, update.Website)
	setString("avatar_url", &p.AvatarURL, update.AvatarURL)

	if update.Phone != nil && *update.Phone != p.Phone {
		changes = append(changes, FieldChange{Field: "phone", Old: p.Phone, New: *update.Phone})
		p.Phone = *update.Phone
		if p.PhoneVerified {
			changes = append(changes, FieldChange{Field: "phone_verified", Old: true, New: false})
		}
		p.PhoneVerified = false
	}

	if update.SocialLinks != nil {
		changes = append(changes, FieldChange{Field: "social_links", Old: p.SocialLinks, New: update.SocialLinks})
		p.SocialLinks = update.SocialLinks
	}
	if update.Preferences != nil {
		changes = append(changes, FieldChange{Field: "preferences", Old: p.Preferences, New: update.Preferences})
		p.Preferences = update.Preferences
	}

	return changes
}

// UserActivity is one audit entry, written asynchronously after profile and
// role mutations.
type UserActivity struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Action    string
	Details   map[string]interface{}
	CreatedAt time.Time
}

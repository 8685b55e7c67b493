package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"notifhub-be/internal/entity"
	"notifhub-be/internal/model"
)

type UserProfileMapper struct{}

func NewUserProfileMapper() *UserProfileMapper {
	return &UserProfileMapper{}
}

func (m *UserProfileMapper) ToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	links := map[string]string{}
	if len(p.SocialLinks) > 0 {
		_ = json.Unmarshal(p.SocialLinks, &links)
	}
	return &entity.UserProfile{
		UserId:        p.UserId,
		FullName:      p.FullName,
		Bio:           p.Bio,
		Phone:         p.Phone,
		PhoneVerified: p.PhoneVerified,
		Location:      p.Location,
		Website:       p.Website,
		AvatarURL:     p.AvatarURL,
		SocialLinks:   links,
		Preferences:   jsonToMap(p.Preferences),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *UserProfileMapper) ToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	var links datatypes.JSON
	if p.SocialLinks != nil {
		if b, err := json.Marshal(p.SocialLinks); err == nil {
			links = datatypes.JSON(b)
		}
	}
	return &model.UserProfile{
		UserId:        p.UserId,
		FullName:      p.FullName,
		Bio:           p.Bio,
		Phone:         p.Phone,
		PhoneVerified: p.PhoneVerified,
		Location:      p.Location,
		Website:       p.Website,
		AvatarURL:     p.AvatarURL,
		SocialLinks:   links,
		Preferences:   mapToJSON(p.Preferences),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (m *UserProfileMapper) ActivityToEntity(a *model.UserActivity) *entity.UserActivity {
	if a == nil {
		return nil
	}
	return &entity.UserActivity{
		Id:        a.Id,
		UserId:    a.UserId,
		Action:    a.Action,
		Details:   jsonToMap(a.Details),
		CreatedAt: a.CreatedAt,
	}
}

func (m *UserProfileMapper) ActivityToModel(a *entity.UserActivity) *model.UserActivity {
	if a == nil {
		return nil
	}
	return &model.UserActivity{
		Id:        a.Id,
		UserId:    a.UserId,
		Action:    a.Action,
		Details:   mapToJSON(a.Details),
		CreatedAt: a.CreatedAt,
	}
}

func (m *UserProfileMapper) ActivitiesToEntities(activities []*model.UserActivity) []*entity.UserActivity {
	entities := make([]*entity.UserActivity, len(activities))
	for i, a := range activities {
		entities[i] = m.ActivityToEntity(a)
	}
	return entities
}

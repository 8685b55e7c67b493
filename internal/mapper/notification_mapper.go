package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/model"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	return &entity.Notification{
		Id:           n.ID,
		UserId:       n.UserID,
		Type:         entity.NotificationType(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		Channels:     stringsToChannels(n.Channels),
		Priority:     entity.NotificationPriority(n.Priority),
		TemplateId:   n.TemplateID,
		Status:       entity.NotificationStatus(n.Status),
		ScheduledFor: n.ScheduledFor,
		SentAt:       n.SentAt,
		DeliveredAt:  n.DeliveredAt,
		ReadAt:       n.ReadAt,
		ExpiresAt:    n.ExpiresAt,
		Metadata:     jsonToMap(n.Metadata),
		DeliveryData: jsonToMap(n.DeliveryData),
		RetryCount:   n.RetryCount,
		MaxRetries:   n.MaxRetries,
		LastError:    n.LastError,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}
	return &model.Notification{
		ID:           n.Id,
		UserID:       n.UserId,
		Type:         string(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		Channels:     channelsToStrings(n.Channels),
		Priority:     string(n.Priority),
		TemplateID:   n.TemplateId,
		Status:       string(n.Status),
		ScheduledFor: n.ScheduledFor,
		SentAt:       n.SentAt,
		DeliveredAt:  n.DeliveredAt,
		ReadAt:       n.ReadAt,
		ExpiresAt:    n.ExpiresAt,
		Metadata:     mapToJSON(n.Metadata),
		DeliveryData: mapToJSON(n.DeliveryData),
		RetryCount:   n.RetryCount,
		MaxRetries:   n.MaxRetries,
		LastError:    n.LastError,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *NotificationMapper) ToEntities(notifications []*model.Notification) []*entity.Notification {
	entities := make([]*entity.Notification, len(notifications))
	for i, n := range notifications {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

// ToResponse flattens the entity into the wire shape. Every scalar field
// survives the round trip so clients can rely on it as a full snapshot.
func (m *NotificationMapper) ToResponse(n *entity.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}
	var templateId *string
	if n.TemplateId != nil {
		id := n.TemplateId.String()
		templateId = &id
	}
	channels := make([]string, len(n.Channels))
	for i, channel := range n.Channels {
		channels[i] = string(channel)
	}
	return &dto.NotificationResponse{
		Id:           n.Id.String(),
		UserId:       n.UserId.String(),
		Type:         string(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		Channels:     channels,
		Priority:     string(n.Priority),
		TemplateId:   templateId,
		Status:       string(n.Status),
		ScheduledFor: n.ScheduledFor,
		SentAt:       n.SentAt,
		DeliveredAt:  n.DeliveredAt,
		ReadAt:       n.ReadAt,
		ExpiresAt:    n.ExpiresAt,
		Metadata:     n.Metadata,
		DeliveryData: n.DeliveryData,
		RetryCount:   n.RetryCount,
		MaxRetries:   n.MaxRetries,
		LastError:    n.LastError,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func (m *NotificationMapper) ToResponses(notifications []*entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = *m.ToResponse(n)
	}
	return responses
}

func (m *NotificationMapper) TemplateToEntity(t *model.NotificationTemplate) *entity.NotificationTemplate {
	if t == nil {
		return nil
	}
	variables := map[string]string{}
	if len(t.Variables) > 0 {
		_ = json.Unmarshal(t.Variables, &variables)
	}
	return &entity.NotificationTemplate{
		Id:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Type:      entity.NotificationType(t.Type),
		Subject:   t.Subject,
		Body:      t.Body,
		Channels:  stringsToChannels(t.Channels),
		Variables: variables,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *NotificationMapper) TemplateToModel(t *entity.NotificationTemplate) *model.NotificationTemplate {
	if t == nil {
		return nil
	}
	var variables datatypes.JSON
	if t.Variables != nil {
		if b, err := json.Marshal(t.Variables); err == nil {
			variables = datatypes.JSON(b)
		}
	}
	return &model.NotificationTemplate{
		ID:        t.Id,
		Code:      t.Code,
		Name:      t.Name,
		Type:      string(t.Type),
		Subject:   t.Subject,
		Body:      t.Body,
		Channels:  channelsToStrings(t.Channels),
		Variables: variables,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *NotificationMapper) PreferenceToEntity(p *model.NotificationPreference) *entity.NotificationPreference {
	if p == nil {
		return nil
	}
	return &entity.NotificationPreference{
		Id:           p.ID,
		UserId:       p.UserID,
		Type:         p.Type,
		EmailEnabled: p.EmailEnabled,
		SMSEnabled:   p.SMSEnabled,
		PushEnabled:  p.PushEnabled,
		InAppEnabled: p.InAppEnabled,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *NotificationMapper) PreferenceToModel(p *entity.NotificationPreference) *model.NotificationPreference {
	if p == nil {
		return nil
	}
	return &model.NotificationPreference{
		ID:           p.Id,
		UserID:       p.UserId,
		Type:         p.Type,
		EmailEnabled: p.EmailEnabled,
		SMSEnabled:   p.SMSEnabled,
		PushEnabled:  p.PushEnabled,
		InAppEnabled: p.InAppEnabled,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *NotificationMapper) PreferencesToEntities(preferences []*model.NotificationPreference) []*entity.NotificationPreference {
	entities := make([]*entity.NotificationPreference, len(preferences))
	for i, p := range preferences {
		entities[i] = m.PreferenceToEntity(p)
	}
	return entities
}

func stringsToChannels(values []string) []entity.NotificationChannel {
	channels := make([]entity.NotificationChannel, len(values))
	for i, v := range values {
		channels[i] = entity.NotificationChannel(v)
	}
	return channels
}

func channelsToStrings(channels []entity.NotificationChannel) datatypes.JSONSlice[string] {
	values := make(datatypes.JSONSlice[string], len(channels))
	for i, c := range channels {
		values[i] = string(c)
	}
	return values
}

func jsonToMap(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func mapToJSON(data map[string]interface{}) datatypes.JSON {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

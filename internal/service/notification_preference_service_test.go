package service

import (
	"context"
	"errors"
	"testing"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestGetPreferences(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.preferences.all = []*entity.NotificationPreference{
		{Type: "general", EmailEnabled: true, SMSEnabled: false, PushEnabled: true, InAppEnabled: true},
		{Type: "warning", EmailEnabled: false, SMSEnabled: false, PushEnabled: false, InAppEnabled: true},
	}

	svc := NewNotificationPreferenceService(factory)
	res, err := svc.GetPreferences(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "general", res[0].Type)
	assert.False(t, res[0].SMSEnabled)
	assert.Equal(t, "warning", res[1].Type)
	assert.False(t, res[1].EmailEnabled)
}

func TestUpsertPreferenceFreshRow(t *testing.T) {
	factory := newFakeFactory()
	svc := NewNotificationPreferenceService(factory)
	userId := uuid.New()

	res, err := svc.UpsertPreference(context.Background(), userId, &dto.NotificationPreferenceRequest{
		Type:         "warning",
		EmailEnabled: boolPtr(false),
	})

	assert.NoError(t, err)
	// Omitted flags start enabled on a fresh row.
	assert.False(t, res.EmailEnabled)
	assert.True(t, res.SMSEnabled)
	assert.True(t, res.PushEnabled)
	assert.True(t, res.InAppEnabled)

	assert.Len(t, factory.uow.preferences.upserted, 1)
	stored := factory.uow.preferences.upserted[0]
	assert.Equal(t, userId, stored.UserId)
	assert.Equal(t, "warning", stored.Type)
}

func TestUpsertPreferenceMergesExisting(t *testing.T) {
	factory := newFakeFactory()
	existing := &entity.NotificationPreference{
		Id:           uuid.New(),
		Type:         "warning",
		EmailEnabled: false,
		SMSEnabled:   false,
		PushEnabled:  true,
		InAppEnabled: true,
	}
	factory.uow.preferences.byType = map[string][]*entity.NotificationPreference{
		"warning": {existing},
	}

	svc := NewNotificationPreferenceService(factory)
	res, err := svc.UpsertPreference(context.Background(), uuid.New(), &dto.NotificationPreferenceRequest{
		Type:        "warning",
		PushEnabled: boolPtr(false),
	})

	assert.NoError(t, err)
	// Only the provided flag changes; stored values survive.
	assert.False(t, res.EmailEnabled)
	assert.False(t, res.SMSEnabled)
	assert.False(t, res.PushEnabled)
	assert.True(t, res.InAppEnabled)

	stored := factory.uow.preferences.upserted[0]
	assert.Equal(t, existing.Id, stored.Id)
}

func TestUpsertPreferenceRepositoryError(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.preferences.err = errors.New("deadlock")

	svc := NewNotificationPreferenceService(factory)
	_, err := svc.UpsertPreference(context.Background(), uuid.New(), &dto.NotificationPreferenceRequest{
		Type: "general",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInternal))
}

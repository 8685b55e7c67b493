package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestCleanupDefaultsRetention(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.notifications.deleted = 12
	svc := NewNotificationMaintenanceService(factory, nopLogger{})

	res, err := svc.Cleanup(context.Background(), &dto.CleanupNotificationsRequest{})

	assert.NoError(t, err)
	assert.Equal(t, int64(12), res.Deleted)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -90), factory.uow.notifications.lastCutoff, time.Minute)
	assert.Zero(t, factory.uow.notifications.deletedExpiredCalls)
}

func TestCleanupHonorsOlderThanDays(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.notifications.deleted = 4
	svc := NewNotificationMaintenanceService(factory, nopLogger{})

	res, err := svc.Cleanup(context.Background(), &dto.CleanupNotificationsRequest{OlderThanDays: 7})

	assert.NoError(t, err)
	assert.Equal(t, int64(4), res.Deleted)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), factory.uow.notifications.lastCutoff, time.Minute)
}

func TestCleanupExpiredOnly(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.notifications.deleted = 3
	svc := NewNotificationMaintenanceService(factory, nopLogger{})

	res, err := svc.Cleanup(context.Background(), &dto.CleanupNotificationsRequest{ExpiredOnly: true, OlderThanDays: 30})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), res.Deleted)
	assert.Equal(t, 1, factory.uow.notifications.deletedExpiredCalls)
	assert.True(t, factory.uow.notifications.lastCutoff.IsZero())
}

func TestCleanupRepositoryFailure(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.notifications.findErr = errors.New("relation does not exist")
	svc := NewNotificationMaintenanceService(factory, nopLogger{})

	_, err := svc.Cleanup(context.Background(), &dto.CleanupNotificationsRequest{})

	assert.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func storedProfile(userId uuid.UUID) *entity.UserProfile {
	return &entity.UserProfile{
		UserId:   userId,
		FullName: "Ada Lovelace",
		Bio:      "Analyst",
		Phone:    "+442071234567",
	}
}

func TestGetProfileProvisionsOnFirstRead(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.users.user = &entity.User{Id: userId, FullName: "Ada Lovelace"}
	svc := NewUserService(factory, &fakePublisher{}, nil)

	res, err := svc.GetProfile(context.Background(), userId)

	assert.NoError(t, err)
	assert.Equal(t, userId, res.UserId)
	assert.Equal(t, "Ada Lovelace", res.FullName)
	// The empty profile was persisted so the next read finds it.
	assert.Len(t, factory.uow.profiles.upserted, 1)
}

func TestGetProfileReturnsStoredProfile(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.profiles.profile = storedProfile(userId)
	svc := NewUserService(factory, &fakePublisher{}, nil)

	res, err := svc.GetProfile(context.Background(), userId)

	assert.NoError(t, err)
	assert.Equal(t, "Analyst", res.Bio)
	assert.Empty(t, factory.uow.profiles.upserted)
}

func TestUpdateProfilePersistsAndQueuesAudit(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.profiles.profile = storedProfile(userId)
	queue := &fakePublisher{}
	svc := NewUserService(factory, queue, nil)

	bio := "Mathematician"
	res, err := svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{Bio: &bio})

	assert.NoError(t, err)
	assert.Equal(t, "Mathematician", res.Bio)
	assert.Len(t, factory.uow.profiles.upserted, 1)

	assert.Len(t, queue.published, 1)
	var msg dto.PublishActivityMessage
	assert.NoError(t, json.Unmarshal(queue.published[0], &msg))
	assert.Equal(t, userId, msg.UserId)
	assert.Equal(t, "profile.updated", msg.Action)
	assert.Contains(t, string(queue.published[0]), `"bio"`)
}

func TestUpdateProfileNoChangesSkipsPersistAndAudit(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.profiles.profile = storedProfile(userId)
	queue := &fakePublisher{}
	svc := NewUserService(factory, queue, nil)

	sameBio := "Analyst"
	res, err := svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{Bio: &sameBio})

	assert.NoError(t, err)
	assert.Equal(t, "Analyst", res.Bio)
	assert.Empty(t, factory.uow.profiles.upserted)
	assert.Empty(t, queue.published)
}

func TestUpdateProfilePhoneChangeDropsVerification(t *testing.T) {
	userId := uuid.New()
	profile := storedProfile(userId)
	profile.PhoneVerified = true
	factory := newFakeFactory()
	factory.uow.profiles.profile = profile
	svc := NewUserService(factory, &fakePublisher{}, nil)

	phone := "+14155550100"
	res, err := svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{Phone: &phone})

	assert.NoError(t, err)
	assert.Equal(t, "+14155550100", res.Phone)
	assert.False(t, res.PhoneVerified)
}

func TestUpdateProfileSurvivesAuditQueueOutage(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.profiles.profile = storedProfile(userId)
	queue := &fakePublisher{err: assert.AnError}
	svc := NewUserService(factory, queue, nil)

	location := "London"
	res, err := svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{Location: &location})

	// The profile write wins; the audit entry is best effort.
	assert.NoError(t, err)
	assert.Equal(t, "London", res.Location)
	assert.Len(t, factory.uow.profiles.upserted, 1)
}

func TestGetActivity(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.profiles.activities = []*entity.UserActivity{
		{Id: uuid.New(), UserId: userId, Action: "profile.updated", CreatedAt: time.Now()},
	}
	factory.uow.profiles.total = 7
	svc := NewUserService(factory, &fakePublisher{}, nil)

	t.Run("defaults applied", func(t *testing.T) {
		res, err := svc.GetActivity(context.Background(), userId, 0, -5)

		assert.NoError(t, err)
		assert.Equal(t, 20, res.Limit)
		assert.Equal(t, 0, res.Offset)
		assert.Equal(t, [2]int{20, 0}, factory.uow.profiles.lastLimitOffset)
		assert.Equal(t, int64(7), res.Total)
		assert.Len(t, res.Activities, 1)
		assert.Equal(t, "profile.updated", res.Activities[0].Action)
	})

	t.Run("explicit paging forwarded", func(t *testing.T) {
		res, err := svc.GetActivity(context.Background(), userId, 5, 10)

		assert.NoError(t, err)
		assert.Equal(t, 5, res.Limit)
		assert.Equal(t, 10, res.Offset)
		assert.Equal(t, [2]int{5, 10}, factory.uow.profiles.lastLimitOffset)
	})
}

func TestProfileRepositoryErrorsSurfaceAsInternal(t *testing.T) {
	userId := uuid.New()
	factory := newFakeFactory()
	factory.uow.profiles.err = assert.AnError
	svc := NewUserService(factory, &fakePublisher{}, nil)

	_, err := svc.GetProfile(context.Background(), userId)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))

	_, err = svc.GetActivity(context.Background(), userId, 10, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))
}

package service

import (
	"context"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INotificationPreferenceService interface {
	GetPreferences(ctx context.Context, userId uuid.UUID) ([]dto.NotificationPreferenceResponse, error)
	UpsertPreference(ctx context.Context, userId uuid.UUID, req *dto.NotificationPreferenceRequest) (*dto.NotificationPreferenceResponse, error)
}

type notificationPreferenceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotificationPreferenceService(uowFactory unitofwork.RepositoryFactory) INotificationPreferenceService {
	return &notificationPreferenceService{
		uowFactory: uowFactory,
	}
}

func (s *notificationPreferenceService) GetPreferences(ctx context.Context, userId uuid.UUID) ([]dto.NotificationPreferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	preferences, err := uow.NotificationPreferenceRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	responses := make([]dto.NotificationPreferenceResponse, 0, len(preferences))
	for _, preference := range preferences {
		responses = append(responses, toPreferenceResponse(preference))
	}
	return responses, nil
}

func (s *notificationPreferenceService) UpsertPreference(ctx context.Context, userId uuid.UUID, req *dto.NotificationPreferenceRequest) (*dto.NotificationPreferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationPreferenceRepository()

	now := time.Now()

	// Start from the stored row when one exists so omitted flags keep their
	// current value; a fresh row starts with every channel enabled.
	preference := &entity.NotificationPreference{
		Id:           uuid.New(),
		UserId:       userId,
		Type:         req.Type,
		EmailEnabled: true,
		SMSEnabled:   true,
		PushEnabled:  true,
		InAppEnabled: true,
		CreatedAt:    now,
	}

	existing, err := repo.FindByUserAndType(ctx, userId, req.Type)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(existing) > 0 {
		preference = existing[0]
	}
	preference.UpdatedAt = now

	if req.EmailEnabled != nil {
		preference.EmailEnabled = *req.EmailEnabled
	}
	if req.SMSEnabled != nil {
		preference.SMSEnabled = *req.SMSEnabled
	}
	if req.PushEnabled != nil {
		preference.PushEnabled = *req.PushEnabled
	}
	if req.InAppEnabled != nil {
		preference.InAppEnabled = *req.InAppEnabled
	}

	if err := repo.Upsert(ctx, preference); err != nil {
		return nil, apperror.Internal(err)
	}

	response := toPreferenceResponse(preference)
	return &response, nil
}

func toPreferenceResponse(preference *entity.NotificationPreference) dto.NotificationPreferenceResponse {
	return dto.NotificationPreferenceResponse{
		Type:         preference.Type,
		EmailEnabled: preference.EmailEnabled,
		SMSEnabled:   preference.SMSEnabled,
		PushEnabled:  preference.PushEnabled,
		InAppEnabled: preference.InAppEnabled,
		UpdatedAt:    preference.UpdatedAt,
	}
}

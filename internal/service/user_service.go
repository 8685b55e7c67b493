package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"

	"notifhub-be/pkg/events"
	pktNats "notifhub-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
)

const defaultActivityLimit = 20

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetActivity(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.UserActivityListResponse, error)
}

type userService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, eventPublisher *pktNats.Publisher) IUserService {
	return &userService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := s.loadOrProvision(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := s.loadOrProvision(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	changes := profile.Apply(entity.ProfileUpdate{
		FullName:    req.FullName,
		Bio:         req.Bio,
		Phone:       req.Phone,
		Location:    req.Location,
		Website:     req.Website,
		AvatarURL:   req.AvatarURL,
		SocialLinks: req.SocialLinks,
		Preferences: req.Preferences,
	})
	if len(changes) == 0 {
		return toProfileResponse(profile), nil
	}

	profile.UpdatedAt = time.Now()
	if err := uow.UserProfileRepository().Upsert(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}

	// Queue the audit entry; the activity recorder persists it off the
	// request path.
	changedFields := make([]string, 0, len(changes))
	for _, change := range changes {
		changedFields = append(changedFields, change.Field)
	}

	msgPayload := dto.PublishActivityMessage{
		UserId:     userId,
		Action:     "profile.updated",
		Details:    map[string]interface{}{"changes": changes},
		OccurredAt: time.Now(),
	}
	if msgJson, err := json.Marshal(msgPayload); err == nil {
		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			fmt.Printf("[WARN] Failed to queue profile activity: %v\n", err)
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "PROFILE_UPDATED",
			Data: map[string]interface{}{
				"user_id": userId,
				"fields":  changedFields,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish PROFILE_UPDATED event: %v\n", err)
		}
	}

	return toProfileResponse(profile), nil
}

func (s *userService) GetActivity(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.UserActivityListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if offset < 0 {
		offset = 0
	}

	activities, total, err := uow.UserProfileRepository().FindActivities(ctx, userId, limit, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	responses := make([]dto.UserActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, dto.UserActivityResponse{
			Id:        activity.Id,
			Action:    activity.Action,
			Details:   activity.Details,
			CreatedAt: activity.CreatedAt,
		})
	}

	return &dto.UserActivityListResponse{
		Activities: responses,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// loadOrProvision returns the stored profile, creating an empty one seeded
// with the account's full name on first read.
func (s *userService) loadOrProvision(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.UserProfile, error) {
	profile, err := uow.UserProfileRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile != nil {
		return profile, nil
	}

	fullName := ""
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user != nil {
		fullName = user.FullName
	}

	now := time.Now()
	profile = &entity.UserProfile{
		UserId:    userId,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.UserProfileRepository().Upsert(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func toProfileResponse(profile *entity.UserProfile) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		UserId:        profile.UserId,
		FullName:      profile.FullName,
		Bio:           profile.Bio,
		Phone:         profile.Phone,
		PhoneVerified: profile.PhoneVerified,
		Location:      profile.Location,
		Website:       profile.Website,
		AvatarURL:     profile.AvatarURL,
		SocialLinks:   profile.SocialLinks,
		Preferences:   profile.Preferences,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
	}
}

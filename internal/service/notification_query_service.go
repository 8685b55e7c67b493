package service

import (
	"context"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/mapper"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/repository/contract"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultListLimit = 10

type INotificationQueryService interface {
	List(ctx context.Context, userId uuid.UUID, req *dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error)
	Stats(ctx context.Context, userId uuid.UUID) (*dto.NotificationStatsResponse, error)
	MarkRead(ctx context.Context, notificationId, recipientId uuid.UUID) (*dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkDelivered(ctx context.Context, notificationId, recipientId uuid.UUID) (*dto.NotificationResponse, error)
}

type notificationQueryService struct {
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.NotificationMapper
}

func NewNotificationQueryService(uowFactory unitofwork.RepositoryFactory) INotificationQueryService {
	return &notificationQueryService{
		uowFactory: uowFactory,
		mapper:     mapper.NewNotificationMapper(),
	}
}

func (s *notificationQueryService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotificationsRequest) (*dto.ListNotificationsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := uow.NotificationRepository().FindByUser(ctx, userId, contract.NotificationFilter{
		Status: req.Status,
		Type:   req.Type,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// hasMore is an approximation: a page that comes back exactly full
	// reports more even when the next page is empty.
	return &dto.ListNotificationsResponse{
		Notifications: s.mapper.ToResponses(notifications),
		Total:         total,
		Page:          offset/limit + 1,
		Limit:         limit,
		HasMore:       len(notifications) >= limit,
	}, nil
}

func (s *notificationQueryService) UnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.NotificationRepository().CountUnread(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *notificationQueryService) Stats(ctx context.Context, userId uuid.UUID) (*dto.NotificationStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.NotificationRepository().GetStats(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.NotificationStatsResponse{
		Total:    stats.Total,
		Unread:   stats.Unread,
		ByStatus: stats.ByStatus,
		ByType:   stats.ByType,
	}, nil
}

func (s *notificationQueryService) MarkRead(ctx context.Context, notificationId, recipientId uuid.UUID) (*dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	notification, err := repo.FindOne(ctx, specification.ByID{ID: notificationId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if notification == nil {
		return nil, apperror.NotFound("Notification not found")
	}

	// Ownership check before any mutation.
	if notification.UserId != recipientId {
		return nil, apperror.Unauthorized("Unauthorized")
	}

	if err := notification.MarkRead(); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, notification); err != nil {
		return nil, apperror.Internal(err)
	}

	return s.mapper.ToResponse(notification), nil
}

func (s *notificationQueryService) MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	updated, err := uow.NotificationRepository().MarkAllRead(ctx, userId)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return updated, nil
}

func (s *notificationQueryService) MarkDelivered(ctx context.Context, notificationId, recipientId uuid.UUID) (*dto.NotificationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	notification, err := repo.FindOne(ctx, specification.ByID{ID: notificationId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if notification == nil {
		return nil, apperror.NotFound("Notification not found")
	}
	if notification.UserId != recipientId {
		return nil, apperror.Unauthorized("Unauthorized")
	}

	if err := notification.MarkDelivered(); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, notification); err != nil {
		return nil, apperror.Internal(err)
	}

	return s.mapper.ToResponse(notification), nil
}

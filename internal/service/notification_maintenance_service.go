package service

import (
	"context"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/repository/unitofwork"
)

const defaultRetentionDays = 90

type INotificationMaintenanceService interface {
	Cleanup(ctx context.Context, req *dto.CleanupNotificationsRequest) (*dto.CleanupNotificationsResponse, error)
}

type notificationMaintenanceService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewNotificationMaintenanceService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) INotificationMaintenanceService {
	return &notificationMaintenanceService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *notificationMaintenanceService) Cleanup(ctx context.Context, req *dto.CleanupNotificationsRequest) (*dto.CleanupNotificationsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	now := time.Now()

	var deleted int64
	var err error
	if req.ExpiredOnly {
		deleted, err = repo.DeleteExpired(ctx, now)
	} else {
		days := req.OlderThanDays
		if days <= 0 {
			days = defaultRetentionDays
		}
		cutoff := now.AddDate(0, 0, -days)
		deleted, err = repo.DeleteOlderThan(ctx, cutoff)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("NotificationMaintenance", "Cleanup finished", map[string]interface{}{
		"deleted":      deleted,
		"expired_only": req.ExpiredOnly,
	})

	return &dto.CleanupNotificationsResponse{Deleted: deleted}, nil
}

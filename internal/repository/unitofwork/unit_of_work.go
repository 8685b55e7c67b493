package unitofwork

import (
	"context"

	"notifhub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserRoleRepository() contract.UserRoleRepository
	UserProfileRepository() contract.UserProfileRepository

	NotificationRepository() contract.NotificationRepository
	NotificationTemplateRepository() contract.NotificationTemplateRepository
	NotificationPreferenceRepository() contract.NotificationPreferenceRepository
}

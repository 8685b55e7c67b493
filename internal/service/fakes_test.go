package service

import (
	"context"
	"sync"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/logger"
	"notifhub-be/internal/provider"
	"notifhub-be/internal/repository/contract"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// The fakes embed their contract interface so only the methods a test
// exercises need stubs; anything else panics loudly.

type fakeUnitOfWork struct {
	users         *fakeUserRepo
	roles         *fakeUserRoleRepo
	profiles      *fakeUserProfileRepo
	notifications *fakeNotificationRepo
	templates     *fakeTemplateRepo
	preferences   *fakePreferenceRepo

	began      int
	committed  int
	rolledBack int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:         &fakeUserRepo{},
		roles:         &fakeUserRoleRepo{},
		profiles:      &fakeUserProfileRepo{},
		notifications: &fakeNotificationRepo{},
		templates:     &fakeTemplateRepo{},
		preferences:   &fakePreferenceRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolledBack++; return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository               { return u.users }
func (u *fakeUnitOfWork) UserRoleRepository() contract.UserRoleRepository      { return u.roles }
func (u *fakeUnitOfWork) UserProfileRepository() contract.UserProfileRepository { return u.profiles }
func (u *fakeUnitOfWork) NotificationRepository() contract.NotificationRepository {
	return u.notifications
}
func (u *fakeUnitOfWork) NotificationTemplateRepository() contract.NotificationTemplateRepository {
	return u.templates
}
func (u *fakeUnitOfWork) NotificationPreferenceRepository() contract.NotificationPreferenceRepository {
	return u.preferences
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: newFakeUnitOfWork()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// Notifications

type fakeNotificationRepo struct {
	contract.NotificationRepository

	mu      sync.Mutex
	created []*entity.Notification
	updated []*entity.Notification

	findOneResult *entity.Notification
	findByUser    []*entity.Notification
	total         int64
	unread        int64
	stats         *contract.NotificationStats
	markedAllRead int64
	lastFilter    contract.NotificationFilter

	deleted             int64
	lastCutoff          time.Time
	deletedExpiredCalls int

	createErr error
	updateErr error
	findErr   error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, n)
	return nil
}

func (f *fakeNotificationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notification, error) {
	return f.findOneResult, f.findErr
}

func (f *fakeNotificationRepo) FindByUser(ctx context.Context, userId uuid.UUID, filter contract.NotificationFilter) ([]*entity.Notification, int64, error) {
	f.lastFilter = filter
	return f.findByUser, f.total, f.findErr
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	return f.unread, f.findErr
}

func (f *fakeNotificationRepo) GetStats(ctx context.Context, userId uuid.UUID) (*contract.NotificationStats, error) {
	return f.stats, f.findErr
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error) {
	return f.markedAllRead, f.findErr
}

func (f *fakeNotificationRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	return f.deleted, f.findErr
}

func (f *fakeNotificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.deletedExpiredCalls++
	return f.deleted, f.findErr
}

// Templates

type fakeTemplateRepo struct {
	contract.NotificationTemplateRepository

	template *entity.NotificationTemplate
	err      error
	lookups  int
}

func (f *fakeTemplateRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NotificationTemplate, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if f.template == nil {
		return nil, nil
	}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if f.template.Id != s.ID {
				return nil, nil
			}
		case specification.ByCode:
			if f.template.Code != s.Code {
				return nil, nil
			}
		case specification.ActiveOnly:
			if !f.template.IsActive {
				return nil, nil
			}
		}
	}
	return f.template, nil
}

// Preferences

type fakePreferenceRepo struct {
	contract.NotificationPreferenceRepository

	mu       sync.Mutex
	byType   map[string][]*entity.NotificationPreference
	all      []*entity.NotificationPreference
	upserted []*entity.NotificationPreference
	queried  []string
	err      error
}

func (f *fakePreferenceRepo) FindByUserAndType(ctx context.Context, userId uuid.UUID, preferenceType string) ([]*entity.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, preferenceType)
	if f.err != nil {
		return nil, f.err
	}
	return f.byType[preferenceType], nil
}

func (f *fakePreferenceRepo) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.NotificationPreference, error) {
	return f.all, f.err
}

func (f *fakePreferenceRepo) Upsert(ctx context.Context, preference *entity.NotificationPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, preference)
	return nil
}

// Users

type fakeUserRepo struct {
	contract.UserRepository

	user *entity.User
	err  error

	verificationToken *entity.EmailVerificationToken
	refreshToken      *entity.UserRefreshToken
	resetToken        *entity.PasswordResetToken

	created              []*entity.User
	createdVerifications []*entity.EmailVerificationToken
	createdRefreshTokens []*entity.UserRefreshToken
	createdResetTokens   []*entity.PasswordResetToken
	activated            []uuid.UUID
	deletedVerifications []uuid.UUID
	revokedHashes        []string
	passwordUpdates      map[uuid.UUID]string
	markedUsed           []uuid.UUID
}

func (f *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, nil
	}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if f.user.Id != s.ID {
				return nil, nil
			}
		case specification.ByEmail:
			if f.user.Email != s.Email {
				return nil, nil
			}
		}
	}
	return f.user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	f.activated = append(f.activated, userId)
	if f.user != nil && f.user.Id == userId {
		f.user.Status = entity.UserStatusActive
		f.user.EmailVerified = true
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	if f.passwordUpdates == nil {
		f.passwordUpdates = make(map[uuid.UUID]string)
	}
	f.passwordUpdates[userId] = hash
	return nil
}

func (f *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	f.createdVerifications = append(f.createdVerifications, token)
	return nil
}

func (f *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	if f.verificationToken == nil {
		return nil, nil
	}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.UserOwnedBy:
			if f.verificationToken.UserId != s.UserID {
				return nil, nil
			}
		case specification.ByToken:
			if f.verificationToken.Token != s.Token {
				return nil, nil
			}
		}
	}
	return f.verificationToken, nil
}

func (f *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	f.deletedVerifications = append(f.deletedVerifications, id)
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	f.createdRefreshTokens = append(f.createdRefreshTokens, token)
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	if f.refreshToken == nil {
		return nil, nil
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.ByTokenHash); ok && f.refreshToken.TokenHash != s.Hash {
			return nil, nil
		}
	}
	return f.refreshToken, nil
}

func (f *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	f.revokedHashes = append(f.revokedHashes, tokenHash)
	return nil
}

func (f *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	f.createdResetTokens = append(f.createdResetTokens, token)
	return nil
}

func (f *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	if f.resetToken == nil {
		return nil, nil
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.ByToken); ok && f.resetToken.Token != s.Token {
			return nil, nil
		}
	}
	return f.resetToken, nil
}

func (f *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	f.markedUsed = append(f.markedUsed, id)
	if f.resetToken != nil && f.resetToken.Id == id {
		f.resetToken.Used = true
	}
	return nil
}

// Email

type fakeEmailService struct {
	mu     sync.Mutex
	otps   []string
	resets []string
}

func (f *fakeEmailService) Send(toEmail, subject, htmlBody string) error { return nil }

func (f *fakeEmailService) SendOTP(toEmail, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps = append(f.otps, otp)
	return nil
}

func (f *fakeEmailService) SendResetToken(toEmail, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, token)
	return nil
}

func (f *fakeEmailService) SendNotification(toEmail, subject, title, message string) error {
	return nil
}

// Profiles

type fakeUserProfileRepo struct {
	contract.UserProfileRepository

	profile    *entity.UserProfile
	activities []*entity.UserActivity
	total      int64
	err        error

	upserted        []*entity.UserProfile
	loggedActivity  []*entity.UserActivity
	lastLimitOffset [2]int
}

func (f *fakeUserProfileRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error) {
	return f.profile, f.err
}

func (f *fakeUserProfileRepo) Upsert(ctx context.Context, profile *entity.UserProfile) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, profile)
	return nil
}

func (f *fakeUserProfileRepo) CreateActivity(ctx context.Context, activity *entity.UserActivity) error {
	f.loggedActivity = append(f.loggedActivity, activity)
	return nil
}

func (f *fakeUserProfileRepo) FindActivities(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.UserActivity, int64, error) {
	f.lastLimitOffset = [2]int{limit, offset}
	return f.activities, f.total, f.err
}

// Roles

type fakeUserRoleRepo struct {
	contract.UserRoleRepository

	mu          sync.Mutex
	roles       []*entity.UserRole
	assignments []*entity.UserRoleAssignment
	activeCount int64
	err         error

	deletedRoles []uuid.UUID
}

func (f *fakeUserRoleRepo) Create(ctx context.Context, role *entity.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.roles = append(f.roles, role)
	return nil
}

func (f *fakeUserRoleRepo) Update(ctx context.Context, role *entity.UserRole) error {
	return f.err
}

func (f *fakeUserRoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deletedRoles = append(f.deletedRoles, id)
	return nil
}

func (f *fakeUserRoleRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserRole, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, role := range f.roles {
		if roleMatches(role, specs) {
			return role, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRoleRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserRole, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.UserRole
	for _, role := range f.roles {
		if roleMatches(role, specs) {
			out = append(out, role)
		}
	}
	return out, nil
}

func (f *fakeUserRoleRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.UserRole, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.UserRole
	for _, role := range f.roles {
		for _, id := range ids {
			if role.Id == id {
				out = append(out, role)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeUserRoleRepo) CreateAssignment(ctx context.Context, assignment *entity.UserRoleAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.assignments = append(f.assignments, assignment)
	return nil
}

func (f *fakeUserRoleRepo) RevokeAssignment(ctx context.Context, userId, roleId uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var revoked int64
	for _, assignment := range f.assignments {
		if assignment.UserId == userId && assignment.RoleId == roleId && assignment.IsActive {
			assignment.IsActive = false
			revoked++
		}
	}
	return revoked, nil
}

func (f *fakeUserRoleRepo) FindAssignments(ctx context.Context, specs ...specification.Specification) ([]*entity.UserRoleAssignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.UserRoleAssignment
	for _, assignment := range f.assignments {
		if assignmentMatches(assignment, specs) {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (f *fakeUserRoleRepo) CountActiveAssignments(ctx context.Context, roleId uuid.UUID) (int64, error) {
	return f.activeCount, f.err
}

func roleMatches(role *entity.UserRole, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if role.Id != s.ID {
				return false
			}
		case specification.ByRoleName:
			if role.Name != s.Name {
				return false
			}
		case specification.ActiveOnly:
			if !role.IsActive {
				return false
			}
		}
	}
	return true
}

func assignmentMatches(assignment *entity.UserRoleAssignment, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.UserOwnedBy:
			if assignment.UserId != s.UserID {
				return false
			}
		case specification.ByRoleID:
			if assignment.RoleId != s.RoleID {
				return false
			}
		case specification.ValidAssignments:
			if !assignment.IsActive {
				return false
			}
			if assignment.ExpiresAt != nil && !assignment.ExpiresAt.After(s.At) {
				return false
			}
		}
	}
	return true
}

// Activity queue

type fakePublisher struct {
	mu        sync.Mutex
	published [][]byte
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, msgJson []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msgJson)
	return nil
}

// Dispatch

type fakeDispatch struct {
	res  *dto.SendNotificationResponse
	err  error
	sent []*dto.SendNotificationRequest
}

func (f *fakeDispatch) Send(ctx context.Context, req *dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	f.sent = append(f.sent, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &dto.SendNotificationResponse{Success: true, Message: "Notification sent successfully"}, nil
}

// Providers

type fakeProvider struct {
	channel entity.NotificationChannel

	messageId string
	err       error
	panicWith interface{}
	block     time.Duration

	mu    sync.Mutex
	calls int
	last  *provider.Recipient
}

func (f *fakeProvider) Channel() entity.NotificationChannel { return f.channel }

func (f *fakeProvider) Send(ctx context.Context, notification *entity.Notification, recipient *provider.Recipient) (*provider.Result, error) {
	f.mu.Lock()
	f.calls++
	f.last = recipient
	f.mu.Unlock()

	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.block > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.block):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Result{MessageId: f.messageId}, nil
}

// Logger

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

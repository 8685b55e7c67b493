package service

import (
	"context"
	"os"
	"testing"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func activeUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	hashStr := string(hash)
	return &entity.User{
		Id:            uuid.New(),
		Email:         email,
		FullName:      "Ada Lovelace",
		PasswordHash:  &hashStr,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
	}
}

func newAuthService(factory *fakeFactory) IAuthService {
	return NewAuthService(factory, &fakeEmailService{}, NewUserRoleService(factory), nil)
}

func TestRegister(t *testing.T) {
	t.Run("creates a pending account with otp and default role", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.roles.roles = []*entity.UserRole{seededRole(entity.RoleNameUser, 10, true)}
		svc := newAuthService(factory)

		res, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
			FullName: "Ada Lovelace",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", res.Email)

		users := factory.uow.users
		assert.Len(t, users.created, 1)
		assert.Equal(t, entity.UserStatusPending, users.created[0].Status)
		assert.False(t, users.created[0].EmailVerified)
		assert.NotNil(t, users.created[0].PasswordHash)
		assert.NotEqual(t, "correcthorse", *users.created[0].PasswordHash)

		assert.Len(t, users.createdVerifications, 1)
		assert.Len(t, users.createdVerifications[0].Token, 6)

		assert.Len(t, factory.uow.roles.assignments, 1)
		assert.Equal(t, res.Id, factory.uow.roles.assignments[0].UserId)

		assert.Equal(t, 1, factory.uow.committed)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.users.user = activeUser(t, "ada@example.com", "correcthorse")
		svc := newAuthService(factory)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
			FullName: "Ada Lovelace",
		})

		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Empty(t, factory.uow.users.created)
	})

	t.Run("registration works before roles are seeded", func(t *testing.T) {
		factory := newFakeFactory()
		svc := newAuthService(factory)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
			FullName: "Ada Lovelace",
		})

		assert.NoError(t, err)
		assert.Empty(t, factory.uow.roles.assignments)
	})
}

func TestVerifyEmail(t *testing.T) {
	setup := func(t *testing.T) (*fakeFactory, *entity.User) {
		factory := newFakeFactory()
		user := activeUser(t, "ada@example.com", "correcthorse")
		user.Status = entity.UserStatusPending
		user.EmailVerified = false
		factory.uow.users.user = user
		factory.uow.users.verificationToken = &entity.EmailVerificationToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			Token:     "123456",
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		return factory, user
	}

	t.Run("activates the account and burns the otp", func(t *testing.T) {
		factory, user := setup(t)
		svc := newAuthService(factory)

		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "ada@example.com",
			Token: "123456",
		})

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{user.Id}, factory.uow.users.activated)
		assert.Len(t, factory.uow.users.deletedVerifications, 1)
	})

	t.Run("wrong otp", func(t *testing.T) {
		factory, _ := setup(t)
		svc := newAuthService(factory)

		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "ada@example.com",
			Token: "654321",
		})

		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
		assert.Empty(t, factory.uow.users.activated)
	})

	t.Run("expired otp", func(t *testing.T) {
		factory, _ := setup(t)
		factory.uow.users.verificationToken.ExpiresAt = time.Now().Add(-time.Minute)
		svc := newAuthService(factory)

		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "ada@example.com",
			Token: "123456",
		})

		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("already active account is a no-op", func(t *testing.T) {
		factory, user := setup(t)
		user.Status = entity.UserStatusActive
		svc := newAuthService(factory)

		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "ada@example.com",
			Token: "123456",
		})

		assert.NoError(t, err)
		assert.Empty(t, factory.uow.users.activated)
	})

	t.Run("unknown account", func(t *testing.T) {
		factory := newFakeFactory()
		svc := newAuthService(factory)

		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "nobody@example.com",
			Token: "123456",
		})

		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestLogin(t *testing.T) {
	t.Run("issues a signed access token", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.users.user = activeUser(t, "ada@example.com", "correcthorse")
		svc := newAuthService(factory)

		res, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
		}, "203.0.113.7", "Firefox on Linux")

		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", res.User.Email)
		// No role assigned yet; the fallback role applies.
		assert.Equal(t, entity.RoleNameUser, res.User.Role)
		assert.Empty(t, res.RefreshToken)
		assert.Empty(t, factory.uow.users.createdRefreshTokens)

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "default_secret"
		}
		token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, factory.uow.users.user.Id.String(), claims["user_id"])
		assert.Equal(t, entity.RoleNameUser, claims["role"])
	})

	t.Run("remember me stores a hashed refresh token", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.users.user = activeUser(t, "ada@example.com", "correcthorse")
		svc := newAuthService(factory)

		res, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:      "ada@example.com",
			Password:   "correcthorse",
			RememberMe: true,
		}, "203.0.113.7", "Firefox on Linux")

		assert.NoError(t, err)
		assert.NotEmpty(t, res.RefreshToken)

		stored := factory.uow.users.createdRefreshTokens
		assert.Len(t, stored, 1)
		// Only the hash hits the database.
		assert.NotEqual(t, res.RefreshToken, stored[0].TokenHash)
		assert.Equal(t, hashToken(res.RefreshToken), stored[0].TokenHash)
		assert.Equal(t, "203.0.113.7", stored[0].IpAddress)
		assert.Equal(t, "Firefox on Linux", stored[0].UserAgent)
	})

	t.Run("wrong password", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.users.user = activeUser(t, "ada@example.com", "correcthorse")
		svc := newAuthService(factory)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "tr0ub4dor",
		}, "", "")

		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		factory := newFakeFactory()
		svc := newAuthService(factory)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "correcthorse",
		}, "", "")

		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("unverified email", func(t *testing.T) {
		factory := newFakeFactory()
		user := activeUser(t, "ada@example.com", "correcthorse")
		user.Status = entity.UserStatusPending
		user.EmailVerified = false
		factory.uow.users.user = user
		svc := newAuthService(factory)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
		}, "", "")

		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("oauth only account has no password", func(t *testing.T) {
		factory := newFakeFactory()
		user := activeUser(t, "ada@example.com", "correcthorse")
		user.PasswordHash = nil
		factory.uow.users.user = user
		svc := newAuthService(factory)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
		}, "", "")

		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("blocked account", func(t *testing.T) {
		factory := newFakeFactory()
		user := activeUser(t, "ada@example.com", "correcthorse")
		user.Status = entity.UserStatusBlocked
		factory.uow.users.user = user
		svc := newAuthService(factory)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "correcthorse",
		}, "", "")

		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	})
}

func TestRefresh(t *testing.T) {
	setup := func(t *testing.T, raw string) *fakeFactory {
		factory := newFakeFactory()
		user := activeUser(t, "ada@example.com", "correcthorse")
		factory.uow.users.user = user
		factory.uow.users.refreshToken = &entity.UserRefreshToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			TokenHash: hashToken(raw),
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}
		return factory
	}

	t.Run("exchanges a valid token", func(t *testing.T) {
		factory := setup(t, "raw-refresh-token")
		svc := newAuthService(factory)

		res, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "raw-refresh-token"})

		assert.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.Equal(t, "raw-refresh-token", res.RefreshToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		factory := setup(t, "raw-refresh-token")
		factory.uow.users.refreshToken.Revoked = true
		svc := newAuthService(factory)

		_, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "raw-refresh-token"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		factory := setup(t, "raw-refresh-token")
		factory.uow.users.refreshToken.ExpiresAt = time.Now().Add(-time.Minute)
		svc := newAuthService(factory)

		_, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "raw-refresh-token"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("unknown token", func(t *testing.T) {
		factory := setup(t, "raw-refresh-token")
		svc := newAuthService(factory)

		_, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "stolen-guess"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("blocked user cannot refresh", func(t *testing.T) {
		factory := setup(t, "raw-refresh-token")
		factory.uow.users.user.Status = entity.UserStatusBlocked
		svc := newAuthService(factory)

		_, err := svc.Refresh(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "raw-refresh-token"})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes by hash", func(t *testing.T) {
		factory := newFakeFactory()
		svc := newAuthService(factory)

		err := svc.Logout(context.Background(), "raw-refresh-token")

		assert.NoError(t, err)
		assert.Equal(t, []string{hashToken("raw-refresh-token")}, factory.uow.users.revokedHashes)
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		factory := newFakeFactory()
		svc := newAuthService(factory)

		err := svc.Logout(context.Background(), "")

		assert.NoError(t, err)
		assert.Empty(t, factory.uow.users.revokedHashes)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("creates a reset token", func(t *testing.T) {
		factory := newFakeFactory()
		factory.uow.users.user = activeUser(t, "ada@example.com", "correcthorse")
		svc := newAuthService(factory)

		err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "ada@example.com"})

		assert.NoError(t, err)
		assert.Len(t, factory.uow.users.createdResetTokens, 1)
		assert.False(t, factory.uow.users.createdResetTokens[0].Used)
	})

	t.Run("unknown email leaks nothing", func(t *testing.T) {
		factory := newFakeFactory()
		svc := newAuthService(factory)

		err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "nobody@example.com"})

		assert.NoError(t, err)
		assert.Empty(t, factory.uow.users.createdResetTokens)
	})
}

func TestResetPassword(t *testing.T) {
	setup := func(t *testing.T) (*fakeFactory, *entity.PasswordResetToken) {
		factory := newFakeFactory()
		user := activeUser(t, "ada@example.com", "correcthorse")
		factory.uow.users.user = user
		token := &entity.PasswordResetToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			Token:     "reset-code",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		factory.uow.users.resetToken = token
		return factory, token
	}

	t.Run("updates the password and burns the token", func(t *testing.T) {
		factory, token := setup(t)
		svc := newAuthService(factory)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "reset-code",
			NewPassword: "newcorrecthorse",
		})

		assert.NoError(t, err)
		newHash := factory.uow.users.passwordUpdates[token.UserId]
		assert.NotEmpty(t, newHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("newcorrecthorse")))
		assert.True(t, token.Used)
	})

	t.Run("used token", func(t *testing.T) {
		factory, token := setup(t)
		token.Used = true
		svc := newAuthService(factory)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "reset-code",
			NewPassword: "newcorrecthorse",
		})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		factory, token := setup(t)
		token.ExpiresAt = time.Now().Add(-time.Minute)
		svc := newAuthService(factory)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "reset-code",
			NewPassword: "newcorrecthorse",
		})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("unknown token", func(t *testing.T) {
		factory, _ := setup(t)
		svc := newAuthService(factory)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "wrong-code",
			NewPassword: "newcorrecthorse",
		})
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})
}

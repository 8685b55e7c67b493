package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"notifhub-be/internal/dto"
	"notifhub-be/internal/entity"
	"notifhub-be/internal/pkg/apperror"
	"notifhub-be/internal/repository/specification"
	"notifhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory  unitofwork.RepositoryFactory
	roleService IUserRoleService
	googleConf  *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, roleService IUserRoleService) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:  uowFactory,
		roleService: roleService,
		googleConf:  conf,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", apperror.Validation(fmt.Sprintf("unsupported provider: %s", provider))
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, apperror.Validation(fmt.Sprintf("unsupported provider: %s", provider))
	}

	// Exchange code for token
	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		log.Printf("[OAuth Service] ERROR - Code exchange failed: %v", err)
		return nil, apperror.Unauthorized("code exchange failed")
	}

	// Get user info from Google
	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken
	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed getting user info: %v", err))
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed reading response: %v", err))
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, apperror.Internal(err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// Create new user if doesn't exist, with the default role attached
	if user == nil {
		log.Printf("[OAuth Service] User not found. Creating new user for %s", googleUser.Email)
		newUser := &entity.User{
			Id:            uuid.New(),
			Email:         googleUser.Email,
			FullName:      googleUser.Name,
			PasswordHash:  nil,
			Status:        entity.UserStatusActive,
			EmailVerified: true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, apperror.Internal(err)
		}

		if err := uow.UserRepository().Create(ctx, newUser); err != nil {
			uow.Rollback()
			return nil, apperror.Internal(err)
		}

		defaultRole, err := uow.UserRoleRepository().FindOne(ctx, specification.ByRoleName{Name: entity.RoleNameUser})
		if err != nil {
			uow.Rollback()
			return nil, apperror.Internal(err)
		}
		if defaultRole != nil {
			assignment := &entity.UserRoleAssignment{
				Id:        uuid.New(),
				UserId:    newUser.Id,
				RoleId:    defaultRole.Id,
				IsActive:  true,
				CreatedAt: time.Now(),
			}
			if err := uow.UserRoleRepository().CreateAssignment(ctx, assignment); err != nil {
				uow.Rollback()
				return nil, apperror.Internal(err)
			}
		}

		if err := uow.Commit(); err != nil {
			return nil, apperror.Internal(err)
		}

		user = newUser
	}

	// Sync provider info and avatar
	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
		AvatarURL:      googleUser.Picture,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to save provider info: %v", err))
	}

	roleName := entity.RoleNameUser
	if role, err := s.roleService.HighestRole(ctx, user.Id); err == nil && role != nil {
		roleName = role.Name
	}

	signedToken, err := issueAccessToken(user.Id, roleName)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     roleName,
		},
	}, nil
}

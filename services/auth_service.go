package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/config"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string
	Password string
	Fullname string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput is what both register and login hand back: the persisted
// account plus a signed bearer token for it.
type AuthOutput struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthOutput, error)
	Login(ctx context.Context, in LoginInput) (AuthOutput, error)
}

type authService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	count, err := s.users.CountByEmail(ctx, in.Email)
	if err != nil {
		return AuthOutput{}, newAppError(http.StatusInternalServerError, "failed to query users", err)
	}
	if count > 0 {
		return AuthOutput{}, newAppError(http.StatusBadRequest, "a user with this email already exists", nil)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthOutput{}, newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := models.User{
		Email:     in.Email,
		Password:  hashed,
		Fullname:  in.Fullname,
		DiskSpace: config.AppConfig.Storage.DefaultDiskSpace,
	}
	if err := s.users.Create(ctx, nil, &user); err != nil {
		return AuthOutput{}, newAppError(http.StatusInternalServerError, "failed to create user", err)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return AuthOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return AuthOutput{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	user, err := s.users.GetByEmail(ctx, nil, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthOutput{}, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return AuthOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return AuthOutput{}, newAppError(http.StatusUnauthorized, "incorrect email or password", nil)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return AuthOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return AuthOutput{User: user, Token: token}, nil
}

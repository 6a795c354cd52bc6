package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/config"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"

	"gorm.io/gorm"
)

type AvatarUpload struct {
	OriginalName string
	Size         int64
	Content      []byte
}

type StorageQuota struct {
	UsedSpace   int64   `json:"usedSpace"`
	DiskSpace   int64   `json:"diskSpace"`
	UsedPercent float64 `json:"usedPercent"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uint) (models.User, error)
	UpdateAvatar(ctx context.Context, userID uint, upload AvatarUpload) (models.User, error)
	GetStorageQuota(ctx context.Context, userID uint) (StorageQuota, error)
}

type userService struct {
	users repositories.UserRepository
	paths StoragePaths
}

func NewUserService(users repositories.UserRepository, paths StoragePaths) UserService {
	return &userService{users: users, paths: paths}
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint, upload AvatarUpload) (models.User, error) {
	if upload.Size > config.AppConfig.Storage.MaxAvatarSize {
		return models.User{}, newAppError(http.StatusBadRequest, "the avatar is too large", nil)
	}

	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	relPath, err := s.paths.NewAvatarPath(userID, filepath.Ext(upload.OriginalName))
	if err != nil {
		return models.User{}, err
	}

	absPath := s.paths.Absolute(relPath)
	if err := os.WriteFile(absPath, upload.Content, 0o644); err != nil {
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to write avatar", err)
	}

	oldPath := user.AvatarPath
	if err := s.users.UpdateByID(ctx, nil, userID, map[string]interface{}{"avatar_path": relPath}); err != nil {
		_ = os.Remove(absPath)
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to update user", err)
	}

	// Avatars live outside the quota ledger, so the previous one is simply
	// unlinked.
	if oldPath != "" {
		if _, err := os.Stat(s.paths.Absolute(oldPath)); err == nil {
			_ = os.Remove(s.paths.Absolute(oldPath))
		}
	}

	user.AvatarPath = relPath
	return user, nil
}

func (s *userService) GetStorageQuota(ctx context.Context, userID uint) (StorageQuota, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StorageQuota{}, newAppError(http.StatusNotFound, "user is not found", nil)
		}
		return StorageQuota{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	quota := StorageQuota{UsedSpace: user.UsedSpace, DiskSpace: user.DiskSpace}
	if user.DiskSpace > 0 {
		quota.UsedPercent = float64(user.UsedSpace) / float64(user.DiskSpace) * 100
	}
	return quota, nil
}

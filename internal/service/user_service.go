package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService 处理头像与教师认证
type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

// UploadAvatar 上传新头像并删除旧文件，返回头像 URL
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%d/%s%s", util.StorageAvatarDir, userID, model.GenerateUUID(), ext)
	if _, err := s.Storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(userID, key); err != nil {
		return "", err
	}
	if user.Avatar != "" {
		if err := s.Storage.Delete(ctx, user.Avatar); err != nil {
			logger.Log.Warn("delete old avatar failed", zap.String("key", user.Avatar), zap.Error(err))
		}
	}
	return s.Storage.GetURL(key), nil
}

// AvatarURL 未设置头像时返回空串
func (s *UserService) AvatarURL(user *model.User) string {
	if user.Avatar == "" {
		return ""
	}
	return s.Storage.GetURL(user.Avatar)
}

// VerifyTeacher 管理员认证或撤销教师资格
func (s *UserService) VerifyTeacher(userID uint, verified bool) error {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if user.Role != model.Teacher {
		return util.ErrPermissionDenied
	}
	return s.UserRepo.SetVerifiedTeacher(userID, verified)
}

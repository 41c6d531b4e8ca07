package sql

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// CreateUser 创建新用户，邮箱统一转为小写保存。
func (s *Store) CreateUser(user *domain.User) error {
	user.Email = strings.ToLower(user.Email)

	var count int64
	if err := s.db.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return storage.ErrEmailExists
	}
	return s.db.Create(user).Error
}

// GetUserByID 根据 ID 获取用户。
func (s *Store) GetUserByID(id string) (*domain.User, error) {
	var user domain.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail 根据邮箱获取用户，不区分大小写。
func (s *Store) GetUserByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := s.db.First(&user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser 更新用户信息。
func (s *Store) UpdateUser(user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	result := s.db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"email":         user.Email,
		"name":          user.Name,
		"phone":         user.Phone,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"is_active":     user.IsActive,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin 刷新最近登录时间。
func (s *Store) UpdateLastLogin(userID string) error {
	result := s.db.Model(&domain.User{}).Where("id = ?", userID).
		Update("last_login_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// ListUsersByRole 列出指定角色的全部用户。
func (s *Store) ListUsersByRole(role domain.UserRole) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := s.db.Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

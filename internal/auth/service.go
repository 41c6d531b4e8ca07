package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

var (
	// ErrInvalidEmail 无效的邮箱格式
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPassword 无效的密码
	ErrInvalidPassword = errors.New("invalid password")
	// ErrEmailExists 邮箱已存在
	ErrEmailExists = errors.New("email already exists")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials 凭证无效
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive 用户已被禁用
	ErrUserInactive = errors.New("user is inactive")
)

// Service 认证服务
type Service struct {
	userRepo storage.UserRepository
}

// NewService 创建认证服务
func NewService(userRepo storage.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
	}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string
	Password string
}

// Register 用户注册
func (s *Service) Register(input RegisterInput) (*domain.User, error) {
	// 验证邮箱格式
	if !domain.ValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}

	// 验证密码强度
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	// 检查邮箱是否已存在
	if user, err := s.userRepo.GetUserByEmail(strings.ToLower(input.Email)); err == nil && user != nil {
		return nil, ErrEmailExists
	}

	// 哈希密码
	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(input.Email),
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: passwordHash,
		Role:         domain.RoleUser, // 默认为普通用户
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login 用户登录
func (s *Service) Login(input LoginInput) (*domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(input.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 检查用户是否激活
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 验证密码
	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// 更新最后登录时间
	_ = s.userRepo.UpdateLastLogin(user.ID)

	return user, nil
}

// GetUserByID 根据 ID 获取用户
func (s *Service) GetUserByID(userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword 修改密码
func (s *Service) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	// 验证旧密码
	if !CheckPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	// 验证新密码强度
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = newHash
	user.UpdatedAt = time.Now().UTC()
	return s.userRepo.UpdateUser(user)
}

// ValidatePassword 验证密码强度
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return errors.New("password must be at most 72 characters")
	}
	return nil
}

// HashPassword 哈希密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 检查密码是否匹配
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

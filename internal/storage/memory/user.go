package memory

import (
	"sort"
	"strings"
	"time"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// CreateUser 创建新用户。
func (s *Store) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return storage.ErrEmailExists
	}
	copied := *user
	s.users[user.ID] = &copied
	s.byEmail[email] = user.ID
	return nil
}

// GetUserByID 根据 ID 获取用户。
func (s *Store) GetUserByID(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByEmail 根据邮箱获取用户。
func (s *Store) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

// UpdateUser 更新用户信息。
func (s *Store) UpdateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}
	// 邮箱变更时维护索引
	oldEmail := strings.ToLower(existing.Email)
	newEmail := strings.ToLower(user.Email)
	if oldEmail != newEmail {
		delete(s.byEmail, oldEmail)
		s.byEmail[newEmail] = user.ID
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// UpdateLastLogin 刷新最近登录时间。
func (s *Store) UpdateLastLogin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	return nil
}

// ListUsersByRole 列出指定角色的全部用户。
func (s *Store) ListUsersByRole(role domain.UserRole) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0)
	for _, user := range s.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

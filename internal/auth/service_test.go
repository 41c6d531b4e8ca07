package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage/memory"
)

func TestService_Register(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store)

	user, err := service.Register(RegisterInput{
		Email:    "Test@Example.com",
		Password: "Password123!",
		Name:     "Test User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Password123!", user.PasswordHash)
}

func TestService_Register_Invalid(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store)

	t.Run("邮箱格式非法", func(t *testing.T) {
		_, err := service.Register(RegisterInput{Email: "not-an-email", Password: "Password123!"})
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("密码过短", func(t *testing.T) {
		_, err := service.Register(RegisterInput{Email: "a@b.com", Password: "short"})
		assert.Error(t, err)
	})

	t.Run("重复邮箱", func(t *testing.T) {
		_, err := service.Register(RegisterInput{Email: "dup@example.com", Password: "Password123!"})
		require.NoError(t, err)
		_, err = service.Register(RegisterInput{Email: "DUP@example.com", Password: "Password123!"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Login(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store)

	_, err := service.Register(RegisterInput{
		Email:    "login@example.com",
		Password: "Password123!",
		Name:     "Login User",
	})
	require.NoError(t, err)

	t.Run("正确凭证", func(t *testing.T) {
		user, err := service.Login(LoginInput{Email: "login@example.com", Password: "Password123!"})
		require.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("错误密码", func(t *testing.T) {
		_, err := service.Login(LoginInput{Email: "login@example.com", Password: "WrongPassword"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("不存在的用户", func(t *testing.T) {
		_, err := service.Login(LoginInput{Email: "nobody@example.com", Password: "Password123!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ChangePassword(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store)

	user, err := service.Register(RegisterInput{
		Email:    "pw@example.com",
		Password: "OldPassword1",
	})
	require.NoError(t, err)

	require.NoError(t, service.ChangePassword(user.ID, "OldPassword1", "NewPassword1"))

	_, err = service.Login(LoginInput{Email: "pw@example.com", Password: "NewPassword1"})
	assert.NoError(t, err)
	_, err = service.Login(LoginInput{Email: "pw@example.com", Password: "OldPassword1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

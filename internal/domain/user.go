package domain

import "time"

// UserRole 用户角色
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleVendor UserRole = "vendor" // 供应商（可接收商品咨询）
	RoleAdmin  UserRole = "admin"
	RoleSuper  UserRole = "super" // 超级管理员
)

// User 表示注册用户的业务实体
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name         string     `json:"name" gorm:"type:varchar(100)"`
	Phone        string     `json:"phone,omitempty" gorm:"type:varchar(30)"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255)"` // 不返回给前端
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'user';index"`
	IsActive     bool       `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuper
}

// IsSuper 判断用户是否为超级管理员
func (u *User) IsSuper() bool {
	return u.Role == RoleSuper
}

// IsVendor 判断用户是否为供应商
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// AuthUser 请求会话中解析出的当前用户身份
//
// 由 JWT 中间件写入 gin 上下文，处理器据此做行级授权判断。
type AuthUser struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// IsAdmin 判断会话用户是否为管理员
func (a *AuthUser) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuper
}

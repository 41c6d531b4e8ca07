package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/auth/jwt"
	"brightonhub/backend/internal/domain"
)

// JWTAuth JWT认证中间件
type JWTAuth struct {
	jwtManager *jwt.Manager
	log        *zap.Logger
}

// NewJWTAuth 创建JWT认证中间件
func NewJWTAuth(jwtManager *jwt.Manager, log *zap.Logger) *JWTAuth {
	if log == nil {
		log = zap.NewNop()
	}
	return &JWTAuth{
		jwtManager: jwtManager,
		log:        log,
	}
}

// RequireAuth 要求JWT认证
func (ja *JWTAuth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ja.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			c.Abort()
			return
		}

		claims, err := ja.jwtManager.ValidateToken(token)
		if err != nil {
			ja.log.Warn("invalid token",
				zap.String("error", err.Error()),
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			c.Abort()
			return
		}

		setAuthContext(c, claims)
		c.Next()
	}
}

// OptionalAuth 可选的JWT认证，匿名请求放行
func (ja *JWTAuth) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ja.extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := ja.jwtManager.ValidateToken(token)
		if err == nil {
			setAuthContext(c, claims)
			c.Set("authenticated", true)
		}

		c.Next()
	}
}

// setAuthContext 将会话用户身份写入 gin 上下文
func setAuthContext(c *gin.Context, claims *jwt.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("authUser", &domain.AuthUser{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  domain.UserRole(claims.Role),
	})
}

// AuthUserFrom 从 gin 上下文取出会话用户，未认证返回 nil
func AuthUserFrom(c *gin.Context) *domain.AuthUser {
	val, exists := c.Get("authUser")
	if !exists {
		return nil
	}
	user, ok := val.(*domain.AuthUser)
	if !ok {
		return nil
	}
	return user
}

// extractToken 从请求中提取JWT token
func (ja *JWTAuth) extractToken(c *gin.Context) string {
	// 1. 从 Authorization header 提取
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// 2. 从 cookie 提取
	token, err := c.Cookie("access_token")
	if err == nil && token != "" {
		return token
	}

	return ""
}

package httptransport

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/auth"
	jwtpkg "brightonhub/backend/internal/auth/jwt"
	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/middleware"
)

// AuthHandler 处理认证相关的 HTTP 请求
type AuthHandler struct {
	authService *auth.Service   // 认证业务服务
	jwtManager  *jwtpkg.Manager // JWT 令牌管理器
	log         *zap.Logger     // 结构化日志记录器
}

// NewAuthHandler 创建新的认证处理器实例
func NewAuthHandler(authService *auth.Service, jwtManager *jwtpkg.Manager, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
		log:         log,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Phone:    user.Phone,
		Role:     string(user.Role),
		IsActive: user.IsActive,
	}
}

// Register 处理用户注册请求
// @Summary 用户注册
// @Description 创建新用户账户，返回用户信息和认证令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} authResponse "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已存在"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	user, err := h.authService.Register(auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidPassword:
			BadRequest(c, err.Error())
		default:
			RespondError(c, err)
		}
		return
	}

	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, user.Name, user.Email, string(user.Role))
	if err != nil {
		h.log.Error("failed to generate tokens", zap.Error(err))
		InternalError(c, "生成令牌失败")
		return
	}

	h.log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)

	Created(c, authResponse{
		User:         toUserResponse(user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	})
}

// Login 处理用户登录请求
// @Summary 用户登录
// @Description 使用邮箱和密码进行身份验证，成功后返回认证令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录凭证"
// @Success 200 {object} authResponse "登录成功"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 403 {object} Response "账户已被禁用"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	user, err := h.authService.Login(auth.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, user.Name, user.Email, string(user.Role))
	if err != nil {
		h.log.Error("failed to generate tokens", zap.Error(err))
		InternalError(c, "生成令牌失败")
		return
	}

	Success(c, authResponse{
		User:         toUserResponse(user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	})
}

// Refresh 使用刷新令牌换取新的访问令牌
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body refreshRequest true "刷新令牌"
// @Success 200 {object} Response "刷新成功"
// @Failure 401 {object} Response "刷新令牌无效或已过期"
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		Unauthorized(c, MsgTokenInvalid)
		return
	}

	Success(c, gin.H{"accessToken": accessToken})
}

// Me 返回当前登录用户的信息
// @Summary 当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userResponse "用户信息"
// @Failure 401 {object} Response "未认证"
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	user, err := h.authService.GetUserByID(authUser.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, toUserResponse(user))
}

// ChangePassword 修改当前用户密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body changePasswordRequest true "新旧密码"
// @Success 200 {object} Response "修改成功"
// @Failure 401 {object} Response "旧密码错误"
// @Router /v1/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.authService.ChangePassword(authUser.ID, req.OldPassword, req.NewPassword); err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			Unauthorized(c, "旧密码错误")
		case auth.ErrInvalidPassword:
			BadRequest(c, err.Error())
		default:
			RespondError(c, err)
		}
		return
	}

	SuccessWithMsg(c, "密码已更新", nil)
}

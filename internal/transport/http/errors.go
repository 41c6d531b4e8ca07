package httptransport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brightonhub/backend/internal/auth"
	"brightonhub/backend/internal/service"
	"brightonhub/backend/internal/storage"
)

// 错误消息映射表（业务错误 -> 中文消息）
var errorMessages = map[error]string{
	// Message 错误
	service.ErrMissingFields:      "姓名、邮箱、主题和内容不能为空",
	service.ErrInvalidSenderEmail: "发送者邮箱格式无效",
	service.ErrInvalidContentType: "内容类型无效",
	service.ErrInvalidPriority:    "优先级无效",
	service.ErrInvalidStatus:      "消息状态无效",
	service.ErrBulkForbidden:      "群发消息仅限管理员",
	service.ErrNoRecipients:       "群发目标为空",
	service.ErrMessageAccess:      "无权访问该消息",
	service.ErrNoMessageIDs:       "请指定要更新的消息",
	storage.ErrMessageNotFound:    "消息不存在",

	// Category 错误
	service.ErrCategoryNameRequired: "分类名称不能为空",
	service.ErrInvalidCategoryType:  "分类板块无效",
	service.ErrSlugConflict:         "该板块下已存在相同的 slug",
	service.ErrParentNotFound:       "父分类不存在",
	service.ErrParentTypeMismatch:   "父分类板块不一致",
	service.ErrSelfParent:           "分类不能作为自己的父级",
	service.ErrHasActiveChildren:    "存在活跃子分类，无法删除",
	storage.ErrCategoryNotFound:     "分类不存在",

	// Catalog 错误
	service.ErrItemTitleRequired:  "标题不能为空",
	service.ErrUnknownContentType: "不支持的内容类型",
	storage.ErrItemNotFound:       "条目不存在",

	// Vendor 错误
	service.ErrBusinessNameRequired:     "商户名称不能为空",
	service.ErrApplicationPendingExists: "已存在待审核的申请",
	service.ErrApplicationReviewed:      "该申请已被审核",
	storage.ErrApplicationNotFound:      "申请不存在",
	storage.ErrListingNotFound:          "供应商不存在",

	// Auth 错误
	auth.ErrInvalidEmail:       "邮箱格式无效",
	auth.ErrEmailExists:        "该邮箱已被注册",
	auth.ErrUserNotFound:       "用户不存在",
	auth.ErrInvalidCredentials: "邮箱或密码错误",
	auth.ErrUserInactive:       "账户已被禁用",
	storage.ErrUserNotFound:    "用户不存在",
}

// 错误对应的 HTTP 状态码，未列出的业务错误按 400 处理
var errorStatus = map[error]int{
	service.ErrBulkForbidden: http.StatusForbidden,
	service.ErrMessageAccess: http.StatusForbidden,
	auth.ErrUserInactive:     http.StatusForbidden,

	storage.ErrMessageNotFound:     http.StatusNotFound,
	storage.ErrCategoryNotFound:    http.StatusNotFound,
	storage.ErrItemNotFound:        http.StatusNotFound,
	storage.ErrUserNotFound:        http.StatusNotFound,
	storage.ErrApplicationNotFound: http.StatusNotFound,
	storage.ErrListingNotFound:     http.StatusNotFound,
	service.ErrParentNotFound:      http.StatusNotFound,
	auth.ErrUserNotFound:           http.StatusNotFound,

	service.ErrSlugConflict:             http.StatusConflict,
	service.ErrHasActiveChildren:        http.StatusConflict,
	service.ErrApplicationPendingExists: http.StatusConflict,
	service.ErrApplicationReviewed:      http.StatusConflict,
	auth.ErrEmailExists:                 http.StatusConflict,

	auth.ErrInvalidCredentials: http.StatusUnauthorized,
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

// RespondError 将业务错误映射为统一的错误响应
//
// 未登记的错误视为服务器内部错误，原始信息只记日志不外泄。
func RespondError(c *gin.Context, err error) {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			Error(c, status, GetErrorMessage(err))
			return
		}
	}
	for target := range errorMessages {
		if errors.Is(err, target) {
			BadRequest(c, GetErrorMessage(err))
			return
		}
	}
	InternalError(c, MsgInternalError)
}

// Error 通用错误响应（根据HTTP状态码自动选择）
func Error(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, Response{
		Code: httpCode,
		Msg:  msg,
		Data: nil,
	})
}

// 通用错误消息
const (
	// 请求相关
	MsgInvalidRequest   = "请求参数格式错误"
	MsgRequestBodyEmpty = "请求体不能为空"

	// 认证相关
	MsgAuthRequired     = "需要登录认证"
	MsgTokenInvalid     = "无效的访问令牌"
	MsgPermissionDenied = "权限不足"

	// 消息相关
	MsgMessageCreateFailed = "消息发送失败"
	MsgMessageListFailed   = "获取消息列表失败"
	MsgMessageGetFailed    = "获取消息详情失败"
	MsgMessageUpdateFailed = "更新消息失败"

	// 分类相关
	MsgCategoryCreateFailed = "创建分类失败"
	MsgCategoryListFailed   = "获取分类列表失败"
	MsgCategoryUpdateFailed = "更新分类失败"
	MsgCategoryDeleteFailed = "删除分类失败"

	// 目录相关
	MsgItemCreateFailed = "创建条目失败"
	MsgItemListFailed   = "获取条目列表失败"
	MsgItemGetFailed    = "获取条目详情失败"

	// 供应商相关
	MsgApplicationFailed = "提交申请失败"
	MsgReviewFailed      = "审核申请失败"
	MsgListingListFailed = "获取供应商列表失败"

	// 服务器错误
	MsgInternalError = "服务器内部错误，请稍后重试"
)

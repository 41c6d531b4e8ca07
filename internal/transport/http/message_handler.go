package httptransport

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/middleware"
	"brightonhub/backend/internal/service"
)

// MessageHandler 处理联系消息相关的 HTTP 请求
type MessageHandler struct {
	messages *service.MessageService
	log      *zap.Logger
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(messages *service.MessageService, log *zap.Logger) *MessageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageHandler{messages: messages, log: log}
}

type sendMessageRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Subject     string         `json:"subject"`
	Message     string         `json:"message"`
	ContentType string         `json:"contentType"`
	ContentID   *string        `json:"contentId"`
	RecipientID *string        `json:"recipientId"`
	ThreadID    string         `json:"threadId"`
	ReplyTo     *string        `json:"replyTo"`
	MessageType string         `json:"messageType"`
	Priority    string         `json:"priority"`
	Tags        []string       `json:"tags"`
	Attachments []string       `json:"attachments"`
	Metadata    map[string]any `json:"metadata"`

	// 群发字段（仅限管理员）
	Audience     string   `json:"audience"`
	RecipientIDs []string `json:"recipientIds"`
}

type sendMessageResponse struct {
	Success     bool                `json:"success"`
	MessageID   string              `json:"messageId"`
	ThreadID    string              `json:"threadId"`
	ItemContext *domain.ItemContext `json:"itemContext,omitempty"`
	Recipients  int                 `json:"recipients,omitempty"`
	Message     string              `json:"message"`
}

type batchUpdateRequest struct {
	IDs      []string  `json:"ids"`
	Status   *string   `json:"status"`
	Priority *string   `json:"priority"`
	Tags     *[]string `json:"tags"`
}

// CreateMessage 创建联系消息
// @Summary 发送消息
// @Description 创建联系/咨询消息。匿名访客可提交；已登录用户的发送者身份以会话为准；带 audience 或 recipientIds 的群发仅限管理员
// @Tags 消息
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "消息内容"
// @Success 201 {object} sendMessageResponse "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "群发仅限管理员"
// @Router /v1/contact-messages [post]
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	authUser := middleware.AuthUserFrom(c)

	result, err := h.messages.Send(authUser, service.SendMessageInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Subject:      req.Subject,
		Message:      req.Message,
		ContentType:  domain.ContentType(req.ContentType),
		ContentID:    req.ContentID,
		RecipientID:  req.RecipientID,
		ThreadID:     req.ThreadID,
		ReplyTo:      req.ReplyTo,
		MessageType:  domain.MessageType(req.MessageType),
		Priority:     domain.MessagePriority(req.Priority),
		Tags:         req.Tags,
		Attachments:  req.Attachments,
		Metadata:     req.Metadata,
		Audience:     req.Audience,
		RecipientIDs: req.RecipientIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, sendMessageResponse{
		Success:     true,
		MessageID:   result.Message.ID,
		ThreadID:    result.Message.ThreadID,
		ItemContext: result.ItemContext,
		Recipients:  result.Recipients,
		Message:     "消息已发送",
	})
}

// ListMessages 列出消息
// @Summary 消息列表
// @Description 默认按线程分组返回；指定 threadId 或 flat=true 时返回平铺列表。非管理员只能看到自己参与的消息
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param status query string false "读取状态 unread/read"
// @Param messageType query string false "消息类型"
// @Param threadId query string false "线程ID"
// @Param contentType query string false "内容类型"
// @Param priority query string false "优先级"
// @Param search query string false "关键词"
// @Param flat query bool false "true 时不做线程分组"
// @Param limit query int false "分页大小，默认 50"
// @Param offset query int false "分页偏移"
// @Success 200 {object} Response "消息列表"
// @Failure 401 {object} Response "未认证"
// @Router /v1/contact-messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	filter := domain.MessageFilter{
		Status:      domain.MessageStatus(c.Query("status")),
		MessageType: domain.MessageType(c.Query("messageType")),
		ThreadID:    c.Query("threadId"),
		ContentType: domain.ContentType(c.Query("contentType")),
		Priority:    domain.MessagePriority(c.Query("priority")),
		Search:      c.Query("search"),
		Limit:       parseIntQuery(c, "limit", 50),
		Offset:      parseIntQuery(c, "offset", 0),
	}

	// 指定线程或显式要求平铺时跳过分组
	flat := c.Query("flat") == "true" || filter.ThreadID != ""
	if flat {
		messages, total, err := h.messages.List(authUser, filter)
		if err != nil {
			RespondError(c, err)
			return
		}
		Success(c, gin.H{
			"messages": messages,
			"total":    total,
			"hasMore":  filter.Limit > 0 && len(messages) == filter.Limit,
		})
		return
	}

	threads, total, err := h.messages.ListThreads(authUser, filter)
	if err != nil {
		RespondError(c, err)
		return
	}

	// 分组基于当前页消息，页内消息数等于各线程计数之和
	pageSize := 0
	for _, thread := range threads {
		pageSize += thread.MessageCount
	}

	Success(c, gin.H{
		"threads": threads,
		"total":   total,
		"hasMore": filter.Limit > 0 && pageSize == filter.Limit,
	})
}

// GetMessage 获取单条消息
// @Summary 消息详情
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path string true "消息ID"
// @Success 200 {object} Response "消息详情"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "消息不存在"
// @Router /v1/contact-messages/{id} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	msg, err := h.messages.Get(authUser, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, msg)
}

// BatchUpdateMessages 批量更新消息
// @Summary 批量更新消息
// @Description 批量更新状态、优先级与标签。非管理员的更新范围限定为自己参与的消息
// @Tags 消息
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body batchUpdateRequest true "更新内容"
// @Success 200 {object} Response "更新行数"
// @Failure 400 {object} Response "请求参数错误"
// @Router /v1/contact-messages [patch]
func (h *MessageHandler) BatchUpdateMessages(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req batchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var patch domain.MessagePatch
	if req.Status != nil {
		status := domain.MessageStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.MessagePriority(*req.Priority)
		patch.Priority = &priority
	}
	patch.Tags = req.Tags

	updated, err := h.messages.BatchUpdate(authUser, req.IDs, patch)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"updated": updated})
}

// parseIntQuery 解析整型查询参数，非法或缺失时返回默认值
func parseIntQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

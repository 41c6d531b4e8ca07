package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/monitoring"
	"brightonhub/backend/internal/storage"
)

var (
	// ErrMissingFields 必填字段缺失
	ErrMissingFields = errors.New("name, email, subject and message are required")
	// ErrInvalidSenderEmail 发送者邮箱格式非法
	ErrInvalidSenderEmail = errors.New("invalid sender email")
	// ErrInvalidContentType 目录实体类型非法
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrInvalidPriority 优先级非法
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidStatus 消息状态非法
	ErrInvalidStatus = errors.New("invalid message status")
	// ErrBulkForbidden 群发仅限管理员
	ErrBulkForbidden = errors.New("bulk messaging requires admin role")
	// ErrNoRecipients 群发目标为空
	ErrNoRecipients = errors.New("bulk message has no recipients")
	// ErrMessageAccess 无权访问该消息
	ErrMessageAccess = errors.New("message access denied")
	// ErrNoMessageIDs 批量更新未指定消息
	ErrNoMessageIDs = errors.New("message ids are required")
)

// Notifier 负责投递消息通知邮件，实现方异步执行并回写发送标记。
type Notifier interface {
	Dispatch(msg domain.ContactMessage, itemCtx *domain.ItemContext)
}

// EventPublisher 负责向在线接收方推送新消息事件。
type EventPublisher interface {
	PublishNewMessage(recipientID string, msg *domain.ContactMessage)
}

// MessageService 封装联系消息相关业务操作。
type MessageService struct {
	repo     storage.MessageRepository
	userRepo storage.UserRepository
	catalog  *CatalogService
	notifier Notifier
	events   EventPublisher
	metrics  *monitoring.Metrics
	log      *zap.Logger
}

// NewMessageService 创建消息业务服务。
func NewMessageService(repo storage.MessageRepository, userRepo storage.UserRepository, catalog *CatalogService, log *zap.Logger) *MessageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageService{
		repo:     repo,
		userRepo: userRepo,
		catalog:  catalog,
		log:      log,
	}
}

// SetNotifier 设置通知邮件投递器。
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetEventPublisher 设置消息事件推送器。
func (s *MessageService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// SetMetrics 设置监控指标。
func (s *MessageService) SetMetrics(m *monitoring.Metrics) {
	s.metrics = m
}

// SendMessageInput 定义发送消息所需的输入。
type SendMessageInput struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	ContentType domain.ContentType
	ContentID   *string
	RecipientID *string
	ThreadID    string
	ReplyTo     *string
	MessageType domain.MessageType // 调用方显式指定的类型，可为空
	Priority    domain.MessagePriority
	Tags        []string
	Attachments []string
	Metadata    map[string]any

	// Audience 非空时按受众群发（仅限管理员），如 all_vendors、broadcast
	Audience string
	// RecipientIDs 显式指定的群发目标，与 Audience 合并去重
	RecipientIDs []string
}

// SendResult 发送消息的结果。
type SendResult struct {
	Message     *domain.ContactMessage
	ItemContext *domain.ItemContext
	Recipients  int // 群发时的实际接收者数量
}

// Send 创建一条联系消息，匿名访客与登录用户均可调用。
//
// 已登录时发送者身份以会话为准，忽略客户端提交的姓名与邮箱；
// 群发路径要求管理员角色，父消息与接收者记录在同一事务内落库。
func (s *MessageService) Send(authUser *domain.AuthUser, input SendMessageInput) (*SendResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)

	// 已登录用户的身份覆盖客户端提交值
	var senderID *string
	if authUser != nil {
		senderID = &authUser.ID
		if authUser.Name != "" {
			input.Name = authUser.Name
		}
		if authUser.Email != "" {
			input.Email = authUser.Email
		}
	}

	if input.Name == "" || input.Email == "" || input.Subject == "" || input.Message == "" {
		return nil, ErrMissingFields
	}
	if !domain.ValidEmail(input.Email) {
		return nil, ErrInvalidSenderEmail
	}

	if input.ContentType == "" {
		input.ContentType = domain.ContentGeneral
	}
	if !domain.ValidContentType(input.ContentType) {
		return nil, ErrInvalidContentType
	}

	if input.Priority == "" {
		input.Priority = domain.PriorityNormal
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	// 关联目录条目摘要，查询失败降级为空值
	var itemCtx *domain.ItemContext
	if s.catalog != nil && input.ContentType != domain.ContentGeneral && input.ContentID != nil && *input.ContentID != "" {
		ctx, err := s.catalog.GetItemContext(input.ContentType, *input.ContentID)
		if err != nil {
			s.log.Warn("item context lookup failed",
				zap.String("content_type", string(input.ContentType)),
				zap.String("content_id", *input.ContentID),
				zap.Error(err),
			)
		} else {
			itemCtx = ctx
		}
	}

	now := time.Now().UTC()
	msg := &domain.ContactMessage{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		SenderName:  input.Name,
		SenderEmail: strings.ToLower(input.Email),
		SenderPhone: strings.TrimSpace(input.Phone),
		RecipientID: input.RecipientID,
		Subject:     input.Subject,
		Message:     input.Message,
		ContentType: input.ContentType,
		ContentID:   input.ContentID,
		ReplyTo:     input.ReplyTo,
		Priority:    input.Priority,
		Tags:        input.Tags,
		Attachments: input.Attachments,
		Status:      domain.StatusUnread,
		Metadata:    input.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	msg.MessageType = domain.DeriveMessageType(input.Subject, input.ContentType, input.ContentID, input.MessageType)

	// 线程归属：未指定时开新线程
	msg.ThreadID = input.ThreadID
	if msg.ThreadID == "" {
		msg.ThreadID = uuid.NewString()
	}

	// 推导结果为群发时同样走群发路径，显式 bulk_message 覆盖不能绕过管理员校验
	if input.Audience != "" || len(input.RecipientIDs) > 0 || msg.MessageType == domain.TypeBulkMessage {
		return s.sendBulk(authUser, input, msg, itemCtx, now)
	}

	if err := s.repo.SaveContactMessage(msg); err != nil {
		return nil, err
	}

	s.addParticipants(authUser, msg, now)

	if s.metrics != nil {
		s.metrics.RecordMessageCreated(string(msg.MessageType))
	}
	if s.notifier != nil {
		s.notifier.Dispatch(*msg, itemCtx)
	}
	if s.events != nil && msg.RecipientID != nil {
		s.events.PublishNewMessage(*msg.RecipientID, msg)
	}

	s.log.Info("contact message created",
		zap.String("message_id", msg.ID),
		zap.String("thread_id", msg.ThreadID),
		zap.String("message_type", string(msg.MessageType)),
	)

	return &SendResult{Message: msg, ItemContext: itemCtx}, nil
}

// sendBulk 处理群发路径。
func (s *MessageService) sendBulk(authUser *domain.AuthUser, input SendMessageInput, msg *domain.ContactMessage, itemCtx *domain.ItemContext, now time.Time) (*SendResult, error) {
	if authUser == nil || !authUser.IsAdmin() {
		return nil, ErrBulkForbidden
	}

	recipientIDs, err := s.resolveAudience(input.Audience, input.RecipientIDs, authUser.ID)
	if err != nil {
		return nil, err
	}
	if len(recipientIDs) == 0 {
		return nil, ErrNoRecipients
	}

	msg.MessageType = domain.TypeBulkMessage
	msg.RecipientID = nil

	recipientType := input.Audience
	if recipientType == "" {
		recipientType = domain.AudienceBroadcast
	}

	recipients := make([]*domain.BulkMessageRecipient, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		recipients = append(recipients, &domain.BulkMessageRecipient{
			ID:            uuid.NewString(),
			MessageID:     msg.ID,
			RecipientID:   id,
			RecipientType: recipientType,
			Status:        domain.StatusUnread,
			DeliveredAt:   now,
		})
	}

	if err := s.repo.SaveBulkMessage(msg, recipients); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordMessageCreated(string(domain.TypeBulkMessage))
		s.metrics.RecordBulkFanout(len(recipients))
	}
	if s.events != nil {
		for _, r := range recipients {
			s.events.PublishNewMessage(r.RecipientID, msg)
		}
	}

	s.log.Info("bulk message created",
		zap.String("message_id", msg.ID),
		zap.String("audience", input.Audience),
		zap.Int("recipients", len(recipients)),
	)

	return &SendResult{Message: msg, ItemContext: itemCtx, Recipients: len(recipients)}, nil
}

// resolveAudience 解析群发目标，合并显式 ID 并去重，剔除发送者自身。
func (s *MessageService) resolveAudience(audience string, explicit []string, senderID string) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	add := func(id string) {
		if id == "" || id == senderID {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	switch audience {
	case "":
		// 仅显式目标
	case domain.AudienceAllVendors:
		vendors, err := s.userRepo.ListUsersByRole(domain.RoleVendor)
		if err != nil {
			return nil, err
		}
		for _, v := range vendors {
			if v.IsActive {
				add(v.ID)
			}
		}
	case domain.AudienceBroadcast:
		for _, role := range []domain.UserRole{domain.RoleUser, domain.RoleVendor} {
			users, err := s.userRepo.ListUsersByRole(role)
			if err != nil {
				return nil, err
			}
			for _, u := range users {
				if u.IsActive {
					add(u.ID)
				}
			}
		}
	default:
		return nil, ErrNoRecipients
	}

	for _, id := range explicit {
		add(id)
	}
	return out, nil
}

// addParticipants 记录线程成员，双方身份已知时各写一行，失败仅告警。
func (s *MessageService) addParticipants(authUser *domain.AuthUser, msg *domain.ContactMessage, now time.Time) {
	participants := make([]*domain.MessageParticipant, 0, 2)
	if msg.SenderID != nil {
		userType := "user"
		if authUser != nil {
			userType = string(authUser.Role)
		}
		participants = append(participants, &domain.MessageParticipant{
			ThreadID: msg.ThreadID,
			UserID:   *msg.SenderID,
			UserType: userType,
			JoinedAt: now,
		})
	}
	if msg.RecipientID != nil {
		participants = append(participants, &domain.MessageParticipant{
			ThreadID: msg.ThreadID,
			UserID:   *msg.RecipientID,
			UserType: "user",
			JoinedAt: now,
		})
	}
	if len(participants) == 0 {
		return
	}
	if err := s.repo.AddMessageParticipants(participants); err != nil {
		s.log.Warn("add participants failed",
			zap.String("thread_id", msg.ThreadID),
			zap.Error(err),
		)
	}
}

// List 按条件列出消息，非管理员只能看到自己发送或接收的行。
func (s *MessageService) List(authUser *domain.AuthUser, filter domain.MessageFilter) ([]domain.ContactMessage, int64, error) {
	if authUser == nil {
		return nil, 0, ErrMessageAccess
	}
	if !authUser.IsAdmin() {
		filter.UserID = &authUser.ID
	}
	if filter.Status != "" && filter.Status != domain.StatusUnread && filter.Status != domain.StatusRead {
		return nil, 0, ErrInvalidStatus
	}

	messages, err := s.repo.ListContactMessages(filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountContactMessages(filter)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// ListThreads 将消息按线程分组返回。
func (s *MessageService) ListThreads(authUser *domain.AuthUser, filter domain.MessageFilter) ([]domain.ThreadSummary, int64, error) {
	messages, total, err := s.List(authUser, filter)
	if err != nil {
		return nil, 0, err
	}
	if s.metrics != nil {
		s.metrics.ThreadsGrouped.Inc()
	}
	return domain.GroupByThread(messages), total, nil
}

// Get 获取单条消息，非管理员仅限自己参与的消息。
func (s *MessageService) Get(authUser *domain.AuthUser, id string) (*domain.ContactMessage, error) {
	if authUser == nil {
		return nil, ErrMessageAccess
	}
	msg, err := s.repo.GetContactMessage(id)
	if err != nil {
		return nil, err
	}
	if !authUser.IsAdmin() && !msg.InvolvesUser(authUser.ID) {
		return nil, ErrMessageAccess
	}
	return msg, nil
}

// BatchUpdate 批量更新消息状态、优先级与标签。
//
// 非管理员的更新范围限定为自己参与的消息，范围外的 id 静默跳过。
func (s *MessageService) BatchUpdate(authUser *domain.AuthUser, ids []string, patch domain.MessagePatch) (int64, error) {
	if authUser == nil {
		return 0, ErrMessageAccess
	}
	if len(ids) == 0 {
		return 0, ErrNoMessageIDs
	}
	if patch.Status != nil && *patch.Status != domain.StatusUnread && *patch.Status != domain.StatusRead {
		return 0, ErrInvalidStatus
	}
	if patch.Priority != nil && !domain.ValidPriority(*patch.Priority) {
		return 0, ErrInvalidPriority
	}

	var scope *string
	if !authUser.IsAdmin() {
		scope = &authUser.ID
	}

	updated, err := s.repo.UpdateContactMessages(ids, scope, patch)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil && updated > 0 {
		s.metrics.MessagesUpdated.Inc()
	}
	return updated, nil
}

// MarkEmailSent 通知邮件发送成功后的回写入口。
func (s *MessageService) MarkEmailSent(messageID string, sentAt time.Time) error {
	return s.repo.MarkEmailSent(messageID, sentAt)
}

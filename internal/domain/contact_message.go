package domain

import (
	"strings"
	"time"
)

// MessageStatus 消息读取状态
type MessageStatus string

const (
	StatusUnread MessageStatus = "unread"
	StatusRead   MessageStatus = "read"
)

// MessagePriority 消息优先级
type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityNormal MessagePriority = "normal"
	PriorityHigh   MessagePriority = "high"
)

// MessageType 消息类型
type MessageType string

const (
	TypeContactForm    MessageType = "contact_form"    // 联系表单
	TypeProductInquiry MessageType = "product_inquiry" // 商品咨询
	TypeDirectMessage  MessageType = "direct_message"  // 站内私信
	TypeBulkMessage    MessageType = "bulk_message"    // 群发消息
)

// ContentType 消息关联的目录实体类型
type ContentType string

const (
	ContentProperty     ContentType = "property"
	ContentProject      ContentType = "project"
	ContentFoodItem     ContentType = "food_item"
	ContentStoreProduct ContentType = "store_product"
	ContentBlogPost     ContentType = "blog_post"
	ContentGeneral      ContentType = "general"
)

// ValidContentType 判断目录实体类型是否合法
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentProperty, ContentProject, ContentFoodItem,
		ContentStoreProduct, ContentBlogPost, ContentGeneral:
		return true
	}
	return false
}

// ContactMessage 表示一条站内联系/咨询消息
//
// 匿名访客提交的消息 SenderID 为空；群发消息 RecipientID 为空。
// 消息一经创建正文不可修改，仅允许更新状态、优先级与标签。
type ContactMessage struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID    *string         `json:"senderId" gorm:"type:varchar(36);index"`
	SenderName  string          `json:"senderName" gorm:"type:varchar(100);not null"`
	SenderEmail string          `json:"senderEmail" gorm:"type:varchar(255);not null"`
	SenderPhone string          `json:"senderPhone,omitempty" gorm:"type:varchar(30)"`
	RecipientID *string         `json:"recipientId" gorm:"type:varchar(36);index"`
	Subject     string          `json:"subject" gorm:"type:varchar(500);not null"`
	Message     string          `json:"message" gorm:"type:text;not null"`
	ContentType ContentType     `json:"contentType" gorm:"type:varchar(20);default:'general';index"`
	ContentID   *string         `json:"contentId" gorm:"type:varchar(36)"`
	ThreadID    string          `json:"threadId" gorm:"type:varchar(36);index"`
	ReplyTo     *string         `json:"replyTo" gorm:"type:varchar(36)"`
	MessageType MessageType     `json:"messageType" gorm:"type:varchar(20);index"`
	Priority    MessagePriority `json:"priority" gorm:"type:varchar(10);default:'normal'"`
	Tags        []string        `json:"tags" gorm:"serializer:json"`
	Attachments []string        `json:"attachments" gorm:"serializer:json"` // 附件引用（对象存储 key）
	Status      MessageStatus   `json:"status" gorm:"type:varchar(10);default:'unread';index"`
	ReadAt      *time.Time      `json:"readAt"`
	EmailSent   bool            `json:"emailSent" gorm:"default:false"`
	EmailSentAt *time.Time      `json:"emailSentAt"`
	Metadata    map[string]any  `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InvolvesUser 判断用户是否为该消息的发送方或接收方
func (m *ContactMessage) InvolvesUser(userID string) bool {
	if m.SenderID != nil && *m.SenderID == userID {
		return true
	}
	if m.RecipientID != nil && *m.RecipientID == userID {
		return true
	}
	return false
}

// DeriveMessageType 按规则推导消息类型
//
// 规则（按顺序）：
//  1. 主题包含 "contact form"（不区分大小写）→ contact_form
//  2. 目录类型非 general 且带 content_id → product_inquiry
//  3. 调用方显式指定的类型
//  4. 默认 direct_message
func DeriveMessageType(subject string, contentType ContentType, contentID *string, override MessageType) MessageType {
	if strings.Contains(strings.ToLower(subject), "contact form") {
		return TypeContactForm
	}
	if contentType != ContentGeneral && contentType != "" && contentID != nil && *contentID != "" {
		return TypeProductInquiry
	}
	if override != "" {
		return override
	}
	return TypeDirectMessage
}

// BulkMessageRecipient 群发消息的单个接收者记录
//
// 与父消息在同一事务内创建，不允许存在无父消息的孤儿行。
type BulkMessageRecipient struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MessageID     string        `json:"messageId" gorm:"type:varchar(36);index;not null"`
	RecipientID   string        `json:"recipientId" gorm:"type:varchar(36);index;not null"`
	RecipientType string        `json:"recipientType" gorm:"type:varchar(30)"` // 目标受众标签，如 "all_vendors"
	Status        MessageStatus `json:"status" gorm:"type:varchar(10);default:'unread'"`
	DeliveredAt   time.Time     `json:"deliveredAt"`
}

// MessageParticipant 会话线程的成员记录
//
// (ThreadID, UserID) 组合唯一，重复加入按无操作处理。
type MessageParticipant struct {
	ThreadID string    `json:"threadId" gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `json:"userId" gorm:"primaryKey;type:varchar(36)"`
	UserType string    `json:"userType" gorm:"type:varchar(20);default:'user'"`
	JoinedAt time.Time `json:"joinedAt"`
}

// MessageFilter 消息列表查询条件
type MessageFilter struct {
	// UserID 非空时限定结果为该用户发送或接收的消息（非管理员范围）
	UserID      *string
	Status      MessageStatus
	MessageType MessageType
	ThreadID    string
	ContentType ContentType
	Priority    MessagePriority
	// Search 对主题、正文、发送者姓名做不区分大小写的子串匹配
	Search string
	Limit  int
	Offset int
}

// MessagePatch 消息批量更新的字段集合，nil 字段不变更
type MessagePatch struct {
	Status   *MessageStatus
	Priority *MessagePriority
	Tags     *[]string
}

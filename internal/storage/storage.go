package storage

import (
	"errors"
	"time"

	"brightonhub/backend/internal/domain"
)

var (
	// ErrMessageNotFound 消息不存在
	ErrMessageNotFound = errors.New("message not found")
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = errors.New("category not found")
	// ErrItemNotFound 目录条目不存在
	ErrItemNotFound = errors.New("catalog item not found")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists 邮箱已被注册
	ErrEmailExists = errors.New("email already exists")
	// ErrSlugExists 同板块下 slug 已存在
	ErrSlugExists = errors.New("slug already exists")
	// ErrApplicationNotFound 供应商申请不存在
	ErrApplicationNotFound = errors.New("vendor application not found")
	// ErrListingNotFound 供应商名录条目不存在
	ErrListingNotFound = errors.New("vendor listing not found")
)

// MessageRepository 定义联系消息数据存取操作。
type MessageRepository interface {
	SaveContactMessage(msg *domain.ContactMessage) error
	// SaveBulkMessage 在同一事务内创建父消息与全部接收者记录
	SaveBulkMessage(msg *domain.ContactMessage, recipients []*domain.BulkMessageRecipient) error
	GetContactMessage(id string) (*domain.ContactMessage, error)
	ListContactMessages(filter domain.MessageFilter) ([]domain.ContactMessage, error)
	CountContactMessages(filter domain.MessageFilter) (int64, error)
	// UpdateContactMessages 批量更新；scopeUserID 非空时仅更新该用户
	// 为发送方或接收方的行，范围外的 id 静默跳过。返回实际更新行数。
	UpdateContactMessages(ids []string, scopeUserID *string, patch domain.MessagePatch) (int64, error)
	// AddMessageParticipants 写入线程成员，(thread_id, user_id) 重复时忽略
	AddMessageParticipants(participants []*domain.MessageParticipant) error
	ListMessageParticipants(threadID string) ([]domain.MessageParticipant, error)
	ListBulkRecipients(messageID string) ([]domain.BulkMessageRecipient, error)
	// MarkEmailSent 通知邮件发送成功后回写标记
	MarkEmailSent(messageID string, sentAt time.Time) error
}

// CategoryRepository 定义分类数据存取操作。
type CategoryRepository interface {
	SaveCategory(category *domain.Category) error
	GetCategory(id string) (*domain.Category, error)
	GetCategoryBySlug(categoryType domain.CategoryType, slug string) (*domain.Category, error)
	// ListCategories 仅返回活跃分类，按 sort_order、name 排序
	ListCategories(filter domain.CategoryFilter) ([]domain.Category, error)
	CountActiveChildren(parentID string) (int64, error)
}

// CatalogRepository 定义各板块目录数据存取操作。
type CatalogRepository interface {
	SaveProperty(p *domain.Property) error
	GetProperty(id string) (*domain.Property, error)
	ListProperties(filter domain.CatalogFilter) ([]domain.Property, error)

	SaveFoodItem(f *domain.FoodItem) error
	GetFoodItem(id string) (*domain.FoodItem, error)
	ListFoodItems(filter domain.CatalogFilter) ([]domain.FoodItem, error)

	SaveStoreProduct(p *domain.StoreProduct) error
	GetStoreProduct(id string) (*domain.StoreProduct, error)
	ListStoreProducts(filter domain.CatalogFilter) ([]domain.StoreProduct, error)

	SaveProject(p *domain.Project) error
	GetProject(id string) (*domain.Project, error)
	ListProjects(filter domain.CatalogFilter) ([]domain.Project, error)

	SaveBlogPost(p *domain.BlogPost) error
	GetBlogPost(id string) (*domain.BlogPost, error)
	ListBlogPosts(filter domain.CatalogFilter) ([]domain.BlogPost, error)
}

// UserRepository 定义用户数据存取操作。
type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUserByID(id string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	UpdateUser(user *domain.User) error
	UpdateLastLogin(userID string) error
	ListUsersByRole(role domain.UserRole) ([]domain.User, error)
}

// VendorRepository 定义供应商名录与申请数据存取操作。
type VendorRepository interface {
	SaveVendorListing(listing *domain.VendorListing) error
	GetVendorListing(id string) (*domain.VendorListing, error)
	ListVendorListings(activeOnly bool) ([]domain.VendorListing, error)

	SaveVendorApplication(app *domain.VendorApplication) error
	GetVendorApplication(id string) (*domain.VendorApplication, error)
	ListVendorApplications(status domain.ApplicationStatus) ([]domain.VendorApplication, error)
}

// Store 定义完整的存储接口。
type Store interface {
	MessageRepository
	CategoryRepository
	CatalogRepository
	UserRepository
	VendorRepository

	Close() error
	Health() error
}

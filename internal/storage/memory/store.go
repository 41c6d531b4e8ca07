package memory

import (
	"sync"

	"brightonhub/backend/internal/domain"
)

// Store 使用内存保存全部业务数据，主要用于开发验证与测试。
type Store struct {
	mu sync.RWMutex

	messages       map[string]*domain.ContactMessage               // messageID -> message
	messageOrder   []string                                        // 插入顺序，保证遍历稳定
	bulkRecipients map[string][]*domain.BulkMessageRecipient       // messageID -> recipients
	participants   map[string]map[string]*domain.MessageParticipant // threadID -> userID -> participant

	categories map[string]*domain.Category // categoryID -> category

	properties    map[string]*domain.Property
	foodItems     map[string]*domain.FoodItem
	storeProducts map[string]*domain.StoreProduct
	projects      map[string]*domain.Project
	blogPosts     map[string]*domain.BlogPost

	users   map[string]*domain.User // userID -> user
	byEmail map[string]string       // email -> userID

	listings     map[string]*domain.VendorListing     // listingID -> listing
	applications map[string]*domain.VendorApplication // applicationID -> application
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		messages:       make(map[string]*domain.ContactMessage),
		bulkRecipients: make(map[string][]*domain.BulkMessageRecipient),
		participants:   make(map[string]map[string]*domain.MessageParticipant),
		categories:     make(map[string]*domain.Category),
		properties:     make(map[string]*domain.Property),
		foodItems:      make(map[string]*domain.FoodItem),
		storeProducts:  make(map[string]*domain.StoreProduct),
		projects:       make(map[string]*domain.Project),
		blogPosts:      make(map[string]*domain.BlogPost),
		users:          make(map[string]*domain.User),
		byEmail:        make(map[string]string),
		listings:       make(map[string]*domain.VendorListing),
		applications:   make(map[string]*domain.VendorApplication),
	}
}

// Close 关闭存储（内存实现为空操作）。
func (s *Store) Close() error { return nil }

// Health 检查存储健康状态（内存实现总是健康）。
func (s *Store) Health() error { return nil }

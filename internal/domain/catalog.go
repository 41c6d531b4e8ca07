package domain

import "time"

// Property 房产信息
type Property struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Price       float64   `json:"price"`
	Location    string    `json:"location" gorm:"type:varchar(255);index"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	CategoryID  *string   `json:"categoryId" gorm:"type:varchar(36);index"`
	OwnerID     *string   `json:"ownerId" gorm:"type:varchar(36);index"`
	Images      []string  `json:"images" gorm:"serializer:json"`
	IsActive    bool      `json:"isActive" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FoodItem 食品供应条目
type FoodItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit,omitempty" gorm:"type:varchar(30)"` // 计价单位，如 kg、箱
	Origin      string    `json:"origin,omitempty" gorm:"type:varchar(100)"`
	CategoryID  *string   `json:"categoryId" gorm:"type:varchar(36);index"`
	VendorID    *string   `json:"vendorId" gorm:"type:varchar(36);index"`
	Images      []string  `json:"images" gorm:"serializer:json"`
	IsActive    bool      `json:"isActive" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StoreProduct 综合市场商品
type StoreProduct struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	CategoryID  *string        `json:"categoryId" gorm:"type:varchar(36);index"`
	VendorID    *string        `json:"vendorId" gorm:"type:varchar(36);index"`
	Specs       map[string]any `json:"specs,omitempty" gorm:"serializer:json"` // 按分类约定的规格属性
	Images      []string       `json:"images" gorm:"serializer:json"`
	IsActive    bool           `json:"isActive" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Project 项目展示条目
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Location    string    `json:"location,omitempty" gorm:"type:varchar(255)"`
	Budget      float64   `json:"budget"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'planned'"` // planned/ongoing/completed
	CategoryID  *string   `json:"categoryId" gorm:"type:varchar(36);index"`
	Images      []string  `json:"images" gorm:"serializer:json"`
	IsActive    bool      `json:"isActive" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BlogPost 博客文章
type BlogPost struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string     `json:"slug" gorm:"type:varchar(300);index"`
	Excerpt     string     `json:"excerpt,omitempty" gorm:"type:varchar(500)"`
	Content     string     `json:"content" gorm:"type:text"`
	AuthorID    *string    `json:"authorId" gorm:"type:varchar(36);index"`
	CategoryID  *string    `json:"categoryId" gorm:"type:varchar(36);index"`
	CoverImage  string     `json:"coverImage,omitempty" gorm:"type:varchar(500)"`
	IsActive    bool       `json:"isActive" gorm:"default:true;index"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ItemContext 消息关联目录条目的展示摘要
//
// 仅用于响应与通知邮件的上下文补充，查询失败按空值降级。
type ItemContext struct {
	Type     ContentType `json:"type"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Price    *float64    `json:"price,omitempty"`
	Location string      `json:"location,omitempty"`
	Image    string      `json:"image,omitempty"`
}

// CatalogFilter 目录列表查询条件
type CatalogFilter struct {
	CategoryID *string
	VendorID   *string
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

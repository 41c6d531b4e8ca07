package domain

import "time"

// CategoryType 分类所属的业务板块
type CategoryType string

const (
	CategoryProject  CategoryType = "project"
	CategoryProperty CategoryType = "property"
	CategoryFood     CategoryType = "food"
	CategoryBlog     CategoryType = "blog"
)

// ValidCategoryType 判断分类板块是否合法
func ValidCategoryType(t CategoryType) bool {
	switch t {
	case CategoryProject, CategoryProperty, CategoryFood, CategoryBlog:
		return true
	}
	return false
}

// Category 跨板块通用的层级分类
//
// 删除为软删除（is_active=false）；存在活跃子分类时父分类不可删除。
type Category struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string       `json:"name" gorm:"type:varchar(100);not null"`
	Type        CategoryType `json:"type" gorm:"type:varchar(20);not null;index"`
	Slug        string       `json:"slug" gorm:"type:varchar(120);not null;index"`
	Description string       `json:"description,omitempty" gorm:"type:varchar(500)"`
	ParentID    *string      `json:"parentId" gorm:"type:varchar(36);index"`
	SortOrder   int          `json:"sortOrder" gorm:"default:0"`
	IsActive    bool         `json:"isActive" gorm:"default:true;index"`
	Children    []Category   `json:"children,omitempty" gorm:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CategoryFilter 分类列表查询条件
type CategoryFilter struct {
	Type     CategoryType
	ParentID *string
	// IncludeChildren 为 true 时预载一层子分类
	IncludeChildren bool
}

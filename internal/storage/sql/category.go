package sql

import (
	"errors"

	"gorm.io/gorm"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// SaveCategory 保存分类（新建或更新）。
func (s *Store) SaveCategory(category *domain.Category) error {
	copied := *category
	copied.Children = nil // 子分类在查询时按需装配
	return s.db.Save(&copied).Error
}

// GetCategory 根据 ID 获取分类。
func (s *Store) GetCategory(id string) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.First(&cat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetCategoryBySlug 按板块与 slug 获取活跃分类。
func (s *Store) GetCategoryBySlug(categoryType domain.CategoryType, slug string) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.Where("type = ? AND LOWER(slug) = LOWER(?) AND is_active = ?", categoryType, slug, true).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListCategories 列出活跃分类，按 sort_order、name 排序。
func (s *Store) ListCategories(filter domain.CategoryFilter) ([]domain.Category, error) {
	query := s.db.Where("is_active = ?", true)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}

	categories := make([]domain.Category, 0)
	if err := query.Order("sort_order, name").Find(&categories).Error; err != nil {
		return nil, err
	}

	if filter.IncludeChildren {
		for i := range categories {
			children := make([]domain.Category, 0)
			err := s.db.Where("parent_id = ? AND is_active = ?", categories[i].ID, true).
				Order("sort_order, name").Find(&children).Error
			if err != nil {
				return nil, err
			}
			categories[i].Children = children
		}
	}
	return categories, nil
}

// CountActiveChildren 统计活跃子分类数量。
func (s *Store) CountActiveChildren(parentID string) (int64, error) {
	var count int64
	err := s.db.Model(&domain.Category{}).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Count(&count).Error
	return count, err
}

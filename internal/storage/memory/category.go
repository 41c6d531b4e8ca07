package memory

import (
	"sort"
	"strings"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// SaveCategory 保存分类（新建或更新）。
func (s *Store) SaveCategory(category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *category
	copied.Children = nil // 子分类在查询时按需装配
	s.categories[category.ID] = &copied
	return nil
}

// GetCategory 根据 ID 获取分类。
func (s *Store) GetCategory(id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.categories[id]
	if !ok {
		return nil, storage.ErrCategoryNotFound
	}
	copied := *cat
	return &copied, nil
}

// GetCategoryBySlug 按板块与 slug 获取活跃分类。
func (s *Store) GetCategoryBySlug(categoryType domain.CategoryType, slug string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cat := range s.categories {
		if cat.Type == categoryType && strings.EqualFold(cat.Slug, slug) && cat.IsActive {
			copied := *cat
			return &copied, nil
		}
	}
	return nil, storage.ErrCategoryNotFound
}

// ListCategories 列出活跃分类，按 sort_order、name 排序。
func (s *Store) ListCategories(filter domain.CategoryFilter) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Category, 0)
	for _, cat := range s.categories {
		if !cat.IsActive {
			continue
		}
		if filter.Type != "" && cat.Type != filter.Type {
			continue
		}
		if filter.ParentID != nil {
			if cat.ParentID == nil || *cat.ParentID != *filter.ParentID {
				continue
			}
		}
		matched = append(matched, *cat)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SortOrder != matched[j].SortOrder {
			return matched[i].SortOrder < matched[j].SortOrder
		}
		return matched[i].Name < matched[j].Name
	})

	if filter.IncludeChildren {
		for i := range matched {
			matched[i].Children = s.activeChildren(matched[i].ID)
		}
	}
	return matched, nil
}

// activeChildren 装配一层活跃子分类，调用方必须持有读锁。
func (s *Store) activeChildren(parentID string) []domain.Category {
	children := make([]domain.Category, 0)
	for _, cat := range s.categories {
		if cat.IsActive && cat.ParentID != nil && *cat.ParentID == parentID {
			children = append(children, *cat)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].SortOrder != children[j].SortOrder {
			return children[i].SortOrder < children[j].SortOrder
		}
		return children[i].Name < children[j].Name
	})
	return children
}

// CountActiveChildren 统计活跃子分类数量。
func (s *Store) CountActiveChildren(parentID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, cat := range s.categories {
		if cat.IsActive && cat.ParentID != nil && *cat.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

package memory

import (
	"sort"
	"strings"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// ========== Property ==========

// SaveProperty 保存房产条目。
func (s *Store) SaveProperty(p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.properties[p.ID] = &copied
	return nil
}

// GetProperty 根据 ID 获取房产条目。
func (s *Store) GetProperty(id string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	copied := *p
	return &copied, nil
}

// ListProperties 按条件列出房产条目。
func (s *Store) ListProperties(filter domain.CatalogFilter) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Property, 0)
	for _, p := range s.properties {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !containsFold(p.Title, filter.Search) && !containsFold(p.Location, filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	sortByCreatedDesc(matched, func(p domain.Property) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return paginate(matched, filter.Limit, filter.Offset), nil
}

// ========== FoodItem ==========

// SaveFoodItem 保存食品条目。
func (s *Store) SaveFoodItem(f *domain.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *f
	s.foodItems[f.ID] = &copied
	return nil
}

// GetFoodItem 根据 ID 获取食品条目。
func (s *Store) GetFoodItem(id string) (*domain.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.foodItems[id]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	copied := *f
	return &copied, nil
}

// ListFoodItems 按条件列出食品条目。
func (s *Store) ListFoodItems(filter domain.CatalogFilter) ([]domain.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.FoodItem, 0)
	for _, f := range s.foodItems {
		if filter.ActiveOnly && !f.IsActive {
			continue
		}
		if filter.CategoryID != nil && (f.CategoryID == nil || *f.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.VendorID != nil && (f.VendorID == nil || *f.VendorID != *filter.VendorID) {
			continue
		}
		if filter.Search != "" && !containsFold(f.Name, filter.Search) {
			continue
		}
		matched = append(matched, *f)
	}
	sortByCreatedDesc(matched, func(f domain.FoodItem) (string, int64) { return f.ID, f.CreatedAt.UnixNano() })
	return paginate(matched, filter.Limit, filter.Offset), nil
}

// ========== StoreProduct ==========

// SaveStoreProduct 保存商品条目。
func (s *Store) SaveStoreProduct(p *domain.StoreProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.storeProducts[p.ID] = &copied
	return nil
}

// GetStoreProduct 根据 ID 获取商品条目。
func (s *Store) GetStoreProduct(id string) (*domain.StoreProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.storeProducts[id]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	copied := *p
	return &copied, nil
}

// ListStoreProducts 按条件列出商品条目。
func (s *Store) ListStoreProducts(filter domain.CatalogFilter) ([]domain.StoreProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.StoreProduct, 0)
	for _, p := range s.storeProducts {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.VendorID != nil && (p.VendorID == nil || *p.VendorID != *filter.VendorID) {
			continue
		}
		if filter.Search != "" && !containsFold(p.Name, filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	sortByCreatedDesc(matched, func(p domain.StoreProduct) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return paginate(matched, filter.Limit, filter.Offset), nil
}

// ========== Project ==========

// SaveProject 保存项目条目。
func (s *Store) SaveProject(p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.projects[p.ID] = &copied
	return nil
}

// GetProject 根据 ID 获取项目条目。
func (s *Store) GetProject(id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	copied := *p
	return &copied, nil
}

// ListProjects 按条件列出项目条目。
func (s *Store) ListProjects(filter domain.CatalogFilter) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Project, 0)
	for _, p := range s.projects {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !containsFold(p.Title, filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	sortByCreatedDesc(matched, func(p domain.Project) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return paginate(matched, filter.Limit, filter.Offset), nil
}

// ========== BlogPost ==========

// SaveBlogPost 保存博客文章。
func (s *Store) SaveBlogPost(p *domain.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.blogPosts[p.ID] = &copied
	return nil
}

// GetBlogPost 根据 ID 获取博客文章。
func (s *Store) GetBlogPost(id string) (*domain.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.blogPosts[id]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	copied := *p
	return &copied, nil
}

// ListBlogPosts 按条件列出博客文章。
func (s *Store) ListBlogPosts(filter domain.CatalogFilter) ([]domain.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.BlogPost, 0)
	for _, p := range s.blogPosts {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !containsFold(p.Title, filter.Search) {
			continue
		}
		matched = append(matched, *p)
	}
	sortByCreatedDesc(matched, func(p domain.BlogPost) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return paginate(matched, filter.Limit, filter.Offset), nil
}

// ========== 工具函数 ==========

// containsFold 不区分大小写的子串匹配
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortByCreatedDesc 按创建时间倒序排序，时间相同按 ID 稳定
func sortByCreatedDesc[T any](items []T, key func(T) (string, int64)) {
	sort.SliceStable(items, func(i, j int) bool {
		idI, tI := key(items[i])
		idJ, tJ := key(items[j])
		if tI == tJ {
			return idI > idJ
		}
		return tI > tJ
	})
}

// paginate 应用 limit/offset 分页
func paginate[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

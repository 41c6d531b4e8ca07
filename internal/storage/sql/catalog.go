package sql

import (
	"errors"

	"gorm.io/gorm"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// catalogQuery 应用目录公共过滤条件，searchCols 指定参与搜索的列。
func (s *Store) catalogQuery(model any, filter domain.CatalogFilter, searchCols ...string) *gorm.DB {
	query := s.db.Model(model)
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		sub := s.db
		for i, col := range searchCols {
			if i == 0 {
				sub = s.db.Where("LOWER("+col+") LIKE LOWER(?)", pattern)
			} else {
				sub = sub.Or("LOWER("+col+") LIKE LOWER(?)", pattern)
			}
		}
		query = query.Where(sub)
	}
	query = query.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

// getByID 按主键查询单个目录条目。
func (s *Store) getByID(dest any, id string) error {
	err := s.db.First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrItemNotFound
	}
	return err
}

// ========== Property ==========

// SaveProperty 保存房产条目。
func (s *Store) SaveProperty(p *domain.Property) error {
	return s.db.Save(p).Error
}

// GetProperty 根据 ID 获取房产条目。
func (s *Store) GetProperty(id string) (*domain.Property, error) {
	var p domain.Property
	if err := s.getByID(&p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProperties 按条件列出房产条目。
func (s *Store) ListProperties(filter domain.CatalogFilter) ([]domain.Property, error) {
	out := make([]domain.Property, 0)
	err := s.catalogQuery(&domain.Property{}, filter, "title", "location").Find(&out).Error
	return out, err
}

// ========== FoodItem ==========

// SaveFoodItem 保存食品条目。
func (s *Store) SaveFoodItem(f *domain.FoodItem) error {
	return s.db.Save(f).Error
}

// GetFoodItem 根据 ID 获取食品条目。
func (s *Store) GetFoodItem(id string) (*domain.FoodItem, error) {
	var f domain.FoodItem
	if err := s.getByID(&f, id); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFoodItems 按条件列出食品条目。
func (s *Store) ListFoodItems(filter domain.CatalogFilter) ([]domain.FoodItem, error) {
	query := s.catalogQuery(&domain.FoodItem{}, filter, "name")
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	out := make([]domain.FoodItem, 0)
	err := query.Find(&out).Error
	return out, err
}

// ========== StoreProduct ==========

// SaveStoreProduct 保存商品条目。
func (s *Store) SaveStoreProduct(p *domain.StoreProduct) error {
	return s.db.Save(p).Error
}

// GetStoreProduct 根据 ID 获取商品条目。
func (s *Store) GetStoreProduct(id string) (*domain.StoreProduct, error) {
	var p domain.StoreProduct
	if err := s.getByID(&p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListStoreProducts 按条件列出商品条目。
func (s *Store) ListStoreProducts(filter domain.CatalogFilter) ([]domain.StoreProduct, error) {
	query := s.catalogQuery(&domain.StoreProduct{}, filter, "name")
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	out := make([]domain.StoreProduct, 0)
	err := query.Find(&out).Error
	return out, err
}

// ========== Project ==========

// SaveProject 保存项目条目。
func (s *Store) SaveProject(p *domain.Project) error {
	return s.db.Save(p).Error
}

// GetProject 根据 ID 获取项目条目。
func (s *Store) GetProject(id string) (*domain.Project, error) {
	var p domain.Project
	if err := s.getByID(&p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects 按条件列出项目条目。
func (s *Store) ListProjects(filter domain.CatalogFilter) ([]domain.Project, error) {
	out := make([]domain.Project, 0)
	err := s.catalogQuery(&domain.Project{}, filter, "title").Find(&out).Error
	return out, err
}

// ========== BlogPost ==========

// SaveBlogPost 保存博客文章。
func (s *Store) SaveBlogPost(p *domain.BlogPost) error {
	return s.db.Save(p).Error
}

// GetBlogPost 根据 ID 获取博客文章。
func (s *Store) GetBlogPost(id string) (*domain.BlogPost, error) {
	var p domain.BlogPost
	if err := s.getByID(&p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListBlogPosts 按条件列出博客文章。
func (s *Store) ListBlogPosts(filter domain.CatalogFilter) ([]domain.BlogPost, error) {
	out := make([]domain.BlogPost, 0)
	err := s.catalogQuery(&domain.BlogPost{}, filter, "title").Find(&out).Error
	return out, err
}

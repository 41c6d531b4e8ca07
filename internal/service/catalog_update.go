package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
)

// 目录条目的部分更新与软删除。nil 字段不变更；
// 变更后失效对应的条目摘要缓存。

// UpdatePropertyInput 更新房产条目的输入。
type UpdatePropertyInput struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Bedrooms    *int
	Bathrooms   *int
	CategoryID  *string
	Images      *[]string
	IsActive    *bool
}

// UpdateProperty 部分更新房产条目。
func (s *CatalogService) UpdateProperty(id string, input UpdatePropertyInput) (*domain.Property, error) {
	p, err := s.repo.GetProperty(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrItemTitleRequired
		}
		p.Title = title
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Location != nil {
		p.Location = *input.Location
	}
	if input.Bedrooms != nil {
		p.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		p.Bathrooms = *input.Bathrooms
	}
	if input.CategoryID != nil {
		p.CategoryID = input.CategoryID
	}
	if input.Images != nil {
		p.Images = *input.Images
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveProperty(p); err != nil {
		return nil, err
	}
	s.invalidateItemContext(domain.ContentProperty, id)
	return p, nil
}

// DeleteProperty 软删除房产条目。
func (s *CatalogService) DeleteProperty(id string) error {
	p, err := s.repo.GetProperty(id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveProperty(p); err != nil {
		return err
	}
	s.invalidateItemContext(domain.ContentProperty, id)
	return nil
}

// UpdateFoodItemInput 更新食品条目的输入。
type UpdateFoodItemInput struct {
	Name        *string
	Description *string
	Price       *float64
	Unit        *string
	Origin      *string
	CategoryID  *string
	VendorID    *string
	Images      *[]string
	IsActive    *bool
}

// UpdateFoodItem 部分更新食品条目。
func (s *CatalogService) UpdateFoodItem(id string, input UpdateFoodItemInput) (*domain.FoodItem, error) {
	f, err := s.repo.GetFoodItem(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrItemTitleRequired
		}
		f.Name = name
	}
	if input.Description != nil {
		f.Description = *input.Description
	}
	if input.Price != nil {
		f.Price = *input.Price
	}
	if input.Unit != nil {
		f.Unit = *input.Unit
	}
	if input.Origin != nil {
		f.Origin = *input.Origin
	}
	if input.CategoryID != nil {
		f.CategoryID = input.CategoryID
	}
	if input.VendorID != nil {
		f.VendorID = input.VendorID
	}
	if input.Images != nil {
		f.Images = *input.Images
	}
	if input.IsActive != nil {
		f.IsActive = *input.IsActive
	}

	f.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveFoodItem(f); err != nil {
		return nil, err
	}
	s.invalidateItemContext(domain.ContentFoodItem, id)
	return f, nil
}

// DeleteFoodItem 软删除食品条目。
func (s *CatalogService) DeleteFoodItem(id string) error {
	f, err := s.repo.GetFoodItem(id)
	if err != nil {
		return err
	}
	f.IsActive = false
	f.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveFoodItem(f); err != nil {
		return err
	}
	s.invalidateItemContext(domain.ContentFoodItem, id)
	return nil
}

// UpdateStoreProductInput 更新商品条目的输入。
type UpdateStoreProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	CategoryID  *string
	VendorID    *string
	Specs       *map[string]any
	Images      *[]string
	IsActive    *bool
}

// UpdateStoreProduct 部分更新商品条目。
func (s *CatalogService) UpdateStoreProduct(id string, input UpdateStoreProductInput) (*domain.StoreProduct, error) {
	p, err := s.repo.GetStoreProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrItemTitleRequired
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		p.CategoryID = input.CategoryID
	}
	if input.VendorID != nil {
		p.VendorID = input.VendorID
	}
	if input.Specs != nil {
		p.Specs = *input.Specs
	}
	if input.Images != nil {
		p.Images = *input.Images
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveStoreProduct(p); err != nil {
		return nil, err
	}
	s.invalidateItemContext(domain.ContentStoreProduct, id)
	return p, nil
}

// DeleteStoreProduct 软删除商品条目。
func (s *CatalogService) DeleteStoreProduct(id string) error {
	p, err := s.repo.GetStoreProduct(id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveStoreProduct(p); err != nil {
		return err
	}
	s.invalidateItemContext(domain.ContentStoreProduct, id)
	return nil
}

// UpdateProjectInput 更新项目条目的输入。
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Location    *string
	Budget      *float64
	Status      *string
	CategoryID  *string
	Images      *[]string
	IsActive    *bool
}

// UpdateProject 部分更新项目条目。
func (s *CatalogService) UpdateProject(id string, input UpdateProjectInput) (*domain.Project, error) {
	p, err := s.repo.GetProject(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrItemTitleRequired
		}
		p.Title = title
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Location != nil {
		p.Location = *input.Location
	}
	if input.Budget != nil {
		p.Budget = *input.Budget
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	if input.CategoryID != nil {
		p.CategoryID = input.CategoryID
	}
	if input.Images != nil {
		p.Images = *input.Images
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveProject(p); err != nil {
		return nil, err
	}
	s.invalidateItemContext(domain.ContentProject, id)
	return p, nil
}

// DeleteProject 软删除项目条目。
func (s *CatalogService) DeleteProject(id string) error {
	p, err := s.repo.GetProject(id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveProject(p); err != nil {
		return err
	}
	s.invalidateItemContext(domain.ContentProject, id)
	return nil
}

// UpdateBlogPostInput 更新博客文章的输入。slug 保持稳定，不随标题变化。
type UpdateBlogPostInput struct {
	Title      *string
	Excerpt    *string
	Content    *string
	CategoryID *string
	CoverImage *string
	Publish    *bool
	IsActive   *bool
}

// UpdateBlogPost 部分更新博客文章。
func (s *CatalogService) UpdateBlogPost(id string, input UpdateBlogPostInput) (*domain.BlogPost, error) {
	post, err := s.repo.GetBlogPost(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrItemTitleRequired
		}
		post.Title = title
	}
	if input.Excerpt != nil {
		post.Excerpt = *input.Excerpt
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.CategoryID != nil {
		post.CategoryID = input.CategoryID
	}
	if input.CoverImage != nil {
		post.CoverImage = *input.CoverImage
	}
	now := time.Now().UTC()
	if input.Publish != nil {
		if *input.Publish && post.PublishedAt == nil {
			post.PublishedAt = &now
		}
		if !*input.Publish {
			post.PublishedAt = nil
		}
	}
	if input.IsActive != nil {
		post.IsActive = *input.IsActive
	}

	post.UpdatedAt = now
	if err := s.repo.SaveBlogPost(post); err != nil {
		return nil, err
	}
	s.invalidateItemContext(domain.ContentBlogPost, id)
	return post, nil
}

// DeleteBlogPost 软删除博客文章。
func (s *CatalogService) DeleteBlogPost(id string) error {
	post, err := s.repo.GetBlogPost(id)
	if err != nil {
		return err
	}
	post.IsActive = false
	post.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveBlogPost(post); err != nil {
		return err
	}
	s.invalidateItemContext(domain.ContentBlogPost, id)
	return nil
}

// invalidateItemContext 条目变更后失效摘要缓存。
func (s *CatalogService) invalidateItemContext(contentType domain.ContentType, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCachedItemContext(contentType, id); err != nil {
		s.log.Warn("invalidate item context cache failed",
			zap.String("content_type", string(contentType)),
			zap.String("content_id", id),
			zap.Error(err),
		)
	}
}

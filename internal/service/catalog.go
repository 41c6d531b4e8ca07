package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
	"brightonhub/backend/internal/storage/redis"
)

var (
	// ErrItemTitleRequired 标题或名称缺失
	ErrItemTitleRequired = errors.New("item title is required")
	// ErrUnknownContentType 不支持的目录实体类型
	ErrUnknownContentType = errors.New("unknown content type")
)

// itemContextTTL 目录条目摘要缓存时长
const itemContextTTL = 10 * time.Minute

// CatalogService 封装各板块目录的业务操作。
type CatalogService struct {
	repo  storage.CatalogRepository
	cache *redis.Cache // 可为 nil，缓存仅为加速
	log   *zap.Logger
}

// NewCatalogService 创建目录业务服务。
func NewCatalogService(repo storage.CatalogRepository, cache *redis.Cache, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetItemContext 获取消息关联目录条目的展示摘要。
//
// 命中缓存直接返回；否则查库并回填缓存，缓存写入失败仅告警。
func (s *CatalogService) GetItemContext(contentType domain.ContentType, contentID string) (*domain.ItemContext, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCachedItemContext(contentType, contentID); err == nil {
			return cached, nil
		}
	}

	itemCtx, err := s.lookupItemContext(contentType, contentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheItemContext(itemCtx, itemContextTTL); err != nil {
			s.log.Warn("cache item context failed",
				zap.String("content_type", string(contentType)),
				zap.String("content_id", contentID),
				zap.Error(err),
			)
		}
	}
	return itemCtx, nil
}

// lookupItemContext 按实体类型查库装配摘要。
func (s *CatalogService) lookupItemContext(contentType domain.ContentType, contentID string) (*domain.ItemContext, error) {
	itemCtx := &domain.ItemContext{Type: contentType, ID: contentID}

	switch contentType {
	case domain.ContentProperty:
		p, err := s.repo.GetProperty(contentID)
		if err != nil {
			return nil, err
		}
		itemCtx.Title = p.Title
		itemCtx.Price = &p.Price
		itemCtx.Location = p.Location
		itemCtx.Image = firstImage(p.Images)
	case domain.ContentFoodItem:
		f, err := s.repo.GetFoodItem(contentID)
		if err != nil {
			return nil, err
		}
		itemCtx.Title = f.Name
		itemCtx.Price = &f.Price
		itemCtx.Image = firstImage(f.Images)
	case domain.ContentStoreProduct:
		p, err := s.repo.GetStoreProduct(contentID)
		if err != nil {
			return nil, err
		}
		itemCtx.Title = p.Name
		itemCtx.Price = &p.Price
		itemCtx.Image = firstImage(p.Images)
	case domain.ContentProject:
		p, err := s.repo.GetProject(contentID)
		if err != nil {
			return nil, err
		}
		itemCtx.Title = p.Title
		itemCtx.Location = p.Location
		itemCtx.Image = firstImage(p.Images)
	case domain.ContentBlogPost:
		p, err := s.repo.GetBlogPost(contentID)
		if err != nil {
			return nil, err
		}
		itemCtx.Title = p.Title
		itemCtx.Image = p.CoverImage
	default:
		return nil, ErrUnknownContentType
	}
	return itemCtx, nil
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

// ========== Property ==========

// CreatePropertyInput 创建房产条目的输入。
type CreatePropertyInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Bedrooms    int
	Bathrooms   int
	CategoryID  *string
	OwnerID     *string
	Images      []string
}

// CreateProperty 创建房产条目。
func (s *CatalogService) CreateProperty(input CreatePropertyInput) (*domain.Property, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrItemTitleRequired
	}

	now := time.Now().UTC()
	p := &domain.Property{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		CategoryID:  input.CategoryID,
		OwnerID:     input.OwnerID,
		Images:      input.Images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveProperty(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProperty 获取房产条目。
func (s *CatalogService) GetProperty(id string) (*domain.Property, error) {
	return s.repo.GetProperty(id)
}

// ListProperties 列出房产条目。
func (s *CatalogService) ListProperties(filter domain.CatalogFilter) ([]domain.Property, error) {
	return s.repo.ListProperties(filter)
}

// ========== FoodItem ==========

// CreateFoodItemInput 创建食品条目的输入。
type CreateFoodItemInput struct {
	Name        string
	Description string
	Price       float64
	Unit        string
	Origin      string
	CategoryID  *string
	VendorID    *string
	Images      []string
}

// CreateFoodItem 创建食品条目。
func (s *CatalogService) CreateFoodItem(input CreateFoodItemInput) (*domain.FoodItem, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrItemTitleRequired
	}

	now := time.Now().UTC()
	f := &domain.FoodItem{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Unit:        input.Unit,
		Origin:      input.Origin,
		CategoryID:  input.CategoryID,
		VendorID:    input.VendorID,
		Images:      input.Images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveFoodItem(f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetFoodItem 获取食品条目。
func (s *CatalogService) GetFoodItem(id string) (*domain.FoodItem, error) {
	return s.repo.GetFoodItem(id)
}

// ListFoodItems 列出食品条目。
func (s *CatalogService) ListFoodItems(filter domain.CatalogFilter) ([]domain.FoodItem, error) {
	return s.repo.ListFoodItems(filter)
}

// ========== StoreProduct ==========

// CreateStoreProductInput 创建商品条目的输入。
type CreateStoreProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  *string
	VendorID    *string
	Specs       map[string]any
	Images      []string
}

// CreateStoreProduct 创建商品条目。
func (s *CatalogService) CreateStoreProduct(input CreateStoreProductInput) (*domain.StoreProduct, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrItemTitleRequired
	}

	now := time.Now().UTC()
	p := &domain.StoreProduct{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		VendorID:    input.VendorID,
		Specs:       input.Specs,
		Images:      input.Images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveStoreProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetStoreProduct 获取商品条目。
func (s *CatalogService) GetStoreProduct(id string) (*domain.StoreProduct, error) {
	return s.repo.GetStoreProduct(id)
}

// ListStoreProducts 列出商品条目。
func (s *CatalogService) ListStoreProducts(filter domain.CatalogFilter) ([]domain.StoreProduct, error) {
	return s.repo.ListStoreProducts(filter)
}

// ========== Project ==========

// CreateProjectInput 创建项目条目的输入。
type CreateProjectInput struct {
	Title       string
	Description string
	Location    string
	Budget      float64
	Status      string
	CategoryID  *string
	Images      []string
}

// CreateProject 创建项目条目。
func (s *CatalogService) CreateProject(input CreateProjectInput) (*domain.Project, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrItemTitleRequired
	}

	status := input.Status
	if status == "" {
		status = "planned"
	}

	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Budget:      input.Budget,
		Status:      status,
		CategoryID:  input.CategoryID,
		Images:      input.Images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveProject(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject 获取项目条目。
func (s *CatalogService) GetProject(id string) (*domain.Project, error) {
	return s.repo.GetProject(id)
}

// ListProjects 列出项目条目。
func (s *CatalogService) ListProjects(filter domain.CatalogFilter) ([]domain.Project, error) {
	return s.repo.ListProjects(filter)
}

// ========== BlogPost ==========

// CreateBlogPostInput 创建博客文章的输入。
type CreateBlogPostInput struct {
	Title      string
	Excerpt    string
	Content    string
	AuthorID   *string
	CategoryID *string
	CoverImage string
	Publish    bool
}

// CreateBlogPost 创建博客文章，slug 由标题归一化生成。
func (s *CatalogService) CreateBlogPost(input CreateBlogPostInput) (*domain.BlogPost, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrItemTitleRequired
	}

	now := time.Now().UTC()
	p := &domain.BlogPost{
		ID:         uuid.NewString(),
		Title:      input.Title,
		Slug:       domain.NormalizeSlug(input.Title),
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		AuthorID:   input.AuthorID,
		CategoryID: input.CategoryID,
		CoverImage: input.CoverImage,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Publish {
		published := now
		p.PublishedAt = &published
	}
	if err := s.repo.SaveBlogPost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetBlogPost 获取博客文章。
func (s *CatalogService) GetBlogPost(id string) (*domain.BlogPost, error) {
	return s.repo.GetBlogPost(id)
}

// ListBlogPosts 列出博客文章。
func (s *CatalogService) ListBlogPosts(filter domain.CatalogFilter) ([]domain.BlogPost, error) {
	return s.repo.ListBlogPosts(filter)
}

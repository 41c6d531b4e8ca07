package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/monitoring"
	"brightonhub/backend/internal/storage"
	"brightonhub/backend/internal/storage/redis"
)

var (
	// ErrCategoryNameRequired 分类名称缺失
	ErrCategoryNameRequired = errors.New("category name is required")
	// ErrInvalidCategoryType 分类板块非法
	ErrInvalidCategoryType = errors.New("invalid category type")
	// ErrSlugConflict 同板块下 slug 冲突
	ErrSlugConflict = errors.New("slug already exists for this type")
	// ErrParentNotFound 父分类不存在
	ErrParentNotFound = errors.New("parent category not found")
	// ErrParentTypeMismatch 父子分类板块不一致
	ErrParentTypeMismatch = errors.New("parent category type mismatch")
	// ErrSelfParent 分类不能作为自己的父级
	ErrSelfParent = errors.New("category cannot be its own parent")
	// ErrHasActiveChildren 存在活跃子分类时不可删除
	ErrHasActiveChildren = errors.New("category has active children")
)

// categoryListTTL 分类列表缓存时长
const categoryListTTL = 5 * time.Minute

// CategoryService 封装跨板块分类的业务操作。
type CategoryService struct {
	repo    storage.CategoryRepository
	cache   *redis.Cache // 可为 nil
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewCategoryService 创建分类业务服务。
func NewCategoryService(repo storage.CategoryRepository, cache *redis.Cache, log *zap.Logger) *CategoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// SetMetrics 设置监控指标。
func (s *CategoryService) SetMetrics(m *monitoring.Metrics) {
	s.metrics = m
}

// CreateCategoryInput 创建分类的输入。
type CreateCategoryInput struct {
	Name        string
	Type        domain.CategoryType
	Slug        string // 为空时由名称归一化生成
	Description string
	ParentID    *string
	SortOrder   int
}

// Create 创建分类。
//
// slug 在同一板块内唯一；指定父分类时父分类必须存在且板块一致。
func (s *CategoryService) Create(input CreateCategoryInput) (*domain.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrCategoryNameRequired
	}
	if !domain.ValidCategoryType(input.Type) {
		return nil, ErrInvalidCategoryType
	}

	slug := input.Slug
	if slug == "" {
		slug = input.Name
	}
	slug = domain.NormalizeSlug(slug)

	if existing, err := s.repo.GetCategoryBySlug(input.Type, slug); err == nil && existing != nil {
		return nil, ErrSlugConflict
	}

	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := s.repo.GetCategory(*input.ParentID)
		if err != nil {
			return nil, ErrParentNotFound
		}
		if parent.Type != input.Type {
			return nil, ErrParentTypeMismatch
		}
	} else {
		input.ParentID = nil
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Type:        input.Type,
		Slug:        slug,
		Description: input.Description,
		ParentID:    input.ParentID,
		SortOrder:   input.SortOrder,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.SaveCategory(category); err != nil {
		return nil, err
	}

	s.invalidateCache(input.Type)
	if s.metrics != nil {
		s.metrics.CategoriesCreated.Inc()
	}

	s.log.Info("category created",
		zap.String("category_id", category.ID),
		zap.String("type", string(category.Type)),
		zap.String("slug", category.Slug),
	)
	return category, nil
}

// UpdateCategoryInput 更新分类的输入，nil 字段不变更。
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	ParentID    *string
	ClearParent bool
	SortOrder   *int
}

// Update 部分更新分类。
func (s *CategoryService) Update(id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		category.Name = name
	}

	if input.Slug != nil {
		slug := domain.NormalizeSlug(*input.Slug)
		if slug != category.Slug {
			if existing, err := s.repo.GetCategoryBySlug(category.Type, slug); err == nil && existing != nil && existing.ID != id {
				return nil, ErrSlugConflict
			}
			category.Slug = slug
		}
	}

	if input.Description != nil {
		category.Description = *input.Description
	}

	if input.ClearParent {
		category.ParentID = nil
	} else if input.ParentID != nil && *input.ParentID != "" {
		if *input.ParentID == id {
			return nil, ErrSelfParent
		}
		parent, err := s.repo.GetCategory(*input.ParentID)
		if err != nil {
			return nil, ErrParentNotFound
		}
		if parent.Type != category.Type {
			return nil, ErrParentTypeMismatch
		}
		category.ParentID = input.ParentID
	}

	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	category.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveCategory(category); err != nil {
		return nil, err
	}

	s.invalidateCache(category.Type)
	return category, nil
}

// Delete 软删除分类，存在活跃子分类时拒绝。
func (s *CategoryService) Delete(id string) error {
	category, err := s.repo.GetCategory(id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountActiveChildren(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasActiveChildren
	}

	category.IsActive = false
	category.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveCategory(category); err != nil {
		return err
	}

	s.invalidateCache(category.Type)
	if s.metrics != nil {
		s.metrics.CategoriesDeleted.Inc()
	}

	s.log.Info("category deleted",
		zap.String("category_id", id),
		zap.String("type", string(category.Type)),
	)
	return nil
}

// Get 获取分类。
func (s *CategoryService) Get(id string) (*domain.Category, error) {
	return s.repo.GetCategory(id)
}

// GetBySlug 按板块与 slug 获取活跃分类。
func (s *CategoryService) GetBySlug(categoryType domain.CategoryType, slug string) (*domain.Category, error) {
	if !domain.ValidCategoryType(categoryType) {
		return nil, ErrInvalidCategoryType
	}
	return s.repo.GetCategoryBySlug(categoryType, domain.NormalizeSlug(slug))
}

// List 列出活跃分类。
//
// 按板块且无其他条件的查询走缓存，命中失败回退查库。
func (s *CategoryService) List(filter domain.CategoryFilter) ([]domain.Category, error) {
	if filter.Type != "" && !domain.ValidCategoryType(filter.Type) {
		return nil, ErrInvalidCategoryType
	}

	cacheable := s.cache != nil && filter.Type != "" && filter.ParentID == nil && filter.IncludeChildren
	if cacheable {
		if cached, err := s.cache.GetCachedCategoryList(filter.Type); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.ListCategories(filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.CacheCategoryList(filter.Type, categories, categoryListTTL); err != nil {
			s.log.Warn("cache category list failed",
				zap.String("type", string(filter.Type)),
				zap.Error(err),
			)
		}
	}
	return categories, nil
}

// invalidateCache 分类变更后失效板块缓存。
func (s *CategoryService) invalidateCache(categoryType domain.CategoryType) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCachedCategoryList(categoryType); err != nil {
		s.log.Warn("invalidate category cache failed",
			zap.String("type", string(categoryType)),
			zap.Error(err),
		)
	}
}

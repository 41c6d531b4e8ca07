package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/service"
)

// CategoryHandler 处理分类相关的 HTTP 请求
type CategoryHandler struct {
	categories *service.CategoryService
	log        *zap.Logger
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categories *service.CategoryService, log *zap.Logger) *CategoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryHandler{categories: categories, log: log}
}

type createCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId"`
	SortOrder   int     `json:"sortOrder"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	ClearParent bool    `json:"clearParent"`
	SortOrder   *int    `json:"sortOrder"`
}

// CreateCategory 创建分类
// @Summary 创建分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createCategoryRequest true "分类信息"
// @Success 201 {object} Response "创建成功"
// @Failure 409 {object} Response "slug 冲突"
// @Router /v1/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	category, err := h.categories.Create(service.CreateCategoryInput{
		Name:        req.Name,
		Type:        domain.CategoryType(req.Type),
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	h.log.Info("category created",
		zap.String("category_id", category.ID),
		zap.String("type", string(category.Type)),
		zap.String("slug", category.Slug),
	)

	Created(c, category)
}

// ListCategories 列出分类
// @Summary 分类列表
// @Description 列出活跃分类，可按板块与父分类过滤；children=true 时预载一层子分类
// @Tags 分类
// @Produce json
// @Param type query string false "板块 project/property/food/blog"
// @Param parentId query string false "父分类ID"
// @Param children query bool false "是否预载子分类"
// @Success 200 {object} Response "分类列表"
// @Router /v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filter := domain.CategoryFilter{
		Type:            domain.CategoryType(c.Query("type")),
		IncludeChildren: c.Query("children") == "true",
	}
	if parentID := c.Query("parentId"); parentID != "" {
		filter.ParentID = &parentID
	}

	categories, err := h.categories.List(filter)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"categories": categories, "total": len(categories)})
}

// GetCategory 获取分类详情
// @Summary 分类详情
// @Tags 分类
// @Produce json
// @Param id path string true "分类ID"
// @Success 200 {object} Response "分类详情"
// @Failure 404 {object} Response "分类不存在"
// @Router /v1/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categories.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, category)
}

// GetCategoryBySlug 按板块与 slug 获取分类
// @Summary 按 slug 查询分类
// @Tags 分类
// @Produce json
// @Param type path string true "板块"
// @Param slug path string true "slug"
// @Success 200 {object} Response "分类详情"
// @Failure 404 {object} Response "分类不存在"
// @Router /v1/categories/type/{type}/slug/{slug} [get]
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.categories.GetBySlug(
		domain.CategoryType(c.Param("type")),
		c.Param("slug"),
	)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, category)
}

// UpdateCategory 更新分类
// @Summary 更新分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Param request body updateCategoryRequest true "更新内容"
// @Success 200 {object} Response "更新成功"
// @Failure 409 {object} Response "slug 冲突"
// @Router /v1/categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	category, err := h.categories.Update(c.Param("id"), service.UpdateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, category)
}

// DeleteCategory 删除分类（软删除）
// @Summary 删除分类
// @Description 软删除分类。存在活跃子分类时拒绝删除
// @Tags 分类
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Success 204 {object} Response "删除成功"
// @Failure 409 {object} Response "存在活跃子分类"
// @Router /v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}

	NoContent(c)
}

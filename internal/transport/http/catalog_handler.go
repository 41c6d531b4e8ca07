package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/middleware"
	"brightonhub/backend/internal/service"
)

// CatalogHandler 处理各业务板块目录条目的 HTTP 请求
type CatalogHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(catalog *service.CatalogService, log *zap.Logger) *CatalogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler{catalog: catalog, log: log}
}

// catalogFilterFromQuery 从查询参数解析目录过滤条件
func catalogFilterFromQuery(c *gin.Context) domain.CatalogFilter {
	filter := domain.CatalogFilter{
		ActiveOnly: c.Query("all") != "true",
		Search:     c.Query("search"),
		Limit:      parseIntQuery(c, "limit", 50),
		Offset:     parseIntQuery(c, "offset", 0),
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if vendorID := c.Query("vendorId"); vendorID != "" {
		filter.VendorID = &vendorID
	}
	return filter
}

// ========== Property ==========

type createPropertyRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	CategoryID  *string  `json:"categoryId"`
	OwnerID     *string  `json:"ownerId"`
	Images      []string `json:"images"`
}

// CreateProperty 创建房产条目
// @Summary 创建房产
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPropertyRequest true "房产信息"
// @Success 201 {object} Response "创建成功"
// @Router /v1/properties [post]
func (h *CatalogHandler) CreateProperty(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	property, err := h.catalog.CreateProperty(service.CreatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		CategoryID:  req.CategoryID,
		OwnerID:     req.OwnerID,
		Images:      req.Images,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, property)
}

// ListProperties 列出房产条目
// @Summary 房产列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response "房产列表"
// @Router /v1/properties [get]
func (h *CatalogHandler) ListProperties(c *gin.Context) {
	properties, err := h.catalog.ListProperties(catalogFilterFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"properties": properties, "total": len(properties)})
}

// GetProperty 获取房产详情
// @Summary 房产详情
// @Tags 目录
// @Produce json
// @Param id path string true "房产ID"
// @Success 200 {object} Response "房产详情"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/properties/{id} [get]
func (h *CatalogHandler) GetProperty(c *gin.Context) {
	property, err := h.catalog.GetProperty(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, property)
}

type updatePropertyRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Location    *string   `json:"location"`
	Bedrooms    *int      `json:"bedrooms"`
	Bathrooms   *int      `json:"bathrooms"`
	CategoryID  *string   `json:"categoryId"`
	Images      *[]string `json:"images"`
	IsActive    *bool     `json:"isActive"`
}

// UpdateProperty 更新房产条目
// @Summary 更新房产
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房产ID"
// @Param request body updatePropertyRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/properties/{id} [patch]
func (h *CatalogHandler) UpdateProperty(c *gin.Context) {
	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	property, err := h.catalog.UpdateProperty(c.Param("id"), service.UpdatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, property)
}

// DeleteProperty 下架房产条目
// @Summary 删除房产
// @Tags 目录
// @Security BearerAuth
// @Param id path string true "房产ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/properties/{id} [delete]
func (h *CatalogHandler) DeleteProperty(c *gin.Context) {
	if err := h.catalog.DeleteProperty(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	NoContent(c)
}

// ========== FoodItem ==========

type createFoodItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Origin      string   `json:"origin"`
	CategoryID  *string  `json:"categoryId"`
	VendorID    *string  `json:"vendorId"`
	Images      []string `json:"images"`
}

// CreateFoodItem 创建食品条目
// @Summary 创建食品
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createFoodItemRequest true "食品信息"
// @Success 201 {object} Response "创建成功"
// @Router /v1/food-items [post]
func (h *CatalogHandler) CreateFoodItem(c *gin.Context) {
	var req createFoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	item, err := h.catalog.CreateFoodItem(service.CreateFoodItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Origin:      req.Origin,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		Images:      req.Images,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, item)
}

// ListFoodItems 列出食品条目
// @Summary 食品列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response "食品列表"
// @Router /v1/food-items [get]
func (h *CatalogHandler) ListFoodItems(c *gin.Context) {
	items, err := h.catalog.ListFoodItems(catalogFilterFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"foodItems": items, "total": len(items)})
}

// GetFoodItem 获取食品详情
// @Summary 食品详情
// @Tags 目录
// @Produce json
// @Param id path string true "食品ID"
// @Success 200 {object} Response "食品详情"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/food-items/{id} [get]
func (h *CatalogHandler) GetFoodItem(c *gin.Context) {
	item, err := h.catalog.GetFoodItem(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, item)
}

type updateFoodItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Unit        *string   `json:"unit"`
	Origin      *string   `json:"origin"`
	CategoryID  *string   `json:"categoryId"`
	VendorID    *string   `json:"vendorId"`
	Images      *[]string `json:"images"`
	IsActive    *bool     `json:"isActive"`
}

// UpdateFoodItem 更新食品条目
// @Summary 更新食品
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "食品ID"
// @Param request body updateFoodItemRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/food-items/{id} [patch]
func (h *CatalogHandler) UpdateFoodItem(c *gin.Context) {
	var req updateFoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	item, err := h.catalog.UpdateFoodItem(c.Param("id"), service.UpdateFoodItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Origin:      req.Origin,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		Images:      req.Images,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, item)
}

// DeleteFoodItem 下架食品条目
// @Summary 删除食品
// @Tags 目录
// @Security BearerAuth
// @Param id path string true "食品ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/food-items/{id} [delete]
func (h *CatalogHandler) DeleteFoodItem(c *gin.Context) {
	if err := h.catalog.DeleteFoodItem(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	NoContent(c)
}

// ========== StoreProduct ==========

type createStoreProductRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	CategoryID  *string        `json:"categoryId"`
	VendorID    *string        `json:"vendorId"`
	Specs       map[string]any `json:"specs"`
	Images      []string       `json:"images"`
}

// CreateStoreProduct 创建商品条目
// @Summary 创建商品
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createStoreProductRequest true "商品信息"
// @Success 201 {object} Response "创建成功"
// @Router /v1/store-products [post]
func (h *CatalogHandler) CreateStoreProduct(c *gin.Context) {
	var req createStoreProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	product, err := h.catalog.CreateStoreProduct(service.CreateStoreProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		Specs:       req.Specs,
		Images:      req.Images,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, product)
}

// ListStoreProducts 列出商品条目
// @Summary 商品列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response "商品列表"
// @Router /v1/store-products [get]
func (h *CatalogHandler) ListStoreProducts(c *gin.Context) {
	products, err := h.catalog.ListStoreProducts(catalogFilterFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"products": products, "total": len(products)})
}

// GetStoreProduct 获取商品详情
// @Summary 商品详情
// @Tags 目录
// @Produce json
// @Param id path string true "商品ID"
// @Success 200 {object} Response "商品详情"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/store-products/{id} [get]
func (h *CatalogHandler) GetStoreProduct(c *gin.Context) {
	product, err := h.catalog.GetStoreProduct(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, product)
}

type updateStoreProductRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Stock       *int            `json:"stock"`
	CategoryID  *string         `json:"categoryId"`
	VendorID    *string         `json:"vendorId"`
	Specs       *map[string]any `json:"specs"`
	Images      *[]string       `json:"images"`
	IsActive    *bool           `json:"isActive"`
}

// UpdateStoreProduct 更新商品条目
// @Summary 更新商品
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Param request body updateStoreProductRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/store-products/{id} [patch]
func (h *CatalogHandler) UpdateStoreProduct(c *gin.Context) {
	var req updateStoreProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	product, err := h.catalog.UpdateStoreProduct(c.Param("id"), service.UpdateStoreProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		Specs:       req.Specs,
		Images:      req.Images,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, product)
}

// DeleteStoreProduct 下架商品条目
// @Summary 删除商品
// @Tags 目录
// @Security BearerAuth
// @Param id path string true "商品ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/store-products/{id} [delete]
func (h *CatalogHandler) DeleteStoreProduct(c *gin.Context) {
	if err := h.catalog.DeleteStoreProduct(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	NoContent(c)
}

// ========== Project ==========

type createProjectRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Budget      float64  `json:"budget"`
	Status      string   `json:"status"`
	CategoryID  *string  `json:"categoryId"`
	Images      []string `json:"images"`
}

// CreateProject 创建项目条目
// @Summary 创建项目
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createProjectRequest true "项目信息"
// @Success 201 {object} Response "创建成功"
// @Router /v1/projects [post]
func (h *CatalogHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	project, err := h.catalog.CreateProject(service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, project)
}

// ListProjects 列出项目条目
// @Summary 项目列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response "项目列表"
// @Router /v1/projects [get]
func (h *CatalogHandler) ListProjects(c *gin.Context) {
	projects, err := h.catalog.ListProjects(catalogFilterFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"projects": projects, "total": len(projects)})
}

// GetProject 获取项目详情
// @Summary 项目详情
// @Tags 目录
// @Produce json
// @Param id path string true "项目ID"
// @Success 200 {object} Response "项目详情"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/projects/{id} [get]
func (h *CatalogHandler) GetProject(c *gin.Context) {
	project, err := h.catalog.GetProject(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

type updateProjectRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Budget      *float64  `json:"budget"`
	Status      *string   `json:"status"`
	CategoryID  *string   `json:"categoryId"`
	Images      *[]string `json:"images"`
	IsActive    *bool     `json:"isActive"`
}

// UpdateProject 更新项目条目
// @Summary 更新项目
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "项目ID"
// @Param request body updateProjectRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/projects/{id} [patch]
func (h *CatalogHandler) UpdateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	project, err := h.catalog.UpdateProject(c.Param("id"), service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, project)
}

// DeleteProject 下架项目条目
// @Summary 删除项目
// @Tags 目录
// @Security BearerAuth
// @Param id path string true "项目ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/projects/{id} [delete]
func (h *CatalogHandler) DeleteProject(c *gin.Context) {
	if err := h.catalog.DeleteProject(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	NoContent(c)
}

// ========== BlogPost ==========

type createBlogPostRequest struct {
	Title      string  `json:"title" binding:"required"`
	Excerpt    string  `json:"excerpt"`
	Content    string  `json:"content"`
	CategoryID *string `json:"categoryId"`
	CoverImage string  `json:"coverImage"`
	Publish    bool    `json:"publish"`
}

// CreateBlogPost 创建博客文章
// @Summary 创建文章
// @Description 创建博客文章，slug 由标题归一化生成；publish=true 时立即发布
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createBlogPostRequest true "文章内容"
// @Success 201 {object} Response "创建成功"
// @Router /v1/blog-posts [post]
func (h *CatalogHandler) CreateBlogPost(c *gin.Context) {
	var req createBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var authorID *string
	if authUser := middleware.AuthUserFrom(c); authUser != nil {
		authorID = &authUser.ID
	}

	post, err := h.catalog.CreateBlogPost(service.CreateBlogPostInput{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		AuthorID:   authorID,
		CategoryID: req.CategoryID,
		CoverImage: req.CoverImage,
		Publish:    req.Publish,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, post)
}

// ListBlogPosts 列出博客文章
// @Summary 文章列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response "文章列表"
// @Router /v1/blog-posts [get]
func (h *CatalogHandler) ListBlogPosts(c *gin.Context) {
	posts, err := h.catalog.ListBlogPosts(catalogFilterFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"posts": posts, "total": len(posts)})
}

// GetBlogPost 获取文章详情
// @Summary 文章详情
// @Tags 目录
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} Response "文章详情"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/blog-posts/{id} [get]
func (h *CatalogHandler) GetBlogPost(c *gin.Context) {
	post, err := h.catalog.GetBlogPost(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, post)
}

type updateBlogPostRequest struct {
	Title      *string `json:"title"`
	Excerpt    *string `json:"excerpt"`
	Content    *string `json:"content"`
	CategoryID *string `json:"categoryId"`
	CoverImage *string `json:"coverImage"`
	Publish    *bool   `json:"publish"`
	IsActive   *bool   `json:"isActive"`
}

// UpdateBlogPost 更新博客文章
// @Summary 更新文章
// @Description 更新博客文章，slug 保持不变；publish 控制发布状态
// @Tags 目录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章ID"
// @Param request body updateBlogPostRequest true "更新字段"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/blog-posts/{id} [patch]
func (h *CatalogHandler) UpdateBlogPost(c *gin.Context) {
	var req updateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	post, err := h.catalog.UpdateBlogPost(c.Param("id"), service.UpdateBlogPostInput{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		CoverImage: req.CoverImage,
		Publish:    req.Publish,
		IsActive:   req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, post)
}

// DeleteBlogPost 下架博客文章
// @Summary 删除文章
// @Tags 目录
// @Security BearerAuth
// @Param id path string true "文章ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "条目不存在"
// @Router /v1/blog-posts/{id} [delete]
func (h *CatalogHandler) DeleteBlogPost(c *gin.Context) {
	if err := h.catalog.DeleteBlogPost(c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	NoContent(c)
}

package httptransport

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/middleware"
	"brightonhub/backend/internal/service"
)

// VendorHandler 处理供应商名录与入驻申请的 HTTP 请求
type VendorHandler struct {
	vendors *service.VendorService
	log     *zap.Logger
}

// NewVendorHandler 创建供应商处理器
func NewVendorHandler(vendors *service.VendorService, log *zap.Logger) *VendorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &VendorHandler{vendors: vendors, log: log}
}

type applyRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

type updateListingRequest struct {
	BusinessName *string `json:"businessName"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
	IsActive     *bool   `json:"isActive"`
}

// Apply 提交入驻申请
// @Summary 申请成为供应商
// @Description 当前登录用户提交入驻申请，同一用户同时只能有一份待审核申请
// @Tags 供应商
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body applyRequest true "申请信息"
// @Success 201 {object} Response "提交成功"
// @Failure 409 {object} Response "已存在待审核申请"
// @Router /v1/vendors/applications [post]
func (h *VendorHandler) Apply(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	application, err := h.vendors.Apply(service.ApplyInput{
		UserID:       authUser.ID,
		BusinessName: req.BusinessName,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	h.log.Info("vendor application submitted",
		zap.String("application_id", application.ID),
		zap.String("user_id", authUser.ID),
	)

	Created(c, application)
}

// ListApplications 列出入驻申请（管理员）
// @Summary 申请列表
// @Tags 供应商
// @Produce json
// @Security BearerAuth
// @Param status query string false "申请状态 pending/approved/rejected"
// @Success 200 {object} Response "申请列表"
// @Router /v1/vendors/applications [get]
func (h *VendorHandler) ListApplications(c *gin.Context) {
	applications, err := h.vendors.ListApplications(domain.ApplicationStatus(c.Query("status")))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"applications": applications, "total": len(applications)})
}

// GetApplication 获取申请详情（管理员）
// @Summary 申请详情
// @Tags 供应商
// @Produce json
// @Security BearerAuth
// @Param id path string true "申请ID"
// @Success 200 {object} Response "申请详情"
// @Failure 404 {object} Response "申请不存在"
// @Router /v1/vendors/applications/{id} [get]
func (h *VendorHandler) GetApplication(c *gin.Context) {
	application, err := h.vendors.GetApplication(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, application)
}

// ReviewApplication 审核入驻申请（管理员）
// @Summary 审核申请
// @Description 通过时将申请人角色提升为供应商并创建名录条目
// @Tags 供应商
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "申请ID"
// @Param request body reviewRequest true "审核结论"
// @Success 200 {object} Response "审核完成"
// @Failure 409 {object} Response "申请已被审核"
// @Router /v1/vendors/applications/{id}/review [post]
func (h *VendorHandler) ReviewApplication(c *gin.Context) {
	authUser := middleware.AuthUserFrom(c)
	if authUser == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	application, err := h.vendors.Review(c.Param("id"), authUser.ID, req.Approve, req.Note)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.log.Info("vendor application reviewed",
		zap.String("application_id", application.ID),
		zap.String("reviewer_id", authUser.ID),
		zap.Bool("approved", req.Approve),
	)

	Success(c, application)
}

// ListListings 列出供应商名录
// @Summary 供应商列表
// @Tags 供应商
// @Produce json
// @Param all query bool false "true 时包含停用条目"
// @Success 200 {object} Response "供应商列表"
// @Router /v1/vendors [get]
func (h *VendorHandler) ListListings(c *gin.Context) {
	listings, err := h.vendors.ListListings(c.Query("all") != "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"vendors": listings, "total": len(listings)})
}

// GetListing 获取供应商详情
// @Summary 供应商详情
// @Tags 供应商
// @Produce json
// @Param id path string true "供应商ID"
// @Success 200 {object} Response "供应商详情"
// @Failure 404 {object} Response "供应商不存在"
// @Router /v1/vendors/{id} [get]
func (h *VendorHandler) GetListing(c *gin.Context) {
	listing, err := h.vendors.GetListing(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, listing)
}

// UpdateListing 更新供应商名录（管理员）
// @Summary 更新供应商
// @Tags 供应商
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "供应商ID"
// @Param request body updateListingRequest true "更新内容"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "供应商不存在"
// @Router /v1/vendors/{id} [patch]
func (h *VendorHandler) UpdateListing(c *gin.Context) {
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	listing, err := h.vendors.UpdateListing(c.Param("id"), service.UpdateListingInput{
		BusinessName: req.BusinessName,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		IsActive:     req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, listing)
}

package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

var (
	// ErrBusinessNameRequired 商户名称缺失
	ErrBusinessNameRequired = errors.New("business name is required")
	// ErrApplicationPendingExists 已存在待审核申请
	ErrApplicationPendingExists = errors.New("a pending application already exists")
	// ErrApplicationReviewed 申请已被审核过
	ErrApplicationReviewed = errors.New("application already reviewed")
)

// VendorService 封装供应商名录与入驻申请的业务操作。
type VendorService struct {
	repo     storage.VendorRepository
	userRepo storage.UserRepository
	log      *zap.Logger
}

// NewVendorService 创建供应商业务服务。
func NewVendorService(repo storage.VendorRepository, userRepo storage.UserRepository, log *zap.Logger) *VendorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VendorService{
		repo:     repo,
		userRepo: userRepo,
		log:      log,
	}
}

// ApplyInput 提交入驻申请的输入。
type ApplyInput struct {
	UserID       string
	BusinessName string
	Description  string
	ContactEmail string
	ContactPhone string
}

// Apply 提交供应商入驻申请，同一用户同时只能有一份待审核申请。
func (s *VendorService) Apply(input ApplyInput) (*domain.VendorApplication, error) {
	input.BusinessName = strings.TrimSpace(input.BusinessName)
	if input.BusinessName == "" {
		return nil, ErrBusinessNameRequired
	}
	if input.ContactEmail != "" && !domain.ValidEmail(input.ContactEmail) {
		return nil, ErrInvalidSenderEmail
	}

	pending, err := s.repo.ListVendorApplications(domain.ApplicationPending)
	if err != nil {
		return nil, err
	}
	for _, app := range pending {
		if app.UserID == input.UserID {
			return nil, ErrApplicationPendingExists
		}
	}

	now := time.Now().UTC()
	app := &domain.VendorApplication{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		BusinessName: input.BusinessName,
		Description:  input.Description,
		ContactEmail: strings.ToLower(input.ContactEmail),
		ContactPhone: input.ContactPhone,
		Status:       domain.ApplicationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.SaveVendorApplication(app); err != nil {
		return nil, err
	}

	s.log.Info("vendor application submitted",
		zap.String("application_id", app.ID),
		zap.String("user_id", app.UserID),
	)
	return app, nil
}

// Review 审核入驻申请。
//
// 通过时将申请人角色提升为供应商并写入名录条目。
func (s *VendorService) Review(applicationID, reviewerID string, approve bool, note string) (*domain.VendorApplication, error) {
	app, err := s.repo.GetVendorApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, ErrApplicationReviewed
	}

	now := time.Now().UTC()
	app.ReviewedBy = &reviewerID
	app.ReviewedAt = &now
	app.ReviewNote = note
	app.UpdatedAt = now

	if !approve {
		app.Status = domain.ApplicationRejected
		if err := s.repo.SaveVendorApplication(app); err != nil {
			return nil, err
		}
		return app, nil
	}

	app.Status = domain.ApplicationApproved
	if err := s.repo.SaveVendorApplication(app); err != nil {
		return nil, err
	}

	// 提升申请人角色
	user, err := s.userRepo.GetUserByID(app.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleUser {
		user.Role = domain.RoleVendor
		user.UpdatedAt = now
		if err := s.userRepo.UpdateUser(user); err != nil {
			return nil, err
		}
	}

	listing := &domain.VendorListing{
		ID:           uuid.NewString(),
		UserID:       app.UserID,
		BusinessName: app.BusinessName,
		Description:  app.Description,
		ContactEmail: app.ContactEmail,
		ContactPhone: app.ContactPhone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.SaveVendorListing(listing); err != nil {
		return nil, err
	}

	s.log.Info("vendor application approved",
		zap.String("application_id", app.ID),
		zap.String("user_id", app.UserID),
		zap.String("listing_id", listing.ID),
	)
	return app, nil
}

// GetApplication 获取入驻申请。
func (s *VendorService) GetApplication(id string) (*domain.VendorApplication, error) {
	return s.repo.GetVendorApplication(id)
}

// ListApplications 列出入驻申请，可按状态过滤。
func (s *VendorService) ListApplications(status domain.ApplicationStatus) ([]domain.VendorApplication, error) {
	return s.repo.ListVendorApplications(status)
}

// GetListing 获取名录条目。
func (s *VendorService) GetListing(id string) (*domain.VendorListing, error) {
	return s.repo.GetVendorListing(id)
}

// ListListings 列出名录条目。
func (s *VendorService) ListListings(activeOnly bool) ([]domain.VendorListing, error) {
	return s.repo.ListVendorListings(activeOnly)
}

// UpdateListingInput 更新名录条目的输入，nil 字段不变更。
type UpdateListingInput struct {
	BusinessName *string
	Description  *string
	ContactEmail *string
	ContactPhone *string
	IsActive     *bool
}

// UpdateListing 更新名录条目。
func (s *VendorService) UpdateListing(id string, input UpdateListingInput) (*domain.VendorListing, error) {
	listing, err := s.repo.GetVendorListing(id)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, ErrBusinessNameRequired
		}
		listing.BusinessName = name
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.ContactEmail != nil {
		if *input.ContactEmail != "" && !domain.ValidEmail(*input.ContactEmail) {
			return nil, ErrInvalidSenderEmail
		}
		listing.ContactEmail = strings.ToLower(*input.ContactEmail)
	}
	if input.ContactPhone != nil {
		listing.ContactPhone = *input.ContactPhone
	}
	if input.IsActive != nil {
		listing.IsActive = *input.IsActive
	}

	listing.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveVendorListing(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

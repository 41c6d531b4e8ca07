package sql

import (
	"errors"

	"gorm.io/gorm"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// SaveVendorListing 保存供应商名录条目。
func (s *Store) SaveVendorListing(listing *domain.VendorListing) error {
	return s.db.Save(listing).Error
}

// GetVendorListing 根据 ID 获取供应商名录条目。
func (s *Store) GetVendorListing(id string) (*domain.VendorListing, error) {
	var listing domain.VendorListing
	err := s.db.First(&listing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListVendorListings 列出供应商名录。
func (s *Store) ListVendorListings(activeOnly bool) ([]domain.VendorListing, error) {
	query := s.db.Order("business_name")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	listings := make([]domain.VendorListing, 0)
	err := query.Find(&listings).Error
	return listings, err
}

// SaveVendorApplication 保存供应商申请。
func (s *Store) SaveVendorApplication(app *domain.VendorApplication) error {
	return s.db.Save(app).Error
}

// GetVendorApplication 根据 ID 获取供应商申请。
func (s *Store) GetVendorApplication(id string) (*domain.VendorApplication, error) {
	var app domain.VendorApplication
	err := s.db.First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListVendorApplications 列出供应商申请，可按状态过滤。
func (s *Store) ListVendorApplications(status domain.ApplicationStatus) ([]domain.VendorApplication, error) {
	query := s.db.Order("created_at")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	apps := make([]domain.VendorApplication, 0)
	err := query.Find(&apps).Error
	return apps, err
}

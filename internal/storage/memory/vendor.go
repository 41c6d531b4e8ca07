package memory

import (
	"sort"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

// SaveVendorListing 保存供应商名录条目。
func (s *Store) SaveVendorListing(listing *domain.VendorListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *listing
	s.listings[listing.ID] = &copied
	return nil
}

// GetVendorListing 根据 ID 获取供应商名录条目。
func (s *Store) GetVendorListing(id string) (*domain.VendorListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[id]
	if !ok {
		return nil, storage.ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

// ListVendorListings 列出供应商名录。
func (s *Store) ListVendorListings(activeOnly bool) ([]domain.VendorListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.VendorListing, 0)
	for _, listing := range s.listings {
		if activeOnly && !listing.IsActive {
			continue
		}
		out = append(out, *listing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessName < out[j].BusinessName })
	return out, nil
}

// SaveVendorApplication 保存供应商申请。
func (s *Store) SaveVendorApplication(app *domain.VendorApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *app
	s.applications[app.ID] = &copied
	return nil
}

// GetVendorApplication 根据 ID 获取供应商申请。
func (s *Store) GetVendorApplication(id string) (*domain.VendorApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, storage.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

// ListVendorApplications 列出供应商申请，可按状态过滤。
func (s *Store) ListVendorApplications(status domain.ApplicationStatus) ([]domain.VendorApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.VendorApplication, 0)
	for _, app := range s.applications {
		if status != "" && app.Status != status {
			continue
		}
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

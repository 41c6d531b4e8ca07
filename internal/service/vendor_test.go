package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage/memory"
)

func TestVendorService_ApplyAndReview(t *testing.T) {
	store := memory.NewStore()
	svc := NewVendorService(store, store, nil)

	require.NoError(t, store.CreateUser(&domain.User{
		ID: "u1", Email: "applicant@example.com", Role: domain.RoleUser, IsActive: true,
	}))

	app, err := svc.Apply(ApplyInput{
		UserID:       "u1",
		BusinessName: "Brighton Greens",
		ContactEmail: "Shop@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, "shop@example.com", app.ContactEmail)

	t.Run("重复待审申请被拒绝", func(t *testing.T) {
		_, err := svc.Apply(ApplyInput{UserID: "u1", BusinessName: "Another"})
		assert.ErrorIs(t, err, ErrApplicationPendingExists)
	})

	t.Run("审核通过后角色提升并写入名录", func(t *testing.T) {
		reviewed, err := svc.Review(app.ID, "admin-1", true, "looks good")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationApproved, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedBy)
		assert.Equal(t, "admin-1", *reviewed.ReviewedBy)

		user, err := store.GetUserByID("u1")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVendor, user.Role)

		listings, err := svc.ListListings(true)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, "Brighton Greens", listings[0].BusinessName)
	})

	t.Run("重复审核被拒绝", func(t *testing.T) {
		_, err := svc.Review(app.ID, "admin-1", false, "")
		assert.ErrorIs(t, err, ErrApplicationReviewed)
	})
}

func TestVendorService_Reject(t *testing.T) {
	store := memory.NewStore()
	svc := NewVendorService(store, store, nil)

	require.NoError(t, store.CreateUser(&domain.User{
		ID: "u2", Email: "second@example.com", Role: domain.RoleUser, IsActive: true,
	}))

	app, err := svc.Apply(ApplyInput{UserID: "u2", BusinessName: "Rejected Ltd"})
	require.NoError(t, err)

	reviewed, err := svc.Review(app.ID, "admin-1", false, "incomplete details")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, reviewed.Status)

	// 拒绝不提升角色、不写名录
	user, err := store.GetUserByID("u2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	listings, err := svc.ListListings(false)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestMemoryStore_MessageOperations(t *testing.T) {
	store := NewStore()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	msg := &domain.ContactMessage{
		ID:          "msg-1",
		SenderID:    strPtr("user-a"),
		SenderName:  "Alice",
		SenderEmail: "alice@example.com",
		RecipientID: strPtr("user-b"),
		Subject:     "Viewing request",
		Message:     "Is the flat still available?",
		ContentType: domain.ContentProperty,
		ThreadID:    "thread-1",
		MessageType: domain.TypeProductInquiry,
		Priority:    domain.PriorityNormal,
		Status:      domain.StatusUnread,
		CreatedAt:   base,
		UpdatedAt:   base,
	}
	require.NoError(t, store.SaveContactMessage(msg))

	retrieved, err := store.GetContactMessage("msg-1")
	require.NoError(t, err)
	assert.Equal(t, msg.Subject, retrieved.Subject)
	assert.Equal(t, domain.StatusUnread, retrieved.Status)

	_, err = store.GetContactMessage("missing")
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)

	t.Run("过滤与分页", func(t *testing.T) {
		second := &domain.ContactMessage{
			ID:          "msg-2",
			SenderID:    strPtr("user-c"),
			SenderName:  "Carol",
			SenderEmail: "carol@example.com",
			Subject:     "General question",
			Message:     "Opening hours?",
			ContentType: domain.ContentGeneral,
			ThreadID:    "thread-2",
			MessageType: domain.TypeDirectMessage,
			Status:      domain.StatusUnread,
			CreatedAt:   base.Add(time.Hour),
			UpdatedAt:   base.Add(time.Hour),
		}
		require.NoError(t, store.SaveContactMessage(second))

		// 无过滤：倒序返回全部
		all, err := store.ListContactMessages(domain.MessageFilter{Limit: 50})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "msg-2", all[0].ID)

		// 用户范围过滤
		scoped, err := store.ListContactMessages(domain.MessageFilter{UserID: strPtr("user-b"), Limit: 50})
		require.NoError(t, err)
		require.Len(t, scoped, 1)
		assert.Equal(t, "msg-1", scoped[0].ID)

		// 全文搜索（大小写不敏感，命中发送者姓名）
		found, err := store.ListContactMessages(domain.MessageFilter{Search: "CAROL", Limit: 50})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "msg-2", found[0].ID)

		count, err := store.CountContactMessages(domain.MessageFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("批量更新与范围限制", func(t *testing.T) {
		read := domain.StatusRead
		updated, err := store.UpdateContactMessages(
			[]string{"msg-1", "msg-2", "missing"},
			strPtr("user-b"), // 仅 msg-1 在该用户范围内
			domain.MessagePatch{Status: &read},
		)
		require.NoError(t, err)
		assert.EqualValues(t, 1, updated)

		m1, err := store.GetContactMessage("msg-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRead, m1.Status)
		require.NotNil(t, m1.ReadAt)

		m2, err := store.GetContactMessage("msg-2")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUnread, m2.Status)
	})

	t.Run("离开已读状态不清除 read_at", func(t *testing.T) {
		unread := domain.StatusUnread
		_, err := store.UpdateContactMessages([]string{"msg-1"}, nil, domain.MessagePatch{Status: &unread})
		require.NoError(t, err)

		m1, err := store.GetContactMessage("msg-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUnread, m1.Status)
		assert.NotNil(t, m1.ReadAt)
	})

	t.Run("邮件发送标记回写", func(t *testing.T) {
		sentAt := time.Now().UTC()
		require.NoError(t, store.MarkEmailSent("msg-1", sentAt))
		m1, err := store.GetContactMessage("msg-1")
		require.NoError(t, err)
		assert.True(t, m1.EmailSent)
		require.NotNil(t, m1.EmailSentAt)
	})
}

func TestMemoryStore_BulkMessage(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	parent := &domain.ContactMessage{
		ID:          "bulk-1",
		SenderID:    strPtr("admin-1"),
		SenderName:  "Admin",
		SenderEmail: "admin@brightonhub.local",
		Subject:     "Platform update",
		Message:     "New terms apply from July.",
		ContentType: domain.ContentGeneral,
		MessageType: domain.TypeBulkMessage,
		Status:      domain.StatusUnread,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	recipients := []*domain.BulkMessageRecipient{
		{ID: "r1", MessageID: "bulk-1", RecipientID: "v1", RecipientType: domain.AudienceAllVendors, Status: domain.StatusUnread, DeliveredAt: now},
		{ID: "r2", MessageID: "bulk-1", RecipientID: "v2", RecipientType: domain.AudienceAllVendors, Status: domain.StatusUnread, DeliveredAt: now},
	}

	require.NoError(t, store.SaveBulkMessage(parent, recipients))

	rows, err := store.ListBulkRecipients("bulk-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = store.GetContactMessage("bulk-1")
	assert.NoError(t, err)
}

func TestMemoryStore_Participants(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	parts := []*domain.MessageParticipant{
		{ThreadID: "t1", UserID: "u1", UserType: "user", JoinedAt: now},
		{ThreadID: "t1", UserID: "u2", UserType: "vendor", JoinedAt: now},
	}
	require.NoError(t, store.AddMessageParticipants(parts))

	// 重复加入按无操作处理
	require.NoError(t, store.AddMessageParticipants(parts[:1]))

	listed, err := store.ListMessageParticipants("t1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestMemoryStore_CategoryOperations(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	parent := &domain.Category{
		ID: "cat-1", Name: "Residential", Type: domain.CategoryProperty,
		Slug: "residential", SortOrder: 1, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	child := &domain.Category{
		ID: "cat-2", Name: "Flats", Type: domain.CategoryProperty,
		Slug: "flats", ParentID: strPtr("cat-1"), SortOrder: 1, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.SaveCategory(parent))
	require.NoError(t, store.SaveCategory(child))

	t.Run("按板块过滤并装配子分类", func(t *testing.T) {
		cats, err := store.ListCategories(domain.CategoryFilter{
			Type:            domain.CategoryProperty,
			IncludeChildren: true,
		})
		require.NoError(t, err)
		require.Len(t, cats, 2)

		for _, cat := range cats {
			if cat.ID == "cat-1" {
				require.Len(t, cat.Children, 1)
				assert.Equal(t, "cat-2", cat.Children[0].ID)
			}
		}
	})

	t.Run("slug 查找", func(t *testing.T) {
		found, err := store.GetCategoryBySlug(domain.CategoryProperty, "flats")
		require.NoError(t, err)
		assert.Equal(t, "cat-2", found.ID)

		_, err = store.GetCategoryBySlug(domain.CategoryFood, "flats")
		assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
	})

	t.Run("活跃子分类计数", func(t *testing.T) {
		count, err := store.CountActiveChildren("cat-1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		// 软删除子分类后计数归零
		child.IsActive = false
		require.NoError(t, store.SaveCategory(child))
		count, err = store.CountActiveChildren("cat-1")
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})
}

func TestMemoryStore_UserOperations(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	user := &domain.User{
		ID: "u1", Email: "Vendor@Example.com", Name: "Vendor One",
		Role: domain.RoleVendor, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.CreateUser(user))

	// 邮箱查找大小写不敏感
	found, err := store.GetUserByEmail("vendor@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	// 重复邮箱被拒绝
	dup := &domain.User{ID: "u2", Email: "vendor@example.com"}
	assert.ErrorIs(t, store.CreateUser(dup), storage.ErrEmailExists)

	vendors, err := store.ListUsersByRole(domain.RoleVendor)
	require.NoError(t, err)
	assert.Len(t, vendors, 1)

	require.NoError(t, store.UpdateLastLogin("u1"))
	found, err = store.GetUserByID("u1")
	require.NoError(t, err)
	assert.NotNil(t, found.LastLoginAt)
}

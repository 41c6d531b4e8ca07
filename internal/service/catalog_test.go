package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
	"brightonhub/backend/internal/storage/memory"
)

func TestCatalogService_UpdateProperty(t *testing.T) {
	store := memory.NewStore()
	svc := NewCatalogService(store, nil, nil)

	p, err := svc.CreateProperty(CreatePropertyInput{
		Title:    "3 Bedroom Flat",
		Price:    250000,
		Location: "Brighton",
		Bedrooms: 3,
	})
	require.NoError(t, err)

	t.Run("部分更新", func(t *testing.T) {
		price := 240000.0
		updated, err := svc.UpdateProperty(p.ID, UpdatePropertyInput{Price: &price})
		require.NoError(t, err)
		assert.EqualValues(t, 240000, updated.Price)
		assert.Equal(t, "3 Bedroom Flat", updated.Title) // 未提供的字段保持不变
	})

	t.Run("空标题被拒绝", func(t *testing.T) {
		empty := "  "
		_, err := svc.UpdateProperty(p.ID, UpdatePropertyInput{Title: &empty})
		assert.ErrorIs(t, err, ErrItemTitleRequired)
	})

	t.Run("条目不存在", func(t *testing.T) {
		title := "X"
		_, err := svc.UpdateProperty("missing", UpdatePropertyInput{Title: &title})
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})
}

func TestCatalogService_DeleteProperty(t *testing.T) {
	store := memory.NewStore()
	svc := NewCatalogService(store, nil, nil)

	p, err := svc.CreateProperty(CreatePropertyInput{Title: "Studio", Price: 90000})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(p.ID))

	t.Run("软删除后不出现在启用列表", func(t *testing.T) {
		active, err := svc.ListProperties(domain.CatalogFilter{ActiveOnly: true, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, active)

		all, err := svc.ListProperties(domain.CatalogFilter{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, all, 1)
		assert.False(t, all[0].IsActive)
	})

	t.Run("详情仍可访问", func(t *testing.T) {
		got, err := svc.GetProperty(p.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})
}

func TestCatalogService_UpdateBlogPost(t *testing.T) {
	store := memory.NewStore()
	svc := NewCatalogService(store, nil, nil)

	post, err := svc.CreateBlogPost(CreateBlogPostInput{Title: "Market Update"})
	require.NoError(t, err)
	require.Nil(t, post.PublishedAt)

	t.Run("改标题不改slug", func(t *testing.T) {
		title := "Market Update 2026"
		updated, err := svc.UpdateBlogPost(post.ID, UpdateBlogPostInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Market Update 2026", updated.Title)
		assert.Equal(t, "market-update", updated.Slug)
	})

	t.Run("发布与撤回", func(t *testing.T) {
		publish := true
		updated, err := svc.UpdateBlogPost(post.ID, UpdateBlogPostInput{Publish: &publish})
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)
		firstPublished := *updated.PublishedAt

		// 重复发布不刷新时间
		updated, err = svc.UpdateBlogPost(post.ID, UpdateBlogPostInput{Publish: &publish})
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)
		assert.Equal(t, firstPublished, *updated.PublishedAt)

		unpublish := false
		updated, err = svc.UpdateBlogPost(post.ID, UpdateBlogPostInput{Publish: &unpublish})
		require.NoError(t, err)
		assert.Nil(t, updated.PublishedAt)
	})
}

func TestCatalogService_GetItemContext(t *testing.T) {
	store := memory.NewStore()
	svc := NewCatalogService(store, nil, nil)

	p, err := svc.CreateProperty(CreatePropertyInput{
		Title:    "Seafront House",
		Price:    480000,
		Location: "Hove",
		Images:   []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)

	t.Run("房产摘要", func(t *testing.T) {
		itemCtx, err := svc.GetItemContext(domain.ContentProperty, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Seafront House", itemCtx.Title)
		require.NotNil(t, itemCtx.Price)
		assert.EqualValues(t, 480000, *itemCtx.Price)
		assert.Equal(t, "a.jpg", itemCtx.Image)
	})

	t.Run("类型非法", func(t *testing.T) {
		_, err := svc.GetItemContext("unknown", p.ID)
		assert.ErrorIs(t, err, ErrUnknownContentType)
	})

	t.Run("条目不存在", func(t *testing.T) {
		_, err := svc.GetItemContext(domain.ContentProperty, "missing")
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})
}

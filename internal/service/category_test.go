package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage/memory"
)

func TestCategoryService_Create(t *testing.T) {
	store := memory.NewStore()
	svc := NewCategoryService(store, nil, nil)

	cat, err := svc.Create(CreateCategoryInput{
		Name: "Fresh Produce!",
		Type: domain.CategoryFood,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-produce", cat.Slug)
	assert.True(t, cat.IsActive)

	t.Run("名称缺失", func(t *testing.T) {
		_, err := svc.Create(CreateCategoryInput{Type: domain.CategoryFood})
		assert.ErrorIs(t, err, ErrCategoryNameRequired)
	})

	t.Run("板块非法", func(t *testing.T) {
		_, err := svc.Create(CreateCategoryInput{Name: "X", Type: "vehicles"})
		assert.ErrorIs(t, err, ErrInvalidCategoryType)
	})

	t.Run("同板块 slug 冲突", func(t *testing.T) {
		_, err := svc.Create(CreateCategoryInput{Name: "Fresh  Produce", Type: domain.CategoryFood})
		assert.ErrorIs(t, err, ErrSlugConflict)
	})

	t.Run("不同板块同 slug 放行", func(t *testing.T) {
		_, err := svc.Create(CreateCategoryInput{Name: "Fresh Produce", Type: domain.CategoryBlog})
		assert.NoError(t, err)
	})

	t.Run("父分类必须存在且板块一致", func(t *testing.T) {
		missing := "missing-parent"
		_, err := svc.Create(CreateCategoryInput{Name: "Child", Type: domain.CategoryFood, ParentID: &missing})
		assert.ErrorIs(t, err, ErrParentNotFound)

		blog, err := svc.Create(CreateCategoryInput{Name: "News", Type: domain.CategoryBlog})
		require.NoError(t, err)
		_, err = svc.Create(CreateCategoryInput{Name: "Child", Type: domain.CategoryFood, ParentID: &blog.ID})
		assert.ErrorIs(t, err, ErrParentTypeMismatch)
	})
}

func TestCategoryService_Update(t *testing.T) {
	store := memory.NewStore()
	svc := NewCategoryService(store, nil, nil)

	cat, err := svc.Create(CreateCategoryInput{Name: "Flats", Type: domain.CategoryProperty})
	require.NoError(t, err)

	t.Run("部分更新", func(t *testing.T) {
		name := "Apartments"
		updated, err := svc.Update(cat.ID, UpdateCategoryInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Apartments", updated.Name)
		assert.Equal(t, "flats", updated.Slug) // slug 不随名称自动变更
	})

	t.Run("slug 归一化后更新", func(t *testing.T) {
		slug := "City Apartments"
		updated, err := svc.Update(cat.ID, UpdateCategoryInput{Slug: &slug})
		require.NoError(t, err)
		assert.Equal(t, "city-apartments", updated.Slug)
	})

	t.Run("自引用父级被拒绝", func(t *testing.T) {
		_, err := svc.Update(cat.ID, UpdateCategoryInput{ParentID: &cat.ID})
		assert.ErrorIs(t, err, ErrSelfParent)
	})
}

func TestCategoryService_DeleteOrder(t *testing.T) {
	store := memory.NewStore()
	svc := NewCategoryService(store, nil, nil)

	parent, err := svc.Create(CreateCategoryInput{Name: "Residential", Type: domain.CategoryProperty})
	require.NoError(t, err)
	child, err := svc.Create(CreateCategoryInput{Name: "Flats", Type: domain.CategoryProperty, ParentID: &parent.ID})
	require.NoError(t, err)

	// 有活跃子分类时父分类不可删除
	err = svc.Delete(parent.ID)
	assert.ErrorIs(t, err, ErrHasActiveChildren)

	// 先删子再删父
	require.NoError(t, svc.Delete(child.ID))
	require.NoError(t, svc.Delete(parent.ID))

	// 软删除：记录仍可按 ID 读取，但列表不再返回
	got, err := svc.Get(parent.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	cats, err := svc.List(domain.CategoryFilter{Type: domain.CategoryProperty})
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestCategoryService_GetBySlug(t *testing.T) {
	store := memory.NewStore()
	svc := NewCategoryService(store, nil, nil)

	_, err := svc.Create(CreateCategoryInput{Name: "Organic Veg", Type: domain.CategoryFood})
	require.NoError(t, err)

	// 查询输入同样经过归一化
	cat, err := svc.GetBySlug(domain.CategoryFood, "Organic  Veg")
	require.NoError(t, err)
	assert.Equal(t, "organic-veg", cat.Slug)
}

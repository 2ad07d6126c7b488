package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog-api/internal/core/events"
	"product-catalog-api/internal/domain"
)

func TestEditProductService_ApplyPurgesAllSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.products.Create(ctx, "Kettle", "old", "")
	require.NoError(t, err)
	other, err := env.products.Create(ctx, "Toaster", "old", "")
	require.NoError(t, err)

	first, err := env.edits.Stage(ctx, p.ID, "Kettle v2", "new", "")
	require.NoError(t, err)
	_, err = env.edits.Stage(ctx, p.ID, "Kettle v3", "newer", "")
	require.NoError(t, err)
	_, err = env.edits.Stage(ctx, other.ID, "Toaster v2", "new", "")
	require.NoError(t, err)

	require.NoError(t, env.edits.Apply(ctx, first.ID, p.ID, "manager@example.com"))

	got, err := env.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle v2", got.Name)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, domain.StatusCreated, got.Status)

	assert.Zero(t, env.count(t, &domain.EditProduct{}, "product_id = ?", p.ID))
	assert.EqualValues(t, 1, env.count(t, &domain.EditProduct{}, "product_id = ?", other.ID))
	assert.Contains(t, env.events.types(), events.EditApplied)
}

func TestEditProductService_ApplyRejectsMismatchedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.products.Create(ctx, "Kettle", "old", "")
	other, _ := env.products.Create(ctx, "Toaster", "old", "")
	edit, err := env.edits.Stage(ctx, p.ID, "Kettle v2", "new", "")
	require.NoError(t, err)

	err = env.edits.Apply(ctx, edit.ID, other.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, id := range []uint{p.ID, other.ID} {
		got, err := env.products.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "old", got.Description)
	}
	assert.EqualValues(t, 1, env.count(t, &domain.EditProduct{}, "1 = 1"))
}

func TestEditProductService_ApplyMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.edits.Apply(ctx, 1, 1, ""), domain.ErrNotFound)

	// an edit whose product row is gone
	require.NoError(t, env.db.Create(&domain.EditProduct{ProductID: 77, Name: "orphan"}).Error)
	var orphan domain.EditProduct
	require.NoError(t, env.db.First(&orphan, "product_id = ?", 77).Error)
	assert.ErrorIs(t, env.edits.Apply(ctx, orphan.ID, 77, ""), domain.ErrNotFound)
	assert.EqualValues(t, 1, env.count(t, &domain.EditProduct{}, "product_id = ?", 77))
}

func TestEditProductService_StageRequiresProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.edits.Stage(context.Background(), 5, "x", "y", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditProductService_ListProductsWithEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, _ := env.products.Create(ctx, "A", "a", "")
	_, _ = env.products.Create(ctx, "B", "b", "")
	c, _ := env.products.Create(ctx, "C", "c", "")
	_, err := env.edits.Stage(ctx, c.ID, "C1", "c1", "")
	require.NoError(t, err)
	_, err = env.edits.Stage(ctx, a.ID, "A1", "a1", "")
	require.NoError(t, err)
	_, err = env.edits.Stage(ctx, a.ID, "A2", "a2", "")
	require.NoError(t, err)

	list, err := env.edits.ListProductsWithEdits(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, a.ID, list[0].ID)
	require.Len(t, list[0].EditProducts, 2)
	assert.Equal(t, "A1", list[0].EditProducts[0].Name)
	assert.Equal(t, "A2", list[0].EditProducts[1].Name)

	assert.Equal(t, c.ID, list[1].ID)
	require.Len(t, list[1].EditProducts, 1)
	assert.Equal(t, "c1", list[1].EditProducts[0].Description)
}

func TestEditProductService_ListEmpty(t *testing.T) {
	env := newTestEnv(t)

	list, err := env.edits.ListProductsWithEdits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEditProductService_DeleteKeepsSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.products.Create(ctx, "Kettle", "old", "")
	first, _ := env.edits.Stage(ctx, p.ID, "v2", "", "")
	_, _ = env.edits.Stage(ctx, p.ID, "v3", "", "")

	require.NoError(t, env.edits.Delete(ctx, first.ID, ""))
	assert.EqualValues(t, 1, env.count(t, &domain.EditProduct{}, "product_id = ?", p.ID))

	assert.ErrorIs(t, env.edits.Delete(ctx, first.ID, ""), domain.ErrNotFound)

	got, err := env.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", got.Name)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog-api/internal/core/events"
	"product-catalog-api/internal/domain"
)

func TestProductService_CreateForcesCreatedStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.products.Create(ctx, "Kettle", "1.7l", "capturer@example.com")
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, domain.StatusCreated, p.Status)

	got, err := env.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", got.Name)
	assert.Equal(t, []string{events.ProductCreated}, env.events.types())
}

func TestProductService_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.products.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.products.Create(ctx, "Kettle", "1.7l", "")
	require.NoError(t, err)

	t.Run("rejects statuses outside Approved and Deleted", func(t *testing.T) {
		for _, s := range []string{"Pending", "Created", "", "approved"} {
			err := env.products.UpdateStatus(ctx, p.ID, s, "")
			assert.ErrorIs(t, err, domain.ErrValidation, s)
		}
		got, err := env.products.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCreated, got.Status)
	})

	t.Run("missing product wins over bad status", func(t *testing.T) {
		err := env.products.UpdateStatus(ctx, 404, "Pending", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("deleted can be approved again", func(t *testing.T) {
		require.NoError(t, env.products.UpdateStatus(ctx, p.ID, "Deleted", ""))
		require.NoError(t, env.products.UpdateStatus(ctx, p.ID, "Approved", ""))
		got, err := env.products.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, got.Status)
	})
}

func TestProductService_UpdateFieldsKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.products.Create(ctx, "Kettle", "1.7l", "")
	require.NoError(t, err)
	require.NoError(t, env.products.UpdateStatus(ctx, p.ID, "Approved", ""))

	require.NoError(t, env.products.UpdateFields(ctx, p.ID, "Kettle Pro", "", ""))

	got, err := env.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle Pro", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, domain.StatusApproved, got.Status)

	assert.ErrorIs(t, env.products.UpdateFields(ctx, 404, "x", "y", ""), domain.ErrNotFound)
}

func TestProductService_ListByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, _ := env.products.Create(ctx, "A", "", "")
	b, _ := env.products.Create(ctx, "B", "", "")
	c, _ := env.products.Create(ctx, "C", "", "")
	require.NoError(t, env.products.UpdateStatus(ctx, b.ID, "Approved", ""))
	require.NoError(t, env.products.UpdateStatus(ctx, c.ID, "Deleted", ""))

	created, err := env.products.ListByStatus(ctx, domain.StatusCreated)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, a.ID, created[0].ID)

	approved, err := env.products.ListByStatus(ctx, domain.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, b.ID, approved[0].ID)

	deleted, err := env.products.ListByStatus(ctx, domain.StatusDeleted)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, c.ID, deleted[0].ID)
}

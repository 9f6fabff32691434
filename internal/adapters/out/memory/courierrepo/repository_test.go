package courierrepo_test

import (
	"testing"

	"courier-dispatch/internal/adapters/out/memory/courierrepo"
	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, kernel.MustNewLocation(-23.55, -46.63))
	require.NoError(t, err)
	return c
}

func TestMemoryCourierRepository_AddGetUpdate(t *testing.T) {
	// Arrange
	ctx := t.Context()
	repo := courierrepo.NewMemoryCourierRepository()
	c := newCourier(t, "Ana")
	require.NoError(t, repo.Add(ctx, c))

	// Act
	c.GoOnline()
	require.NoError(t, c.MoveTo(kernel.MustNewLocation(-23.60, -46.70)))
	require.NoError(t, repo.Update(ctx, c))
	got, err := repo.Get(ctx, c.ID())

	// Assert
	require.NoError(t, err)
	assert.True(t, got.IsOnline())
	assert.InDelta(t, -23.60, got.Location().Lat(), 1e-9)
}

func TestMemoryCourierRepository_Errors(t *testing.T) {
	ctx := t.Context()
	repo := courierrepo.NewMemoryCourierRepository()
	c := newCourier(t, "Ana")

	_, errGet := repo.Get(ctx, c.ID())
	errUpdate := repo.Update(ctx, c)
	require.NoError(t, repo.Add(ctx, c))
	errAdd := repo.Add(ctx, c)

	assert.ErrorIs(t, errGet, errs.ErrObjectNotFound)
	assert.ErrorIs(t, errUpdate, errs.ErrObjectNotFound)
	assert.ErrorIs(t, errAdd, errs.ErrObjectConflict)
}

func TestMemoryCourierRepository_ListAndListOnline(t *testing.T) {
	// Arrange
	ctx := t.Context()
	repo := courierrepo.NewMemoryCourierRepository()
	bruno := newCourier(t, "Bruno")
	ana := newCourier(t, "Ana")
	ana.GoOnline()
	require.NoError(t, repo.Add(ctx, bruno))
	require.NoError(t, repo.Add(ctx, ana))

	// Act
	all, err := repo.List(ctx)
	require.NoError(t, err)
	online, err := repo.ListOnline(ctx)
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].Name())
	assert.Equal(t, "Bruno", all[1].Name())
	require.Len(t, online, 1)
	assert.True(t, online[0].IsEqual(ana))
}

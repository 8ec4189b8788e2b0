package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

func newOrder(t *testing.T, customerID int64, beers ...int64) *domain.Order {
	t.Helper()
	lines := make([]domain.LineRequest, 0, len(beers))
	for _, beer := range beers {
		lines = append(lines, domain.LineRequest{BeerID: beer, Quantity: 2})
	}
	order, err := domain.NewOrder(customerID, "", lines)
	require.NoError(t, err)
	return order
}

func TestSave_InsertAssignsIdentities(t *testing.T) {
	repo := NewRepository()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return fixed })

	saved, err := repo.Save(context.Background(), newOrder(t, 10, 5, 6))
	require.NoError(t, err)
	require.Equal(t, int64(1), saved.Entity.ID)
	require.Zero(t, saved.Entity.Version)
	require.Len(t, saved.Entity.Lines, 2)
	for _, line := range saved.Entity.Lines {
		require.NotZero(t, line.ID)
		require.Equal(t, saved.Entity.ID, line.OrderID)
	}
	require.Equal(t, fixed, saved.Metadata.CreatedAt)
	require.Equal(t, 2, repo.LineCount())
}

func TestSave_UpdateChecksVersion(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	saved, err := repo.Save(ctx, newOrder(t, 10, 5))
	require.NoError(t, err)

	first := saved.Entity.Clone()
	second := saved.Entity.Clone()

	first.Status = domain.StatusValidationPending
	updated, err := repo.Save(ctx, first)
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.Entity.Version)
	require.Equal(t, domain.StatusValidationPending, updated.Entity.Status)

	second.Status = domain.StatusCancelled
	_, err = repo.Save(ctx, second)
	require.ErrorIs(t, err, ports.ErrConcurrentModification)

	fetched, err := repo.GetByID(ctx, saved.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusValidationPending, fetched.Entity.Status)
}

func TestSave_UpdateMissingOrder(t *testing.T) {
	repo := NewRepository()
	order := newOrder(t, 10, 5)
	order.ID = 42
	_, err := repo.Save(context.Background(), order)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSave_ReturnsCopies(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	saved, err := repo.Save(ctx, newOrder(t, 10, 5))
	require.NoError(t, err)

	saved.Entity.Lines[0].OrderQuantity = 100
	fetched, err := repo.GetByID(ctx, saved.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, int32(2), fetched.Entity.Lines[0].OrderQuantity)
}

func TestDelete_CascadesToLines(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	keep, err := repo.Save(ctx, newOrder(t, 10, 5))
	require.NoError(t, err)
	drop, err := repo.Save(ctx, newOrder(t, 10, 5, 6, 7))
	require.NoError(t, err)
	require.Equal(t, 4, repo.LineCount())

	require.NoError(t, repo.Delete(ctx, drop.Entity.ID))
	require.Equal(t, 1, repo.LineCount())
	require.ErrorIs(t, repo.Delete(ctx, drop.Entity.ID), ports.ErrNotFound)

	exists, err := repo.Exists(ctx, keep.Entity.ID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestList_PagesByAscendingID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := repo.Save(ctx, newOrder(t, int64(10+i%2), 5))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)

	first, err := repo.List(ctx, &paging.Request{Number: 0, Size: 2})
	require.NoError(t, err)
	second, err := repo.List(ctx, &paging.Request{Number: 1, Size: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, ids(first))
	require.Equal(t, []int64{3, 4}, ids(second))

	byCustomer, err := repo.ListByCustomer(ctx, 11, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 4}, ids(byCustomer))

	paged, err := repo.ListByCustomer(ctx, 10, &paging.Request{Number: 1, Size: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{5}, ids(paged))
}

func TestReferenceChecks(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Save(ctx, newOrder(t, 10, 5))
	require.NoError(t, err)

	used, err := repo.HasOrdersForCustomer(ctx, 10)
	require.NoError(t, err)
	require.True(t, used)
	used, err = repo.HasOrdersForCustomer(ctx, 11)
	require.NoError(t, err)
	require.False(t, used)

	used, err = repo.HasLinesForBeer(ctx, 5)
	require.NoError(t, err)
	require.True(t, used)
	used, err = repo.HasLinesForBeer(ctx, 6)
	require.NoError(t, err)
	require.False(t, used)
}

func ids(list []*types.OrderProjection) []int64 {
	out := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.Entity.ID)
	}
	return out
}

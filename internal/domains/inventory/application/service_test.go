package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	inventorymemory "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
)

type knownBeers map[int64]bool

func (k knownBeers) BeerExists(_ context.Context, id int64) (bool, error) {
	return k[id], nil
}

func seed(t *testing.T, repo *inventorymemory.Repository, beerID int64, qty int32) *ports.RecordProjection {
	t.Helper()
	saved, err := repo.Save(context.Background(), &domain.Record{BeerID: beerID, QuantityOnHand: qty})
	require.NoError(t, err)
	return saved
}

func TestInventoryQueries(t *testing.T) {
	repo := inventorymemory.NewRepository()
	first := seed(t, repo, 1, 10)
	seed(t, repo, 1, 5)
	seed(t, repo, 2, 7)
	svc := NewService(repo, knownBeers{1: true, 2: true})
	ctx := context.Background()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byBeer, err := svc.ListByBeer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byBeer, 2)

	got, err := svc.GetByID(ctx, first.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, int32(10), got.Entity.QuantityOnHand)

	_, err = svc.GetByID(ctx, 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListByBeer_UnknownBeerIsEmpty(t *testing.T) {
	repo := inventorymemory.NewRepository()
	seed(t, repo, 3, 1)
	svc := NewService(repo, knownBeers{})

	list, err := svc.ListByBeer(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestSave_RejectsNegativeQuantity(t *testing.T) {
	repo := inventorymemory.NewRepository()
	_, err := repo.Save(context.Background(), &domain.Record{BeerID: 1, QuantityOnHand: -1})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

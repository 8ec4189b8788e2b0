package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
)

var _ ports.BeerDirectory = (*Beers)(nil)

// Beers answers inventory's beer existence checks from the catalog repository.
type Beers struct {
	repo catalogports.Repository
}

func NewBeers(repo catalogports.Repository) *Beers {
	return &Beers{repo: repo}
}

func (b *Beers) BeerExists(ctx context.Context, beerID int64) (bool, error) {
	_, err := b.repo.GetByID(ctx, beerID)
	if errors.Is(err, catalogports.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

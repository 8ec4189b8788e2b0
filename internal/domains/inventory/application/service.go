package application

import (
	"context"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
)

// Service answers inventory queries.
type Service struct {
	repo  ports.Repository
	beers ports.BeerDirectory
}

func NewService(repo ports.Repository, beers ports.BeerDirectory) *Service {
	return &Service{repo: repo, beers: beers}
}

func (s *Service) List(ctx context.Context) ([]*ports.RecordProjection, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ports.RecordProjection, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByBeer returns an empty list, not an error, for a beer that is not in the catalog.
func (s *Service) ListByBeer(ctx context.Context, beerID int64) ([]*ports.RecordProjection, error) {
	if s.beers != nil {
		exists, err := s.beers.BeerExists(ctx, beerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return []*ports.RecordProjection{}, nil
		}
	}
	return s.repo.ListByBeer(ctx, beerID)
}

var _ ports.Service = (*Service)(nil)

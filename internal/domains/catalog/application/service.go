package application

import (
	"context"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo            ports.Repository
	usage           ports.UsageChecker
	defaultPageSize int32
}

type Option func(*Service)

// WithUsageChecker blocks deletes of beers that are still referenced.
func WithUsageChecker(usage ports.UsageChecker) Option {
	return func(s *Service) {
		s.usage = usage
	}
}

// WithDefaultPageSize overrides the page size used when a listing omits one.
func WithDefaultPageSize(size int32) Option {
	return func(s *Service) {
		if size > 0 {
			s.defaultPageSize = size
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, defaultPageSize: types.DefaultPageSize}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateBeer(ctx context.Context, input types.BeerInput) (*types.BeerProjection, error) {
	beer, err := domain.NewBeer(input.Name, input.Style, input.UPC, input.QuantityOnHand, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, beer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetBeer(ctx context.Context, id int64) (*types.BeerProjection, error) {
	return s.repo.GetByID(ctx, id)
}

// ListBeers returns one page, defaulting to the first page of the configured size.
func (s *Service) ListBeers(ctx context.Context, input types.ListBeersInput) (types.BeerPage, error) {
	page, err := paging.WithDefaults(input.PageNumber, input.PageSize, types.DefaultPageNumber, s.defaultPageSize)
	if err != nil {
		return types.BeerPage{}, mapError(err)
	}
	return s.repo.List(ctx, page)
}

// UpdateBeer replaces the editable attributes of an existing beer.
func (s *Service) UpdateBeer(ctx context.Context, input types.UpdateBeerInput) (*types.BeerProjection, error) {
	replacement, err := domain.NewBeer(input.Name, input.Style, input.UPC, input.QuantityOnHand, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	beer := current.Entity
	if input.ExpectedVersion != nil && *input.ExpectedVersion != beer.Version {
		return nil, ports.ErrConcurrentModification
	}
	beer.Replace(replacement)
	saved, err := s.repo.Save(ctx, beer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteBeer refuses to remove beers that orders still point at.
func (s *Service) DeleteBeer(ctx context.Context, id int64) error {
	if s.usage == nil {
		return s.repo.Delete(ctx, id)
	}
	inUse, err := s.usage.DeleteBeerIfUnused(ctx, id, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	if inUse {
		return ports.ErrInUse
	}
	return nil
}

var _ ports.Service = (*Service)(nil)

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory beer store used for demos and tests.
type Repository struct {
	mu     sync.RWMutex
	beers  map[int64]*storedBeer
	nextID int64
	now    func() time.Time
}

type storedBeer struct {
	beer     domain.Beer
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{
		beers: map[int64]*storedBeer{},
		now:   time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save inserts a beer when ID is zero and otherwise updates it if the version matches.
func (r *Repository) Save(_ context.Context, beer *domain.Beer) (*types.BeerProjection, error) {
	if beer == nil {
		return nil, errors.New("cannot save nil beer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upcTakenLocked(beer.UPC, beer.ID) {
		return nil, ports.ErrDuplicateUPC
	}
	timestamp := r.now()
	if beer.ID == 0 {
		r.nextID++
		stored := &storedBeer{beer: *beer, metadata: projection.Metadata{}.Touch(timestamp)}
		stored.beer.ID = r.nextID
		stored.beer.Version = 0
		r.beers[stored.beer.ID] = stored
		return stored.project(), nil
	}
	stored, ok := r.beers[beer.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.beer.Version != beer.Version {
		return nil, ports.ErrConcurrentModification
	}
	stored.beer = *beer
	stored.beer.Version++
	stored.metadata = stored.metadata.Touch(timestamp)
	return stored.project(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*types.BeerProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.beers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.project(), nil
}

func (r *Repository) FindByIDs(_ context.Context, ids []int64) ([]*types.BeerProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*types.BeerProjection, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if stored, ok := r.beers[id]; ok {
			result = append(result, stored.project())
		}
	}
	return result, nil
}

func (r *Repository) List(_ context.Context, page *paging.Request) (types.BeerPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.beers))
	for id := range r.beers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := types.BeerPage{TotalElements: int64(len(ids))}
	if page != nil {
		result.Number, result.Size = page.Number, page.Size
	}
	for _, id := range paging.Slice(ids, page) {
		result.Items = append(result.Items, r.beers[id].project())
	}
	return result, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.beers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.beers, id)
	return nil
}

func (r *Repository) upcTakenLocked(upc string, ownID int64) bool {
	for id, stored := range r.beers {
		if id != ownID && stored.beer.UPC == upc {
			return true
		}
	}
	return false
}

func (s *storedBeer) project() *types.BeerProjection {
	clone := s.beer
	return &types.BeerProjection{Entity: &clone, Metadata: s.metadata}
}

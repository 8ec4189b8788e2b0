package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu        sync.RWMutex
	customers map[int64]*storedCustomer
	nextID    int64
	now       func() time.Time
}

type storedCustomer struct {
	customer domain.Customer
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{customers: map[int64]*storedCustomer{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*types.CustomerProjection, error) {
	if customer == nil {
		return nil, errors.New("cannot save nil customer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := r.now()
	if customer.ID == 0 {
		r.nextID++
		stored := &storedCustomer{customer: *customer, metadata: projection.Metadata{}.Touch(timestamp)}
		stored.customer.ID = r.nextID
		stored.customer.Version = 0
		r.customers[stored.customer.ID] = stored
		return stored.project(), nil
	}
	stored, ok := r.customers[customer.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.customer.Version != customer.Version {
		return nil, ports.ErrConcurrentModification
	}
	stored.customer = *customer
	stored.customer.Version++
	stored.metadata = stored.metadata.Touch(timestamp)
	return stored.project(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*types.CustomerProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.project(), nil
}

func (r *Repository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.customers[id]
	return ok, nil
}

func (r *Repository) List(_ context.Context) ([]*types.CustomerProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*types.CustomerProjection, 0, len(r.customers))
	for _, stored := range r.customers {
		list = append(list, stored.project())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity.ID < list[j].Entity.ID })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (s *storedCustomer) project() *types.CustomerProjection {
	clone := s.customer
	return &types.CustomerProjection{Entity: &clone, Metadata: s.metadata}
}

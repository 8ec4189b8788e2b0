// Package references resolves order references against the catalog and
// customer contexts, and answers their usage questions from the order store.
package references

import (
	"context"
	"errors"
	"sync"

	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	customerports "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

var (
	_ ports.CustomerStore        = (*Customers)(nil)
	_ ports.ProductStore         = (*Products)(nil)
	_ ports.ReferenceGuard       = (*ReferenceLock)(nil)
	_ catalogports.UsageChecker  = (*Usage)(nil)
	_ customerports.UsageChecker = (*Usage)(nil)
)

// Customers adapts the customer repository to the order context.
type Customers struct {
	repo customerports.Repository
}

func NewCustomers(repo customerports.Repository) *Customers {
	return &Customers{repo: repo}
}

func (c *Customers) FindByID(ctx context.Context, id int64) (*domain.CustomerRef, error) {
	customer, err := c.repo.GetByID(ctx, id)
	if errors.Is(err, customerports.ErrNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.CustomerRef{ID: customer.Entity.ID, Name: customer.Entity.Name}, nil
}

func (c *Customers) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return c.repo.Exists(ctx, id)
}

// Products adapts the beer repository to the order context.
type Products struct {
	repo catalogports.Repository
}

func NewProducts(repo catalogports.Repository) *Products {
	return &Products{repo: repo}
}

func (p *Products) FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.BeerRef, error) {
	beers, err := p.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]*domain.BeerRef, len(beers))
	for _, beer := range beers {
		found[beer.Entity.ID] = &domain.BeerRef{ID: beer.Entity.ID, Name: beer.Entity.Name, UPC: beer.Entity.UPC}
	}
	return found, nil
}

// ReferenceLock serializes order placement against deletes of the customers
// and beers orders point at. Placements share it from reference resolution
// until the order is stored; a delete holds it alone across its usage check.
// PostgreSQL enforces the same rule with foreign keys; in memory this lock is
// the only guard.
type ReferenceLock struct {
	mu sync.RWMutex
}

func NewReferenceLock() *ReferenceLock {
	return &ReferenceLock{}
}

func (l *ReferenceLock) WithReferences(ctx context.Context, fn func(context.Context) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(ctx)
}

func (l *ReferenceLock) exclusive(ctx context.Context, fn func(context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

// Usage lets the catalog and customer services delete only what no order points at.
type Usage struct {
	orders ports.Repository
	lock   *ReferenceLock
}

// NewUsage shares lock with the order service so its checks cannot interleave
// with a placement. A nil lock gets a private one.
func NewUsage(orders ports.Repository, lock *ReferenceLock) *Usage {
	if lock == nil {
		lock = NewReferenceLock()
	}
	return &Usage{orders: orders, lock: lock}
}

func (u *Usage) DeleteBeerIfUnused(ctx context.Context, beerID int64, remove func(context.Context) error) (bool, error) {
	return u.deleteIfUnused(ctx, remove, func(ctx context.Context) (bool, error) {
		return u.orders.HasLinesForBeer(ctx, beerID)
	})
}

func (u *Usage) DeleteCustomerIfUnused(ctx context.Context, customerID int64, remove func(context.Context) error) (bool, error) {
	return u.deleteIfUnused(ctx, remove, func(ctx context.Context) (bool, error) {
		return u.orders.HasOrdersForCustomer(ctx, customerID)
	})
}

func (u *Usage) deleteIfUnused(ctx context.Context, remove func(context.Context) error, inUse func(context.Context) (bool, error)) (bool, error) {
	var used bool
	err := u.lock.exclusive(ctx, func(ctx context.Context) error {
		var err error
		if used, err = inUse(ctx); err != nil || used {
			return err
		}
		return remove(ctx)
	})
	return used, err
}

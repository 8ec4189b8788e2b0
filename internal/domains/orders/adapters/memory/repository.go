package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders and lines in separate id-keyed tables, mirroring the
// relational layout: an order row never embeds its lines.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*orderRow
	lines      map[int64]*lineRow
	orderLines map[int64][]int64
	nextOrder  int64
	nextLine   int64
	now        func() time.Time
}

type orderRow struct {
	id          int64
	version     int64
	status      domain.Status
	callbackURL string
	customerID  int64
	metadata    projection.Metadata
}

type lineRow struct {
	line     domain.OrderLine
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{
		orders:     map[int64]*orderRow{},
		lines:      map[int64]*lineRow{},
		orderLines: map[int64][]int64{},
		now:        time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == 0 {
		return r.insertLocked(order), nil
	}
	return r.updateLocked(order)
}

func (r *Repository) insertLocked(order *domain.Order) *types.OrderProjection {
	timestamp := r.now()
	r.nextOrder++
	row := &orderRow{
		id:          r.nextOrder,
		status:      order.Status,
		callbackURL: order.CallbackURL,
		customerID:  order.CustomerID,
		metadata:    projection.Metadata{}.Touch(timestamp),
	}
	ids := make([]int64, 0, len(order.Lines))
	for _, line := range order.Lines {
		r.nextLine++
		line.ID = r.nextLine
		line.OrderID = row.id
		line.Version = 0
		r.lines[line.ID] = &lineRow{line: line, metadata: row.metadata}
		ids = append(ids, line.ID)
	}
	r.orders[row.id] = row
	r.orderLines[row.id] = ids
	return r.projectLocked(row)
}

func (r *Repository) updateLocked(order *domain.Order) (*types.OrderProjection, error) {
	row, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if row.version != order.Version {
		return nil, ports.ErrConcurrentModification
	}
	row.status = order.Status
	row.callbackURL = order.CallbackURL
	row.version++
	row.metadata = row.metadata.Touch(r.now())
	return r.projectLocked(row), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.projectLocked(row), nil
}

func (r *Repository) List(_ context.Context, page *paging.Request) ([]*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(page, func(*orderRow) bool { return true }), nil
}

func (r *Repository) ListByCustomer(_ context.Context, customerID int64, page *paging.Request) ([]*types.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(page, func(row *orderRow) bool { return row.customerID == customerID }), nil
}

func (r *Repository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orders[id]
	return ok, nil
}

// Delete removes the order row and every line it owns.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	for _, lineID := range r.orderLines[id] {
		delete(r.lines, lineID)
	}
	delete(r.orderLines, id)
	delete(r.orders, id)
	return nil
}

func (r *Repository) HasOrdersForCustomer(_ context.Context, customerID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.orders {
		if row.customerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) HasLinesForBeer(_ context.Context, beerID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.lines {
		if row.line.BeerID == beerID {
			return true, nil
		}
	}
	return false, nil
}

// LineCount reports how many line rows are stored across all orders.
func (r *Repository) LineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lines)
}

func (r *Repository) listLocked(page *paging.Request, keep func(*orderRow) bool) []*types.OrderProjection {
	ids := make([]int64, 0, len(r.orders))
	for id, row := range r.orders {
		if keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ids = paging.Slice(ids, page)
	result := make([]*types.OrderProjection, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.projectLocked(r.orders[id]))
	}
	return result
}

func (r *Repository) projectLocked(row *orderRow) *types.OrderProjection {
	order := &domain.Order{
		ID:          row.id,
		Version:     row.version,
		Status:      row.status,
		CallbackURL: row.callbackURL,
		CustomerID:  row.customerID,
	}
	lineIDs := r.orderLines[row.id]
	order.Lines = make([]domain.OrderLine, 0, len(lineIDs))
	for _, lineID := range lineIDs {
		if stored, ok := r.lines[lineID]; ok {
			order.Lines = append(order.Lines, stored.line)
		}
	}
	return &types.OrderProjection{Entity: order, Metadata: row.metadata}
}

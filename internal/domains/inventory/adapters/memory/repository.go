package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu      sync.RWMutex
	records map[int64]*stored
	nextID  int64
	now     func() time.Time
}

type stored struct {
	record   domain.Record
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{records: map[int64]*stored{}, now: time.Now}
}

func (r *Repository) Save(_ context.Context, record *domain.Record) (*ports.RecordProjection, error) {
	if record == nil {
		return nil, errors.New("cannot save nil inventory record")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := r.now()
	if record.ID == 0 {
		r.nextID++
		entry := &stored{record: *record, metadata: projection.Metadata{}.Touch(timestamp)}
		entry.record.ID = r.nextID
		entry.record.Version = 0
		r.records[entry.record.ID] = entry
		return entry.project(), nil
	}
	entry, ok := r.records[record.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if entry.record.Version != record.Version {
		return nil, ports.ErrConcurrentModification
	}
	entry.record = *record
	entry.record.Version++
	entry.metadata = entry.metadata.Touch(timestamp)
	return entry.project(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*ports.RecordProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.records[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return entry.project(), nil
}

func (r *Repository) List(_ context.Context) ([]*ports.RecordProjection, error) {
	return r.filter(func(*domain.Record) bool { return true }), nil
}

func (r *Repository) ListByBeer(_ context.Context, beerID int64) ([]*ports.RecordProjection, error) {
	return r.filter(func(rec *domain.Record) bool { return rec.BeerID == beerID }), nil
}

func (r *Repository) filter(keep func(*domain.Record) bool) []*ports.RecordProjection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.RecordProjection, 0, len(r.records))
	for _, entry := range r.records {
		if keep(&entry.record) {
			list = append(list, entry.project())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Entity.ID < list[j].Entity.ID })
	return list
}

func (e *stored) project() *ports.RecordProjection {
	clone := e.record
	return &ports.RecordProjection{Entity: &clone, Metadata: e.metadata}
}

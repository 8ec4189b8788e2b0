package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads and seeds inventory snapshots in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type inventoryRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	Version        int64     `gorm:"column:version;not null;default:0"`
	BeerID         int64     `gorm:"column:beer_id"`
	QuantityOnHand int32     `gorm:"column:quantity_on_hand"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "beer_inventory" }

func (r *Repository) Save(ctx context.Context, record *domain.Record) (*ports.RecordProjection, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres inventory repository not configured")
	}
	if record == nil {
		return nil, errors.New("inventory record is nil")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if record.ID == 0 {
		row := inventoryRecord{BeerID: record.BeerID, QuantityOnHand: record.QuantityOnHand}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		return row.toProjection(), nil
	}
	result := r.db.WithContext(ctx).
		Model(&inventoryRecord{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]any{
			"beer_id":          record.BeerID,
			"quantity_on_hand": record.QuantityOnHand,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrConcurrentModification
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*ports.RecordProjection, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres inventory repository not configured")
	}
	var row inventoryRecord
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return row.toProjection(), nil
}

func (r *Repository) List(ctx context.Context) ([]*ports.RecordProjection, error) {
	return r.find(ctx, r.db)
}

func (r *Repository) ListByBeer(ctx context.Context, beerID int64) ([]*ports.RecordProjection, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres inventory repository not configured")
	}
	return r.find(ctx, r.db.Where("beer_id = ?", beerID))
}

func (r *Repository) find(ctx context.Context, query *gorm.DB) ([]*ports.RecordProjection, error) {
	if query == nil {
		return nil, errors.New("postgres inventory repository not configured")
	}
	var rows []inventoryRecord
	if err := query.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.RecordProjection, 0, len(rows))
	for i := range rows {
		list = append(list, rows[i].toProjection())
	}
	return list, nil
}

func (r inventoryRecord) toProjection() *ports.RecordProjection {
	return projection.New(&domain.Record{
		ID:             r.ID,
		Version:        r.Version,
		BeerID:         r.BeerID,
		QuantityOnHand: r.QuantityOnHand,
	}, r.CreatedAt, r.UpdatedAt)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/go-gin-brewery-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists beers in PostgreSQL using GORM. Schema is owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type beerRecord struct {
	ID             int64           `gorm:"primaryKey;column:id"`
	Version        int64           `gorm:"column:version;not null;default:0"`
	Name           string          `gorm:"column:beer_name"`
	Style          string          `gorm:"column:beer_style"`
	UPC            string          `gorm:"column:upc"`
	QuantityOnHand int32           `gorm:"column:quantity_on_hand"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(19,2)"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (beerRecord) TableName() string { return "beers" }

// Save inserts a new beer or updates an existing one when its version still matches.
func (r *Repository) Save(ctx context.Context, beer *domain.Beer) (*types.BeerProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if beer == nil {
		return nil, errors.New("beer is nil")
	}
	if beer.ID == 0 {
		record := toRecord(beer)
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, translate(err)
		}
		return record.toProjection(), nil
	}
	result := r.db.WithContext(ctx).
		Model(&beerRecord{}).
		Where("id = ? AND version = ?", beer.ID, beer.Version).
		Updates(map[string]any{
			"beer_name":        beer.Name,
			"beer_style":       beer.Style,
			"upc":              beer.UPC,
			"quantity_on_hand": beer.QuantityOnHand,
			"price":            beer.Price,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, r.missOrConflict(ctx, beer.ID)
	}
	return r.GetByID(ctx, beer.ID)
}

// GetByID fetches a beer by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*types.BeerProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record beerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// FindByIDs loads every listed beer that exists in one round trip.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]*types.BeerProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*types.BeerProjection{}, nil
	}
	var records []beerRecord
	if err := r.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(ids)).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toProjections(records), nil
}

// List returns one page of beers ordered by id together with the total count.
func (r *Repository) List(ctx context.Context, page *paging.Request) (types.BeerPage, error) {
	if err := r.ensureDB(); err != nil {
		return types.BeerPage{}, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&beerRecord{}).Count(&total).Error; err != nil {
		return types.BeerPage{}, err
	}
	query := r.db.WithContext(ctx).Order("id ASC")
	result := types.BeerPage{TotalElements: total}
	if page != nil {
		query = query.Offset(page.Offset()).Limit(page.Size)
		result.Number, result.Size = page.Number, page.Size
	}
	var records []beerRecord
	if err := query.Find(&records).Error; err != nil {
		return types.BeerPage{}, err
	}
	result.Items = toProjections(records)
	return result, nil
}

// Delete removes a beer. Rows still referenced by order lines are protected by a foreign key.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&beerRecord{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) missOrConflict(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&beerRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrConcurrentModification
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres beer repository not configured")
	}
	return nil
}

func translate(err error) error {
	switch {
	case platformpostgres.IsUniqueViolation(err):
		return ports.ErrDuplicateUPC
	case platformpostgres.IsForeignKeyViolation(err):
		return ports.ErrInUse
	default:
		return err
	}
}

func toRecord(beer *domain.Beer) beerRecord {
	return beerRecord{
		ID:             beer.ID,
		Version:        beer.Version,
		Name:           beer.Name,
		Style:          beer.Style,
		UPC:            beer.UPC,
		QuantityOnHand: beer.QuantityOnHand,
		Price:          beer.Price,
	}
}

func (r beerRecord) toProjection() *types.BeerProjection {
	return projection.New(&domain.Beer{
		ID:             r.ID,
		Version:        r.Version,
		Name:           r.Name,
		Style:          r.Style,
		UPC:            r.UPC,
		QuantityOnHand: r.QuantityOnHand,
		Price:          r.Price,
	}, r.CreatedAt, r.UpdatedAt)
}

func toProjections(records []beerRecord) []*types.BeerProjection {
	result := make([]*types.BeerProjection, 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result
}

package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-gin-brewery-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL. The order row and
// its lines are written in one transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID          int64             `gorm:"primaryKey;column:id"`
	Version     int64             `gorm:"column:version;not null;default:0"`
	CustomerID  int64             `gorm:"column:customer_id"`
	OrderStatus string            `gorm:"column:order_status"`
	CallbackURL string            `gorm:"column:order_status_callback_url"`
	Lines       []orderLineRecord `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "beer_orders" }

type orderLineRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	Version           int64     `gorm:"column:version;not null;default:0"`
	OrderID           int64     `gorm:"column:beer_order_id"`
	BeerID            int64     `gorm:"column:beer_id"`
	OrderQuantity     int32     `gorm:"column:order_quantity"`
	QuantityAllocated int32     `gorm:"column:quantity_allocated"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (orderLineRecord) TableName() string { return "beer_order_lines" }

// Save inserts a new order with all of its lines, or updates the order row of an
// existing one when its version still matches. Lines are immutable after creation.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return r.insert(ctx, order)
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"order_status":              string(order.Status),
			"order_status_callback_url": order.CallbackURL,
			"version":                   gorm.Expr("version + 1"),
			"updated_at":                gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.missOrConflict(ctx, order.ID)
	}
	return r.GetByID(ctx, order.ID)
}

func (r *Repository) insert(ctx context.Context, order *domain.Order) (*types.OrderProjection, error) {
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(&record).Error; err != nil {
			return err
		}
		for i := range record.Lines {
			record.Lines[i].OrderID = record.ID
		}
		return tx.Create(&record.Lines).Error
	})
	if err != nil {
		if platformpostgres.IsForeignKeyViolation(err) {
			return nil, ports.ErrDanglingReference
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// GetByID loads an order with its lines in id order.
func (r *Repository) GetByID(ctx context.Context, id int64) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.withLines(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) List(ctx context.Context, page *paging.Request) ([]*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.withLines(ctx), page)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, page *paging.Request) ([]*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.withLines(ctx).Where("customer_id = ?", customerID), page)
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	return r.any(ctx, &orderRecord{}, "id = ?", id)
}

// Delete removes the order and its lines as one unit.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("beer_order_id = ?", id).Delete(&orderLineRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) HasOrdersForCustomer(ctx context.Context, customerID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	return r.any(ctx, &orderRecord{}, "customer_id = ?", customerID)
}

func (r *Repository) HasLinesForBeer(ctx context.Context, beerID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	return r.any(ctx, &orderLineRecord{}, "beer_id = ?", beerID)
}

func (r *Repository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (r *Repository) find(query *gorm.DB, page *paging.Request) ([]*types.OrderProjection, error) {
	query = query.Order("id ASC")
	if page != nil {
		query = query.Offset(page.Offset()).Limit(page.Size)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*types.OrderProjection, 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result, nil
}

func (r *Repository) any(ctx context.Context, model any, where string, arg int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(where, arg).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) missOrConflict(ctx context.Context, id int64) error {
	exists, err := r.any(ctx, &orderRecord{}, "id = ?", id)
	if err != nil {
		return err
	}
	if !exists {
		return ports.ErrNotFound
	}
	return ports.ErrConcurrentModification
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		CustomerID:  order.CustomerID,
		OrderStatus: string(order.Status),
		CallbackURL: order.CallbackURL,
		Lines:       make([]orderLineRecord, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		record.Lines = append(record.Lines, orderLineRecord{
			BeerID:            line.BeerID,
			OrderQuantity:     line.OrderQuantity,
			QuantityAllocated: line.QuantityAllocated,
		})
	}
	return record
}

func (r orderRecord) toProjection() *types.OrderProjection {
	order := &domain.Order{
		ID:          r.ID,
		Version:     r.Version,
		Status:      domain.Status(r.OrderStatus),
		CallbackURL: r.CallbackURL,
		CustomerID:  r.CustomerID,
		Lines:       make([]domain.OrderLine, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:                line.ID,
			Version:           line.Version,
			OrderID:           line.OrderID,
			BeerID:            line.BeerID,
			OrderQuantity:     line.OrderQuantity,
			QuantityAllocated: line.QuantityAllocated,
		})
	}
	return projection.New(order, r.CreatedAt, r.UpdatedAt)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	platformpostgres "github.com/Apurer/go-gin-brewery-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Version   int64     `gorm:"column:version;not null;default:0"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*types.CustomerProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if customer.ID == 0 {
		record := customerRecord{Name: customer.Name, Email: customer.Email, Phone: customer.Phone}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toProjection(), nil
	}
	result := r.db.WithContext(ctx).
		Model(&customerRecord{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version).
		Updates(map[string]any{
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"version":    gorm.Expr("version + 1"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrConcurrentModification
	}
	return r.GetByID(ctx, customer.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*types.CustomerProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&customerRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context) ([]*types.CustomerProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*types.CustomerProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// Delete removes a customer; the orders foreign key rejects customers that still own orders.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&customerRecord{}, id)
	if result.Error != nil {
		if platformpostgres.IsForeignKeyViolation(result.Error) {
			return ports.ErrInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func (r customerRecord) toProjection() *types.CustomerProjection {
	return projection.New(&domain.Customer{
		ID:      r.ID,
		Version: r.Version,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
	}, r.CreatedAt, r.UpdatedAt)
}

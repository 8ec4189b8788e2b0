package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate;
// the relations below exist only so GORM emits the foreign keys.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&beerRecord{},
		&customerRecord{},
		&inventoryRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&idempotencyRecord{},
	)
}

// Beer schema mirrors the catalog Postgres adapter.
type beerRecord struct {
	ID             int64           `gorm:"primaryKey;column:id"`
	Version        int64           `gorm:"column:version;not null;default:0"`
	Name           string          `gorm:"column:beer_name;size:100;not null"`
	Style          string          `gorm:"column:beer_style;not null"`
	UPC            string          `gorm:"column:upc;size:13;not null;uniqueIndex"`
	QuantityOnHand int32           `gorm:"column:quantity_on_hand;not null;default:0"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(19,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (beerRecord) TableName() string { return "beers" }

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Version   int64     `gorm:"column:version;not null;default:0"`
	Name      string    `gorm:"column:name;size:100;not null"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Inventory rows disappear with their beer.
type inventoryRecord struct {
	ID             int64      `gorm:"primaryKey;column:id"`
	Version        int64      `gorm:"column:version;not null;default:0"`
	BeerID         int64      `gorm:"column:beer_id;not null;index"`
	Beer           beerRecord `gorm:"foreignKey:BeerID;constraint:OnDelete:CASCADE"`
	QuantityOnHand int32      `gorm:"column:quantity_on_hand;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "beer_inventory" }

// Orders keep their customer alive; deleting a referenced customer fails.
type orderRecord struct {
	ID          int64          `gorm:"primaryKey;column:id"`
	Version     int64          `gorm:"column:version;not null;default:0"`
	CustomerID  int64          `gorm:"column:customer_id;not null;index"`
	Customer    customerRecord `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	OrderStatus string         `gorm:"column:order_status;type:varchar(32);not null;index"`
	CallbackURL string         `gorm:"column:order_status_callback_url;size:255"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "beer_orders" }

// Lines go with their order and pin the beers they reference.
type orderLineRecord struct {
	ID                int64       `gorm:"primaryKey;column:id"`
	Version           int64       `gorm:"column:version;not null;default:0"`
	OrderID           int64       `gorm:"column:beer_order_id;not null;index"`
	Order             orderRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	BeerID            int64       `gorm:"column:beer_id;not null;index"`
	Beer              beerRecord  `gorm:"foreignKey:BeerID;constraint:OnDelete:RESTRICT"`
	OrderQuantity     int32       `gorm:"column:order_quantity;not null"`
	QuantityAllocated int32       `gorm:"column:quantity_allocated;not null;default:0"`
	CreatedAt         time.Time   `gorm:"column:created_at"`
	UpdatedAt         time.Time   `gorm:"column:updated_at"`
}

func (orderLineRecord) TableName() string { return "beer_order_lines" }

// Idempotency schema mirrors the orders idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	OrderID     int64     `gorm:"column:beer_order_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

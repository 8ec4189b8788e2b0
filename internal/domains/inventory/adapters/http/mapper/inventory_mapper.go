package mapper

import (
	"time"

	inventoryports "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
)

// BeerInventory is the HTTP representation of a stock snapshot.
type BeerInventory struct {
	ID             int64     `json:"id"`
	Version        int64     `json:"version"`
	BeerID         int64     `json:"beerId"`
	QuantityOnHand int32     `json:"quantityOnHand"`
	CreatedDate    time.Time `json:"createdDate"`
	UpdateDate     time.Time `json:"updateDate"`
}

func FromProjection(p *inventoryports.RecordProjection) BeerInventory {
	record := p.Entity
	return BeerInventory{
		ID:             record.ID,
		Version:        record.Version,
		BeerID:         record.BeerID,
		QuantityOnHand: record.QuantityOnHand,
		CreatedDate:    p.Metadata.CreatedAt,
		UpdateDate:     p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(list []*inventoryports.RecordProjection) []BeerInventory {
	result := make([]BeerInventory, 0, len(list))
	for _, item := range list {
		result = append(result, FromProjection(item))
	}
	return result
}

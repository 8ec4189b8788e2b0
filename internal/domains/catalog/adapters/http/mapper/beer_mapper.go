package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
)

// BeerPayload is the create/update request body.
type BeerPayload struct {
	BeerName       string          `json:"beerName" binding:"required,min=3,max=100"`
	BeerStyle      string          `json:"beerStyle" binding:"required"`
	UPC            string          `json:"upc" binding:"required,min=3,max=13"`
	QuantityOnHand int32           `json:"quantityOnHand" binding:"gte=0"`
	Price          decimal.Decimal `json:"price"`
}

// Beer is the HTTP representation of a catalog entry.
type Beer struct {
	ID             int64           `json:"id"`
	Version        int64           `json:"version"`
	BeerName       string          `json:"beerName"`
	BeerStyle      string          `json:"beerStyle"`
	UPC            string          `json:"upc"`
	QuantityOnHand int32           `json:"quantityOnHand"`
	Price          decimal.Decimal `json:"price"`
	CreatedDate    time.Time       `json:"createdDate"`
	UpdateDate     time.Time       `json:"updateDate"`
}

// BeerList is one page of the catalog.
type BeerList struct {
	Beers         []Beer `json:"beers"`
	TotalPages    int    `json:"totalPages"`
	CurrentPage   int    `json:"currentPage"`
	PageSize      int    `json:"pageSize"`
	TotalElements int64  `json:"totalElements"`
}

func ToBeerInput(payload BeerPayload) catalogtypes.BeerInput {
	return catalogtypes.BeerInput{
		Name:           payload.BeerName,
		Style:          payload.BeerStyle,
		UPC:            payload.UPC,
		QuantityOnHand: payload.QuantityOnHand,
		Price:          payload.Price,
	}
}

// FromProjection maps a stored beer into its transport form.
func FromProjection(p *catalogtypes.BeerProjection) Beer {
	beer := p.Entity
	return Beer{
		ID:             beer.ID,
		Version:        beer.Version,
		BeerName:       beer.Name,
		BeerStyle:      beer.Style,
		UPC:            beer.UPC,
		QuantityOnHand: beer.QuantityOnHand,
		Price:          beer.Price,
		CreatedDate:    p.Metadata.CreatedAt,
		UpdateDate:     p.Metadata.UpdatedAt,
	}
}

func FromPage(page catalogtypes.BeerPage) BeerList {
	beers := make([]Beer, 0, len(page.Items))
	for _, item := range page.Items {
		beers = append(beers, FromProjection(item))
	}
	return BeerList{
		Beers:         beers,
		TotalPages:    page.TotalPages(),
		CurrentPage:   page.Number,
		PageSize:      page.Size,
		TotalElements: page.TotalElements,
	}
}

package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

// BeerProjection transports a beer with its persistence timestamps.
type BeerProjection = projection.Projection[*domain.Beer]

// BeerPage is one page of beers plus totals for the whole catalog.
type BeerPage = paging.Page[*BeerProjection]

// Default paging applied to beer listings when the caller omits parameters.
const (
	DefaultPageNumber int32 = 0
	DefaultPageSize   int32 = 25
)

// BeerInput carries the client-editable beer attributes.
type BeerInput struct {
	Name           string
	Style          string
	UPC            string
	QuantityOnHand int32
	Price          decimal.Decimal
}

type UpdateBeerInput struct {
	ID              int64
	ExpectedVersion *int64
	BeerInput
}

type ListBeersInput struct {
	PageNumber *int32
	PageSize   *int32
}

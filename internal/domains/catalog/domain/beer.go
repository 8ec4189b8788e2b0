package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidName     = errors.New("beer name must be between 3 and 100 characters")
	ErrInvalidStyle    = errors.New("beer style is required")
	ErrInvalidUPC      = errors.New("upc must be between 3 and 13 characters")
	ErrInvalidQuantity = errors.New("quantity on hand must not be negative")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
)

// Beer is a product in the catalog.
type Beer struct {
	ID             int64
	Version        int64
	Name           string
	Style          string
	UPC            string
	QuantityOnHand int32
	Price          decimal.Decimal
}

// NewBeer validates and constructs an unsaved beer.
func NewBeer(name, style, upc string, quantityOnHand int32, price decimal.Decimal) (*Beer, error) {
	beer := &Beer{
		Name:           strings.TrimSpace(name),
		Style:          strings.TrimSpace(style),
		UPC:            strings.TrimSpace(upc),
		QuantityOnHand: quantityOnHand,
		Price:          price,
	}
	if err := beer.Validate(); err != nil {
		return nil, err
	}
	return beer, nil
}

// Validate enforces invariants on the aggregate.
func (b *Beer) Validate() error {
	if n := utf8.RuneCountInString(b.Name); n < 3 || n > 100 {
		return ErrInvalidName
	}
	if b.Style == "" {
		return ErrInvalidStyle
	}
	if n := utf8.RuneCountInString(b.UPC); n < 3 || n > 13 {
		return ErrInvalidUPC
	}
	if b.QuantityOnHand < 0 {
		return ErrInvalidQuantity
	}
	if !b.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// Replace copies the mutable attributes of other onto b, keeping identity and version.
func (b *Beer) Replace(other *Beer) {
	b.Name = other.Name
	b.Style = other.Style
	b.UPC = other.UPC
	b.QuantityOnHand = other.QuantityOnHand
	b.Price = other.Price
}

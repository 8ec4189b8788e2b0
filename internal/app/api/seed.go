package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	customertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	customerports "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	inventorydomain "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/domain"
)

var seedBeers = []catalogtypes.BeerInput{
	{Name: "Mango Bobs", Style: "ALE", UPC: "0631234200036", QuantityOnHand: 500, Price: decimal.RequireFromString("12.95")},
	{Name: "Galaxy Cat", Style: "PALE_ALE", UPC: "0631234300019", QuantityOnHand: 250, Price: decimal.RequireFromString("11.95")},
	{Name: "Pinball Porter", Style: "PORTER", UPC: "0083783375213", QuantityOnHand: 120, Price: decimal.RequireFromString("13.50")},
}

var seedCustomer = customertypes.CustomerInput{Name: "Tasting Room", Email: "orders@tasting-room.example", Phone: "555-0100"}

// seed loads a small demo catalog, one customer and matching stock snapshots.
// Beers whose UPC already exists are skipped, so seeding is safe to repeat.
func seed(ctx context.Context, stores *Stores, beers catalogports.Service, customers customerports.Service, logger *slog.Logger) error {
	created := 0
	for _, input := range seedBeers {
		beer, err := beers.CreateBeer(ctx, input)
		if errors.Is(err, catalogports.ErrDuplicateUPC) {
			continue
		}
		if err != nil {
			return err
		}
		record := &inventorydomain.Record{BeerID: beer.Entity.ID, QuantityOnHand: beer.Entity.QuantityOnHand}
		if _, err := stores.Inventory.Save(ctx, record); err != nil {
			return err
		}
		created++
	}
	if created == 0 {
		return nil
	}
	if _, err := customers.CreateCustomer(ctx, seedCustomer); err != nil {
		return err
	}
	logger.Info("demo data seeded", slog.Int("beers", created))
	return nil
}

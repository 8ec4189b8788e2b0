package api

import (
	"log/slog"

	catalogobs "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	customerobs "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/adapters/observability"
	customerapp "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application"
	customerports "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	inventorycatalog "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/adapters/catalog"
	inventoryapp "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/application"
	inventoryports "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
	orderobs "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/observability"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/references"
	orderapp "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-brewery-api/internal/platform/observability"
)

// Services are the use cases of every bounded context, wrapped with tracing,
// logging and metrics where a decorator exists.
type Services struct {
	Beers     catalogports.Service
	Customers customerports.Service
	Inventory inventoryports.Service
	Orders    orderports.Service
}

// BuildServices wires the application services over stores. orderOpts add
// order collaborators such as the event publisher and status notifier.
func BuildServices(stores *Stores, cfg Config, instruments *platformobservability.Instruments, orderOpts ...orderapp.Option) Services {
	logger := effectiveLogger(instruments)
	lock := references.NewReferenceLock()
	usage := references.NewUsage(stores.Orders, lock)

	beers := catalogobs.New(
		catalogapp.NewService(stores.Beers,
			catalogapp.WithUsageChecker(usage),
			catalogapp.WithDefaultPageSize(cfg.DefaultPageSize),
		),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	customers := customerobs.New(
		customerapp.NewService(stores.Customers, usage),
		customerobs.WithLogger(logger),
		customerobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customerobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	inventory := inventoryapp.NewService(stores.Inventory, inventorycatalog.NewBeers(stores.Beers))

	opts := append([]orderapp.Option{
		orderapp.WithIdempotencyStore(stores.IdempotencyKeys),
		orderapp.WithTransitionPolicy(cfg.TransitionPolicy),
		orderapp.WithReferenceGuard(lock),
	}, orderOpts...)
	orders := orderobs.New(
		orderapp.NewService(stores.Orders,
			references.NewCustomers(stores.Customers),
			references.NewProducts(stores.Beers),
			opts...,
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	logger.Debug("services wired", slog.Bool("durableStores", stores.Durable), slog.String("transitions", cfg.TransitionPolicy.String()))
	return Services{Beers: beers, Customers: customers, Inventory: inventory, Orders: orders}
}

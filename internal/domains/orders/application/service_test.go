package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

type stubCustomers map[int64]bool

func (s stubCustomers) FindByID(_ context.Context, id int64) (*domain.CustomerRef, error) {
	if !s[id] {
		return nil, ports.ErrNotFound
	}
	return &domain.CustomerRef{ID: id}, nil
}

func (s stubCustomers) ExistsByID(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

type stubProducts map[int64]bool

func (s stubProducts) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.BeerRef, error) {
	found := map[int64]*domain.BeerRef{}
	for _, id := range ids {
		if s[id] {
			found[id] = &domain.BeerRef{ID: id}
		}
	}
	return found, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, event := range p.events {
		names = append(names, event.EventName())
	}
	return names
}

type recordingNotifier struct {
	urls          []string
	notifications []ports.StatusNotification
	err           error
}

func (n *recordingNotifier) Notify(_ context.Context, url string, notification ports.StatusNotification) error {
	n.urls = append(n.urls, url)
	n.notifications = append(n.notifications, notification)
	return n.err
}

type fixture struct {
	svc      *Service
	repo     *ordermemory.Repository
	events   *recordingPublisher
	notifier *recordingNotifier
}

func newFixture(opts ...Option) fixture {
	repo := ordermemory.NewRepository()
	events := &recordingPublisher{}
	notifier := &recordingNotifier{}
	base := []Option{
		WithEventPublisher(events),
		WithStatusNotifier(notifier),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }),
	}
	svc := NewService(repo, stubCustomers{10: true, 11: true}, stubProducts{5: true, 6: true}, append(base, opts...)...)
	return fixture{svc: svc, repo: repo, events: events, notifier: notifier}
}

func placeInput(customerID int64, lines ...types.LineInput) types.CreateOrderInput {
	return types.CreateOrderInput{CustomerID: customerID, CallbackURL: "cb", Lines: lines}
}

func int32Ptr(v int32) *int32 { return &v }

func TestOrderLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 2}))
	require.NoError(t, err)
	require.Equal(t, domain.StatusNew, created.Entity.Status)
	require.Equal(t, int64(10), created.Entity.CustomerID)
	require.Equal(t, "cb", created.Entity.CallbackURL)
	require.Len(t, created.Entity.Lines, 1)
	require.Equal(t, int64(5), created.Entity.Lines[0].BeerID)
	require.Equal(t, int32(2), created.Entity.Lines[0].OrderQuantity)
	require.Zero(t, created.Entity.Lines[0].QuantityAllocated)

	updated, found, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "ALLOCATED"})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, domain.StatusAllocated, updated.Entity.Status)
	require.Greater(t, updated.Entity.Version, created.Entity.Version)

	deleted, err := f.svc.Delete(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, found, err = f.svc.GetByID(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.False(t, found)
	require.Zero(t, f.repo.LineCount())

	require.Equal(t, []string{
		"orders.order.placed",
		"orders.order.status_changed",
		"orders.order.deleted",
	}, f.events.names())
}

func TestCreateOrder_RoundTripsThroughGetByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateOrder(ctx, placeInput(10,
		types.LineInput{BeerID: 5, OrderQuantity: 1},
		types.LineInput{BeerID: 6, OrderQuantity: 3},
	))
	require.NoError(t, err)

	fetched, found, err := f.svc.GetByID(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created.Entity, fetched.Entity)
}

func TestCreateOrder_MissingCustomerWritesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, placeInput(99, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.ErrorIs(t, err, ErrReferenceNotFound)
	var ref *ReferenceError
	require.True(t, errors.As(err, &ref))
	require.Equal(t, ResourceCustomer, ref.Resource)
	require.Equal(t, int64(99), ref.ID)

	all, err := f.svc.List(ctx, types.ListOrdersInput{})
	require.NoError(t, err)
	require.Empty(t, all)
	require.Zero(t, f.repo.LineCount())
	require.Empty(t, f.events.names())
}

func TestCreateOrder_MissingBeerNamesTheLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, placeInput(10,
		types.LineInput{BeerID: 5, OrderQuantity: 1},
		types.LineInput{BeerID: 77, OrderQuantity: 1},
	))
	require.ErrorIs(t, err, ErrReferenceNotFound)
	var ref *ReferenceError
	require.True(t, errors.As(err, &ref))
	require.Equal(t, ResourceBeer, ref.Resource)
	require.Equal(t, int64(77), ref.ID)
	require.Equal(t, 1, ref.LineIndex)

	all, err := f.svc.List(ctx, types.ListOrdersInput{})
	require.NoError(t, err)
	require.Empty(t, all)
	require.Zero(t, f.repo.LineCount())
}

func TestCreateOrder_RejectsInvalidInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := map[string]types.CreateOrderInput{
		"no lines":      placeInput(10),
		"zero quantity": placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 0}),
		"bad customer":  placeInput(0, types.LineInput{BeerID: 5, OrderQuantity: 1}),
		"long callback": {
			CustomerID:  10,
			CallbackURL: string(make([]byte, domain.MaxCallbackURLLength+1)),
			Lines:       []types.LineInput{{BeerID: 5, OrderQuantity: 1}},
		},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	require.Zero(t, f.repo.LineCount())
}

func TestListPagingPartitionsOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	for page := int32(0); page < 3; page++ {
		list, err := f.svc.List(ctx, types.ListOrdersInput{PageInput: types.PageInput{PageNumber: int32Ptr(page), PageSize: int32Ptr(2)}})
		require.NoError(t, err)
		require.LessOrEqual(t, len(list), 2)
		for _, order := range list {
			require.False(t, seen[order.Entity.ID], "order %d appeared on two pages", order.Entity.ID)
			seen[order.Entity.ID] = true
		}
	}
	require.Len(t, seen, 5)

	_, err := f.svc.List(ctx, types.ListOrdersInput{PageInput: types.PageInput{PageNumber: int32Ptr(0), PageSize: int32Ptr(0)}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, placeInput(11, types.LineInput{BeerID: 6, OrderQuantity: 1}))
	require.NoError(t, err)

	mine, err := f.svc.ListByCustomer(ctx, types.ListCustomerOrdersInput{CustomerID: 10})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, int64(10), mine[0].Entity.CustomerID)

	unknown, err := f.svc.ListByCustomer(ctx, types.ListCustomerOrdersInput{CustomerID: 404})
	require.NoError(t, err)
	require.NotNil(t, unknown)
	require.Empty(t, unknown)
}

func TestUpdateStatus_MissingOrderIsNotFound(t *testing.T) {
	f := newFixture()
	result, found, err := f.svc.UpdateStatus(context.Background(), types.UpdateStatusInput{OrderID: 12345, Status: "ALLOCATED"})
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, result)
}

func TestUpdateStatus_UnknownStatusIsValidationFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)

	_, _, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "SHIPPED"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_StaleVersionConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)
	stale := created.Entity.Version

	_, _, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "VALIDATION_PENDING", ExpectedVersion: &stale})
	require.NoError(t, err)

	_, found, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "CANCELLED", ExpectedVersion: &stale})
	require.True(t, found)
	require.ErrorIs(t, err, ports.ErrConcurrentModification)

	current, _, err := f.svc.GetByID(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusValidationPending, current.Entity.Status)
}

func TestUpdateStatus_ConcurrentWritersNeverLoseAnUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)
	version := created.Entity.Version

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, status := range []string{"ALLOCATED", "CANCELLED"} {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, _, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: status, ExpectedVersion: &version})
			results <- err
		}(status)
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ports.ErrConcurrentModification):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, conflicted)

	current, _, err := f.svc.GetByID(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, version+1, current.Entity.Version)
}

func TestUpdateStatus_StrictPolicyRejectsSkippingStates(t *testing.T) {
	f := newFixture(WithTransitionPolicy(domain.Strict))
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)

	_, _, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "DELIVERED"})
	require.ErrorIs(t, err, ErrInvalidInput)
	var transition *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transition))

	updated, _, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "CANCELLED"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Entity.Status)
}

func TestUpdateStatus_PermissivePolicyAllowsAnyStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)

	updated, _, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "delivered"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, updated.Entity.Status)
}

func TestUpdateStatus_NotifiesCallbackOnlyOnChange(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("callback unreachable")
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 1}))
	require.NoError(t, err)

	_, _, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "VALIDATION_PENDING"})
	require.NoError(t, err)
	_, _, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: created.Entity.ID, Status: "VALIDATION_PENDING"})
	require.NoError(t, err)

	require.Equal(t, []string{"cb"}, f.notifier.urls)
	notification := f.notifier.notifications[0]
	require.Equal(t, domain.StatusNew, notification.PreviousStatus)
	require.Equal(t, domain.StatusValidationPending, notification.Status)
	require.Equal(t, created.Entity.ID, notification.OrderID)
}

func TestDelete_MissingOrderReportsFalse(t *testing.T) {
	f := newFixture()
	deleted, err := f.svc.Delete(context.Background(), 404)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestCreateOrder_IdempotencyKeyReplaysFirstOrder(t *testing.T) {
	f := newFixture(WithIdempotencyStore(ordermemory.NewIdempotencyStore()))
	ctx := context.Background()
	input := placeInput(10, types.LineInput{BeerID: 5, OrderQuantity: 2})
	input.IdempotencyKey = "order-123"

	first, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, first.Entity.ID, second.Entity.ID)

	all, err := f.svc.List(ctx, types.ListOrdersInput{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, []string{"orders.order.placed"}, f.events.names())

	input.Lines[0].OrderQuantity = 3
	_, err = f.svc.CreateOrder(ctx, input)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

// Service orchestrates the order use cases. It owns the rule that an order only
// ever points at customers and beers that existed when it was created.
type Service struct {
	repo      ports.Repository
	customers ports.CustomerStore
	products  ports.ProductStore
	events    ports.EventPublisher
	notifier  ports.StatusNotifier
	keys      ports.IdempotencyStore
	guard     ports.ReferenceGuard
	policy    domain.TransitionPolicy
	now       func() time.Time
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithEventPublisher publishes order events after each successful write.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithStatusNotifier calls the order callback URL after status changes.
func WithStatusNotifier(notifier ports.StatusNotifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithIdempotencyStore makes CreateOrder replay the first order placed under a key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.keys = store
	}
}

// WithReferenceGuard holds references from resolution until the order is stored.
func WithReferenceGuard(guard ports.ReferenceGuard) Option {
	return func(s *Service) {
		s.guard = guard
	}
}

func WithTransitionPolicy(policy domain.TransitionPolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the order service with its stores.
func NewService(repo ports.Repository, customers ports.CustomerStore, products ports.ProductStore, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		customers: customers,
		products:  products,
		policy:    domain.Permissive,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder validates the request, resolves the customer and every beer, and
// persists the order with all of its lines. Nothing is written when any
// reference is missing. A request carrying an idempotency key that was already
// used returns the order placed the first time.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderProjection, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.keys != nil {
		hash, err := FingerprintCreateOrder(input)
		if err != nil {
			return nil, err
		}
		fingerprint = hash
		replayed, err := s.replay(ctx, key, fingerprint)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}
	order, err := domain.NewOrder(input.CustomerID, input.CallbackURL, input.LineRequests())
	if err != nil {
		return nil, mapError(err)
	}
	var saved *types.OrderProjection
	err = s.withReferences(ctx, func(ctx context.Context) error {
		if err := s.resolve(ctx, order); err != nil {
			return err
		}
		var err error
		saved, err = s.repo.Save(ctx, order)
		return mapError(err)
	})
	if err != nil {
		return nil, err
	}
	if fingerprint != "" {
		return s.claimKey(ctx, key, fingerprint, saved)
	}
	s.publish(ctx, domain.NewOrderPlaced(saved.Entity, s.now()))
	return saved, nil
}

func (s *Service) withReferences(ctx context.Context, fn func(context.Context) error) error {
	if s.guard == nil {
		return fn(ctx)
	}
	return s.guard.WithReferences(ctx, fn)
}

// resolve checks that the customer and every line's beer exist. A missing beer
// is reported with the index of the first line naming it.
func (s *Service) resolve(ctx context.Context, order *domain.Order) error {
	if _, err := s.customers.FindByID(ctx, order.CustomerID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return customerNotFound(order.CustomerID)
		}
		return err
	}
	beers, err := s.products.FindByIDs(ctx, order.BeerIDs())
	if err != nil {
		return err
	}
	for i, line := range order.Lines {
		if _, ok := beers[line.BeerID]; !ok {
			return beerNotFound(line.BeerID, i)
		}
	}
	return nil
}

func (s *Service) replay(ctx context.Context, key, fingerprint string) (*types.OrderProjection, error) {
	record, err := s.keys.Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	existing, found, err := s.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: order %d placed under this key was deleted", ports.ErrIdempotencyConflict, record.OrderID)
	}
	return existing, nil
}

// claimKey records the key for saved. When a concurrent request claimed the key
// first, saved is discarded in favour of the winner's order.
func (s *Service) claimKey(ctx context.Context, key, fingerprint string, saved *types.OrderProjection) (*types.OrderProjection, error) {
	record, err := s.keys.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: saved.Entity.ID})
	if err != nil {
		_ = s.repo.Delete(ctx, saved.Entity.ID)
		return nil, err
	}
	if record.OrderID != saved.Entity.ID {
		_ = s.repo.Delete(ctx, saved.Entity.ID)
		winner, err := s.repo.GetByID(ctx, record.OrderID)
		if err != nil {
			return nil, mapError(err)
		}
		return winner, nil
	}
	s.publish(ctx, domain.NewOrderPlaced(saved.Entity, s.now()))
	return saved, nil
}

// GetByID reports found=false when the order does not exist.
func (s *Service) GetByID(ctx context.Context, id int64) (*types.OrderProjection, bool, error) {
	projection, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return projection, true, nil
}

// List pages through all orders when both page parameters are given.
func (s *Service) List(ctx context.Context, input types.ListOrdersInput) ([]*types.OrderProjection, error) {
	page, err := paging.New(input.PageNumber, input.PageSize)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.List(ctx, page)
}

// ListByCustomer returns an empty list for an unknown customer.
func (s *Service) ListByCustomer(ctx context.Context, input types.ListCustomerOrdersInput) ([]*types.OrderProjection, error) {
	page, err := paging.New(input.PageNumber, input.PageSize)
	if err != nil {
		return nil, mapError(err)
	}
	exists, err := s.customers.ExistsByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []*types.OrderProjection{}, nil
	}
	return s.repo.ListByCustomer(ctx, input.CustomerID, page)
}

// UpdateStatus overwrites the status of an existing order. The write is
// conditioned on the version that was read, so a concurrent writer yields
// ports.ErrConcurrentModification.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderProjection, bool, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, false, mapError(err)
	}
	current, found, err := s.GetByID(ctx, input.OrderID)
	if err != nil || !found {
		return nil, found, err
	}
	order := current.Entity
	if input.ExpectedVersion != nil && *input.ExpectedVersion != order.Version {
		return nil, true, ports.ErrConcurrentModification
	}
	previous, err := order.ChangeStatus(status, s.policy)
	if err != nil {
		return nil, true, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, mapError(err)
	}
	if previous != status {
		s.statusChanged(ctx, saved.Entity, previous)
	}
	return saved, true, nil
}

// Delete removes the order and its lines, reporting false when nothing existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.publish(ctx, domain.OrderDeleted{BaseEvent: domain.BaseEvent{OrderID: id, Timestamp: s.now()}})
	return true, nil
}

func (s *Service) statusChanged(ctx context.Context, order *domain.Order, previous domain.Status) {
	at := s.now()
	s.publish(ctx, domain.OrderStatusChanged{
		BaseEvent:      domain.BaseEvent{OrderID: order.ID, Timestamp: at},
		PreviousStatus: previous,
		Status:         order.Status,
		Version:        order.Version,
	})
	if s.notifier == nil || order.CallbackURL == "" {
		return
	}
	// Callback delivery is best-effort; the status is already committed.
	_ = s.notifier.Notify(ctx, order.CallbackURL, ports.StatusNotification{
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		Status:         order.Status,
		PreviousStatus: previous,
		Version:        order.Version,
		OccurredAt:     at,
	})
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, event)
}

var _ ports.Service = (*Service)(nil)

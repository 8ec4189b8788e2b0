package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
)

var ErrInvalidInput = errors.New("invalid customer input")

// Service orchestrates the customer directory.
type Service struct {
	repo  ports.Repository
	usage ports.UsageChecker
}

func NewService(repo ports.Repository, usage ports.UsageChecker) *Service {
	return &Service{repo: repo, usage: usage}
}

func (s *Service) CreateCustomer(ctx context.Context, input types.CustomerInput) (*types.CustomerProjection, error) {
	customer, err := domain.NewCustomer(input.Name, input.Email, input.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, customer)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*types.CustomerProjection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*types.CustomerProjection, error) {
	return s.repo.List(ctx)
}

// UpdateCustomer returns ports.ErrNotFound when the customer does not exist.
func (s *Service) UpdateCustomer(ctx context.Context, input types.UpdateCustomerInput) (*types.CustomerProjection, error) {
	replacement, err := domain.NewCustomer(input.Name, input.Email, input.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	customer := current.Entity
	if input.ExpectedVersion != nil && *input.ExpectedVersion != customer.Version {
		return nil, ports.ErrConcurrentModification
	}
	customer.Replace(replacement)
	return s.repo.Save(ctx, customer)
}

// DeleteCustomer refuses to remove a customer that still owns orders.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if s.usage == nil {
		return s.repo.Delete(ctx, id)
	}
	inUse, err := s.usage.DeleteCustomerIfUnused(ctx, id, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	if inUse {
		return ports.ErrInUse
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidPhone) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)

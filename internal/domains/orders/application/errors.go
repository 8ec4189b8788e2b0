package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrReferenceNotFound signals a customer or beer id that does not resolve.
	ErrReferenceNotFound = errors.New("order reference not found")
)

// Resource names the kind of entity a ReferenceError points at.
type Resource string

const (
	ResourceCustomer Resource = "customer"
	ResourceBeer     Resource = "beer"
)

// ReferenceError reports which reference failed to resolve during order creation.
// LineIndex is -1 for the customer.
type ReferenceError struct {
	Resource  Resource `json:"resource"`
	ID        int64    `json:"id"`
	LineIndex int      `json:"lineIndex"`
}

func (e *ReferenceError) Error() string {
	if e.Resource == ResourceBeer {
		return fmt.Sprintf("%s: beer %d on line %d", ErrReferenceNotFound, e.ID, e.LineIndex)
	}
	return fmt.Sprintf("%s: %s %d", ErrReferenceNotFound, e.Resource, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReferenceNotFound }

func customerNotFound(id int64) *ReferenceError {
	return &ReferenceError{Resource: ResourceCustomer, ID: id, LineIndex: -1}
}

func beerNotFound(id int64, line int) *ReferenceError {
	return &ReferenceError{Resource: ResourceBeer, ID: id, LineIndex: line}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCustomerID) ||
		errors.Is(err, domain.ErrNoOrderLines) ||
		errors.Is(err, domain.ErrInvalidBeerID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidAllocatedQty) ||
		errors.Is(err, domain.ErrCallbackURLTooLong) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, paging.ErrInvalidPage) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDanglingReference) {
		return fmt.Errorf("%w: %w", ErrReferenceNotFound, err)
	}
	return err
}

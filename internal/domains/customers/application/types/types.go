package types

import (
	"github.com/Apurer/go-gin-brewery-api/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/projection"
)

// CustomerProjection transports a customer with its persistence timestamps.
type CustomerProjection = projection.Projection[*domain.Customer]

type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type UpdateCustomerInput struct {
	ID              int64
	ExpectedVersion *int64
	CustomerInput
}

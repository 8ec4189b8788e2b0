package mapper

import (
	"time"

	customertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
)

// CustomerPayload is the create/update request body.
type CustomerPayload struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// Customer is the HTTP representation of a directory entry.
type Customer struct {
	ID          int64     `json:"id"`
	Version     int64     `json:"version"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedDate time.Time `json:"createdDate"`
	UpdateDate  time.Time `json:"updateDate"`
}

func ToCustomerInput(payload CustomerPayload) customertypes.CustomerInput {
	return customertypes.CustomerInput{Name: payload.Name, Email: payload.Email, Phone: payload.Phone}
}

func FromProjection(p *customertypes.CustomerProjection) Customer {
	customer := p.Entity
	return Customer{
		ID:          customer.ID,
		Version:     customer.Version,
		Name:        customer.Name,
		Email:       customer.Email,
		Phone:       customer.Phone,
		CreatedDate: p.Metadata.CreatedAt,
		UpdateDate:  p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(list []*customertypes.CustomerProjection) []Customer {
	result := make([]Customer, 0, len(list))
	for _, item := range list {
		result = append(result, FromProjection(item))
	}
	return result
}

package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidName  = errors.New("customer name is required and must be at most 100 characters")
	ErrInvalidEmail = errors.New("customer email must be a valid address")
	ErrInvalidPhone = errors.New("customer phone is required")
)

var emailValidator = validator.New()

// Customer is an entry in the customer directory.
type Customer struct {
	ID      int64
	Version int64
	Name    string
	Email   string
	Phone   string
}

// NewCustomer validates and constructs an unsaved customer.
func NewCustomer(name, email, phone string) (*Customer, error) {
	customer := &Customer{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return customer, nil
}

// Validate enforces invariants on the aggregate.
func (c *Customer) Validate() error {
	if c.Name == "" || len(c.Name) > 100 {
		return ErrInvalidName
	}
	if c.Email == "" || emailValidator.Var(c.Email, "email") != nil {
		return ErrInvalidEmail
	}
	if c.Phone == "" {
		return ErrInvalidPhone
	}
	return nil
}

// Replace copies the contact details of other onto c.
func (c *Customer) Replace(other *Customer) {
	c.Name = other.Name
	c.Email = other.Email
	c.Phone = other.Phone
}

package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

var ErrInvalidInput = errors.New("invalid beer input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidStyle) ||
		errors.Is(err, domain.ErrInvalidUPC) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, paging.ErrInvalidPage) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

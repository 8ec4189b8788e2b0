package breweryserver

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	customerapp "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application"
	customerports "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	inventoryports "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
	orderapp "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-brewery-api/internal/shared/errors"
	"github.com/Apurer/go-gin-brewery-api/internal/shared/paging"
)

var responder = apierrors.NewChainedResponder("",
	mapPagingError,
	mapCatalogError,
	mapCustomerError,
	mapInventoryError,
	mapOrderError,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError runs err through the per-context mappers; unmapped errors become 500s.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{name: "must be an integer"}))
		return 0, false
	}
	return id, true
}

func invalidInput(err error) apierrors.ProblemDetail {
	return apierrors.ErrValidation.WithDetail(err.Error())
}

func conflict(err error) apierrors.ProblemDetail {
	return apierrors.ErrConflict.WithDetail(err.Error())
}

func notFound(err error) apierrors.ProblemDetail {
	return apierrors.ErrNotFound.WithDetail(err.Error())
}

func mapPagingError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, paging.ErrInvalidPage) {
		return invalidInput(err), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return notFound(err), true
	case errors.Is(err, catalogports.ErrConcurrentModification),
		errors.Is(err, catalogports.ErrDuplicateUPC),
		errors.Is(err, catalogports.ErrInUse):
		return conflict(err), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return invalidInput(err), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCustomerError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, customerports.ErrNotFound):
		return notFound(err), true
	case errors.Is(err, customerports.ErrConcurrentModification),
		errors.Is(err, customerports.ErrInUse):
		return conflict(err), true
	case errors.Is(err, customerapp.ErrInvalidInput):
		return invalidInput(err), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInventoryError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, inventoryports.ErrNotFound) {
		return notFound(err), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var refErr *orderapp.ReferenceError
	switch {
	case errors.As(err, &refErr):
		return apierrors.ErrUnprocessable.
			WithDetail(refErr.Error()).
			WithExtension("resourceType", string(refErr.Resource)).
			WithExtension("identifier", refErr.ID).
			WithExtension("lineIndex", refErr.LineIndex), true
	case errors.Is(err, orderapp.ErrReferenceNotFound):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return notFound(err), true
	case errors.Is(err, orderports.ErrConcurrentModification),
		errors.Is(err, orderports.ErrIdempotencyConflict):
		return conflict(err), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return invalidInput(err), true
	}
	return apierrors.ProblemDetail{}, false
}

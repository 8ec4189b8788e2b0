package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_InitialState(t *testing.T) {
	order, err := NewOrder(10, "cb", []LineRequest{{BeerID: 5, Quantity: 2}, {BeerID: 6, Quantity: 1}})
	require.NoError(t, err)
	require.Equal(t, StatusNew, order.Status)
	require.Len(t, order.Lines, 2)
	for _, line := range order.Lines {
		require.Zero(t, line.QuantityAllocated)
		require.Zero(t, line.ID)
	}
	require.NoError(t, order.Validate())
}

func TestValidateRequest(t *testing.T) {
	require.ErrorIs(t, ValidateRequest(0, "", []LineRequest{{BeerID: 1, Quantity: 1}}), ErrInvalidCustomerID)
	require.ErrorIs(t, ValidateRequest(1, "", nil), ErrNoOrderLines)
	require.ErrorIs(t, ValidateRequest(1, strings.Repeat("x", 256), []LineRequest{{BeerID: 1, Quantity: 1}}), ErrCallbackURLTooLong)

	err := ValidateRequest(1, "", []LineRequest{{BeerID: 1, Quantity: 1}, {BeerID: 2, Quantity: 0}})
	require.ErrorIs(t, err, ErrInvalidQuantity)
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	require.Equal(t, 1, lineErr.Index)

	require.ErrorIs(t, ValidateRequest(1, "", []LineRequest{{BeerID: -3, Quantity: 1}}), ErrInvalidBeerID)
}

func TestChangeStatus(t *testing.T) {
	order, err := NewOrder(1, "", []LineRequest{{BeerID: 1, Quantity: 1}})
	require.NoError(t, err)

	previous, err := order.ChangeStatus(StatusAllocated, Permissive)
	require.NoError(t, err)
	require.Equal(t, StatusNew, previous)
	require.Equal(t, StatusAllocated, order.Status)

	_, err = order.ChangeStatus(StatusNew, Strict)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.Equal(t, StatusAllocated, order.Status)

	_, err = order.ChangeStatus(Status("LOST"), Permissive)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestClone_CopiesLines(t *testing.T) {
	order, err := NewOrder(1, "", []LineRequest{{BeerID: 1, Quantity: 1}})
	require.NoError(t, err)

	clone := order.Clone()
	clone.Lines[0].OrderQuantity = 99
	require.Equal(t, int32(1), order.Lines[0].OrderQuantity)
}

func TestBeerIDs_Distinct(t *testing.T) {
	order, err := NewOrder(1, "", []LineRequest{{BeerID: 3, Quantity: 1}, {BeerID: 1, Quantity: 1}, {BeerID: 3, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1}, order.BeerIDs())
}

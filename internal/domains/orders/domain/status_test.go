package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" allocated ")
	require.NoError(t, err)
	require.Equal(t, StatusAllocated, status)

	_, err = ParseStatus("SHIPPED")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCanTransition_HappyPath(t *testing.T) {
	path := []Status{
		StatusNew,
		StatusValidationPending,
		StatusValidated,
		StatusAllocationPending,
		StatusAllocated,
		StatusPickedUp,
		StatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		require.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusNew, StatusAllocated, false},
		{StatusNew, StatusNew, true},
		{StatusValidationPending, StatusValidationException, true},
		{StatusValidationException, StatusValidationPending, true},
		{StatusAllocationPending, StatusPendingInventory, true},
		{StatusPendingInventory, StatusAllocated, true},
		{StatusAllocationException, StatusAllocationPending, true},
		{StatusPickedUp, StatusDeliveryException, true},
		{StatusPickedUp, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusNew, false},
		{Status("BOGUS"), StatusNew, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCancelledReachableFromEveryNonTerminalState(t *testing.T) {
	for _, status := range Statuses {
		if status.Terminal() {
			continue
		}
		require.True(t, CanTransition(status, StatusCancelled), status)
	}
}

func TestTerminalStatuses(t *testing.T) {
	var terminal []Status
	for _, status := range Statuses {
		if status.Terminal() {
			terminal = append(terminal, status)
		}
	}
	require.ElementsMatch(t, []Status{StatusDelivered, StatusDeliveryException, StatusCancelled}, terminal)
}

func TestParseTransitionPolicy(t *testing.T) {
	policy, err := ParseTransitionPolicy("")
	require.NoError(t, err)
	require.Equal(t, Permissive, policy)

	policy, err = ParseTransitionPolicy("STRICT")
	require.NoError(t, err)
	require.Equal(t, Strict, policy)

	_, err = ParseTransitionPolicy("lenient")
	require.Error(t, err)
}

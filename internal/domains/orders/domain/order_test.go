package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_DefaultsToPending(t *testing.T) {
	order, err := NewOrder(0, 1, 2, "")
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
}

func TestNewOrder_Validates(t *testing.T) {
	_, err := NewOrder(0, 0, 1, StatusPending)
	require.ErrorIs(t, err, ErrInvalidProductID)

	_, err = NewOrder(0, 1, 0, StatusPending)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(0, 1, 1, Status("LOST"))
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" confirmed ")
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, status)

	_, err = ParseStatus("returned")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range Statuses() {
		require.Equal(t, s == StatusDelivered || s == StatusCancelled, s.Terminal(), s)
	}
}

func TestApplyChanges_KeepsStatusWhenEmpty(t *testing.T) {
	order := &Order{ID: 1, ProductID: 1, Quantity: 1, Status: StatusShipped}
	order.ApplyChanges(&Order{ID: 9, ProductID: 2, Quantity: 5})
	require.Equal(t, int64(1), order.ID)
	require.Equal(t, int64(2), order.ProductID)
	require.Equal(t, 5, order.Quantity)
	require.Equal(t, StatusShipped, order.Status)

	order.ApplyChanges(&Order{ProductID: 2, Quantity: 5, Status: StatusCancelled})
	require.Equal(t, StatusCancelled, order.Status)
}

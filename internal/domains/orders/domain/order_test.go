package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusShipped.Terminal())

	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusProcessing.Cancellable())
	assert.False(t, StatusShipped.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())

	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("unknown").Valid())
}

func TestNewOrder_ComputesTotal(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Name: "Headphones", PriceCents: 5000, Quantity: 2},
		{ProductID: 2, Name: "Cable", PriceCents: 750, Quantity: 3},
	}
	order, err := NewOrder(7, items, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12250), order.TotalCents)
	assert.Equal(t, DefaultStatus, order.Status)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(7, nil, "")
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder(7, []LineItem{{ProductID: 0, Quantity: 1}}, "")
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = NewOrder(7, []LineItem{{ProductID: 1, Quantity: 0}}, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(0, []LineItem{{ProductID: 1, Quantity: 1}}, "")
	assert.ErrorIs(t, err, ErrInvalidOwner)

	_, err = NewOrder(7, []LineItem{{ProductID: 1, Quantity: 1}}, "dispatched")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestValidate_TotalMismatch(t *testing.T) {
	order, err := NewOrder(7, []LineItem{{ProductID: 1, PriceCents: 100, Quantity: 1}}, StatusPending)
	require.NoError(t, err)
	order.TotalCents = 999
	assert.Error(t, order.Validate())
}

func TestUpdateStatus_DefaultsEmpty(t *testing.T) {
	order := &Order{}
	require.NoError(t, order.UpdateStatus(""))
	assert.Equal(t, StatusProcessing, order.Status)
	assert.Error(t, order.UpdateStatus("bogus"))
}

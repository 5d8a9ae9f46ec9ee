package order_test

import (
	"strings"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newItem(t *testing.T, quantity int, price string) order.LineItem {
	t.Helper()
	unitPrice, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), quantity, unitPrice)
	require.NoError(t, err)
	return item
}

func newPlacedOrder(t *testing.T, items ...order.LineItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.LineItem{newItem(t, 2, "10.00")}
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, placedAt)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create placed order", func(t *testing.T) {
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		items := []order.LineItem{newItem(t, 2, "10.00"), newItem(t, 1, "5.50")}

		o, err := order.NewOrder(id, customerID, items, placedAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.CustomerID().IsEqual(customerID))
		assert.Equal(t, order.Placed, o.Status())
		assert.Nil(t, o.Shipper())
		assert.Equal(t, int64(0), o.Version())
		assert.Equal(t, "25.50", o.Total().String())
		at, ok := o.EnteredAt(order.Placed)
		assert.True(t, ok)
		assert.Equal(t, placedAt, at)
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), nil, placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, []order.LineItem{{}}, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "id")
		assert.Contains(t, err.Error(), "customerId")
		assert.Contains(t, err.Error(), "items[0]")
	})

	t.Run("should copy items", func(t *testing.T) {
		items := []order.LineItem{newItem(t, 1, "1.00")}
		o := newPlacedOrder(t, items...)

		items[0] = newItem(t, 9, "9.00")

		assert.Equal(t, 1, o.Items()[0].Quantity())
	})
}

func TestNewLineItem(t *testing.T) {
	price, err := kernel.MoneyFromString("3.00")
	require.NoError(t, err)

	_, err = order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), 0, price)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.NewLineItem(kernel.UUID{}, kernel.NewUUID(), 1, kernel.Money{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	item, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), 4, price)
	require.NoError(t, err)
	assert.Equal(t, "12.00", item.Subtotal().String())
}

func TestOrder_Validate_ZeroValue(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_AssignShipper(t *testing.T) {
	t.Run("should refuse assignment while placed", func(t *testing.T) {
		o := newPlacedOrder(t)

		err := o.AssignShipper(kernel.NewUUID(), placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, o.Shipper())
	})

	t.Run("should assign and reassign while preparing", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.TransitionTo(order.Preparing, placedAt.Add(time.Minute), order.Tracking{}))
		first, second := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, o.AssignShipper(first, placedAt.Add(2*time.Minute)))
		require.NoError(t, o.AssignShipper(second, placedAt.Add(3*time.Minute)))

		assert.True(t, o.IsAssignedTo(second))
		assert.False(t, o.IsAssignedTo(first))
		require.NotNil(t, o.ShipperAssignedAt())
		assert.Equal(t, placedAt.Add(3*time.Minute), *o.ShipperAssignedAt())
	})

	t.Run("should reject nil shipper", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.TransitionTo(order.Preparing, placedAt, order.Tracking{}))

		require.ErrorIs(t, o.AssignShipper(kernel.UUID{}, placedAt), errs.ErrValueIsRequired)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("should walk the delivered path and record every entry time", func(t *testing.T) {
		o := newPlacedOrder(t)
		shipper := kernel.NewUUID()
		eta := placedAt.Add(48 * time.Hour)

		require.NoError(t, o.TransitionTo(order.Preparing, placedAt.Add(time.Hour), order.Tracking{}))
		require.NoError(t, o.AssignShipper(shipper, placedAt.Add(2*time.Hour)))
		require.NoError(t, o.TransitionTo(order.InTransit, placedAt.Add(3*time.Hour),
			order.Tracking{Number: "TRK-1", EstimatedDelivery: &eta}))
		require.NoError(t, o.TransitionTo(order.Delivered, placedAt.Add(4*time.Hour), order.Tracking{}))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, "TRK-1", o.Tracking().Number)
		assert.Len(t, o.Timeline(), 4)
		at, ok := o.EnteredAt(order.InTransit)
		assert.True(t, ok)
		assert.Equal(t, placedAt.Add(3*time.Hour), at)
	})

	t.Run("should require a shipper before in_transit", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.TransitionTo(order.Preparing, placedAt, order.Tracking{}))

		err := o.TransitionTo(order.InTransit, placedAt, order.Tracking{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Preparing, o.Status())
	})

	t.Run("should reject long tracking numbers", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.TransitionTo(order.Preparing, placedAt, order.Tracking{}))
		require.NoError(t, o.AssignShipper(kernel.NewUUID(), placedAt))

		err := o.TransitionTo(order.InTransit, placedAt, order.Tracking{Number: strings.Repeat("x", 65)})

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, order.Preparing, o.Status())
	})

	t.Run("should reject edges outside the graph", func(t *testing.T) {
		o := newPlacedOrder(t)

		err := o.TransitionTo(order.Delivered, placedAt, order.Tracking{})

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("should never leave a terminal status", func(t *testing.T) {
		o := newPlacedOrder(t)
		require.NoError(t, o.TransitionTo(order.Cancelled, placedAt, order.Tracking{}))

		for _, to := range []order.Status{order.Placed, order.Preparing, order.InTransit, order.Delivered} {
			require.ErrorIs(t, o.TransitionTo(to, placedAt, order.Tracking{}), errs.ErrInvalidTransition)
		}
	})
}

func TestOrder_HasSeller(t *testing.T) {
	item := newItem(t, 1, "1.00")
	o := newPlacedOrder(t, item)

	assert.True(t, o.HasSeller(item.SellerID()))
	assert.False(t, o.HasSeller(kernel.NewUUID()))
}

func TestRestoreOrder(t *testing.T) {
	item := newItem(t, 3, "2.00")
	shipper := kernel.NewUUID()
	snapshot := order.Snapshot{
		ID:         kernel.NewUUID(),
		CustomerID: kernel.NewUUID(),
		Items:      []order.LineItem{item},
		Status:     order.InTransit,
		ShipperID:  &shipper,
		EnteredAt: map[order.Status]time.Time{
			order.Placed:    placedAt,
			order.Preparing: placedAt.Add(time.Hour),
			order.InTransit: placedAt.Add(2 * time.Hour),
		},
		Version: 7,
	}

	o, err := order.RestoreOrder(snapshot)

	require.NoError(t, err)
	assert.Equal(t, order.InTransit, o.Status())
	assert.True(t, o.IsAssignedTo(shipper))
	assert.Equal(t, int64(7), o.Version())

	snapshot.EnteredAt = map[order.Status]time.Time{order.Placed: placedAt}
	_, err = order.RestoreOrder(snapshot)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewStatusChanged(t *testing.T) {
	o := newPlacedOrder(t)
	require.NoError(t, o.TransitionTo(order.Cancelled, placedAt.Add(time.Minute), order.Tracking{}))

	event := order.NewStatusChanged(o, order.Placed)

	assert.True(t, event.OrderID.IsEqual(o.ID()))
	assert.Equal(t, order.Placed, event.From)
	assert.Equal(t, order.Cancelled, event.To)
	assert.Equal(t, placedAt.Add(time.Minute), event.At)
}

func TestOrder_SnapshotRoundTrip(t *testing.T) {
	o := newPlacedOrder(t, newItem(t, 2, "3.00"), newItem(t, 1, "1.25"))
	require.NoError(t, o.TransitionTo(order.Preparing, placedAt.Add(time.Hour), order.Tracking{}))
	require.NoError(t, o.AssignShipper(kernel.NewUUID(), placedAt.Add(2*time.Hour)))
	o.MarkSaved(3)

	restored, err := order.RestoreOrder(o.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, o.Snapshot(), restored.Snapshot())
	assert.True(t, restored.Total().IsEqual(o.Total()))
}

package services_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newPrincipal(t *testing.T, role identity.Role) *identity.Principal {
	t.Helper()
	p, err := identity.NewPrincipal(kernel.NewUUID(), role, false)
	require.NoError(t, err)
	return p
}

func newLineItem(t *testing.T, productID, sellerID kernel.UUID, quantity int, price string) order.LineItem {
	t.Helper()
	unitPrice, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	item, err := order.NewLineItem(productID, sellerID, quantity, unitPrice)
	require.NoError(t, err)
	return item
}

func newOrder(t *testing.T, customerID kernel.UUID, items ...order.LineItem) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customerID, items, now)
	require.NoError(t, err)
	return o
}

// moveTo walks o along the delivered path (or cancels it) until it reaches status.
func moveTo(t *testing.T, o *order.Order, shipperID kernel.UUID, status order.Status) {
	t.Helper()
	path := map[order.Status][]order.Status{
		order.Placed:    nil,
		order.Preparing: {order.Preparing},
		order.InTransit: {order.Preparing, order.InTransit},
		order.Delivered: {order.Preparing, order.InTransit, order.Delivered},
		order.Returned:  {order.Preparing, order.InTransit, order.Returned},
		order.Cancelled: {order.Cancelled},
	}
	for _, next := range path[status] {
		if next == order.InTransit {
			require.NoError(t, o.AssignShipper(shipperID, now))
		}
		require.NoError(t, o.TransitionTo(next, now, order.Tracking{}))
	}
}

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRequestTransition_DeliveredScenario(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	shipper := s.actor(identity.Shipper)
	admin := s.actor(identity.Admin)
	p := s.product(seller, 5, "12.50")

	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 2})
	assert.Equal(t, 5, s.available(p.ID()))

	// Act
	_, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)
	assert.Equal(t, 3, s.available(p.ID()))

	s.assignShipper(admin, o.ID(), shipper)

	_, err = s.requestWithTracking(shipper, o.ID(), order.InTransit, order.Tracking{Number: "TRK-1"})
	require.NoError(t, err)

	delivered, err := s.request(shipper, o.ID(), order.Delivered)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, order.Delivered, delivered.Status())
	assert.Equal(t, 3, s.available(p.ID()))

	stock, err := s.uows.Create().StockLedger().EntriesForOrder(t.Context(), o.ID())
	require.NoError(t, err)
	require.Len(t, stock, 2)
	assert.Equal(t, ledger.Reserve, stock[0].Kind())
	assert.Equal(t, -2, stock[0].Delta())
	assert.Equal(t, ledger.Commit, stock[1].Kind())
	assert.Equal(t, 0, stock[1].Delta())

	earnings, err := s.uows.Create().EarningsLedger().EntriesForOrder(t.Context(), o.ID())
	require.NoError(t, err)
	require.Len(t, earnings, 1)
	assert.Equal(t, seller.ID(), earnings[0].SellerID())
	assert.Equal(t, "25.00", earnings[0].Amount().String())

	eligible, err := s.uows.Create().ReviewRegistry().IsEligible(t.Context(), customer.ID(), p.ID())
	require.NoError(t, err)
	assert.True(t, eligible)

	events := s.publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, order.Placed, events[0].From)
	assert.Equal(t, order.Delivered, events[2].To)

	stored := s.stored(o.ID())
	_, ok := stored.EnteredAt(order.Delivered)
	assert.True(t, ok)
	assert.Equal(t, "TRK-1", stored.Tracking().Number)
}

func TestRequestTransition_ReturnedScenario(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	shipper := s.actor(identity.Shipper)
	admin := s.actor(identity.Admin)
	p := s.product(seller, 5, "12.50")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 2})

	_, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)
	s.assignShipper(admin, o.ID(), shipper)
	_, err = s.request(shipper, o.ID(), order.InTransit)
	require.NoError(t, err)

	// Act
	returned, err := s.request(shipper, o.ID(), order.Returned)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Returned, returned.Status())
	assert.Equal(t, 5, s.available(p.ID()))

	earnings, err := s.uows.Create().EarningsLedger().EntriesForOrder(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Empty(t, earnings)

	eligible, err := s.uows.Create().ReviewRegistry().IsEligible(t.Context(), customer.ID(), p.ID())
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestRequestTransition_RetryAppliesEffectsOnce(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 2})

	first, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)

	// Act
	second, err := s.request(seller, o.ID(), order.Preparing)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, second.Status())
	assert.Equal(t, first.Version(), second.Version())
	assert.Equal(t, 3, s.available(p.ID()))

	stock, err := s.uows.Create().StockLedger().EntriesForOrder(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Len(t, stock, 1)
	assert.Len(t, s.publisher.Events(), 1)
}

func TestRequestTransition_CustomerCannotShip(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})
	_, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)

	// Act
	result, err := s.request(customer, o.ID(), order.InTransit)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrDenied)
	assert.Nil(t, result)
	assert.Equal(t, order.Preparing, s.stored(o.ID()).Status())
	assert.Equal(t, 4, s.available(p.ID()))
}

func TestRequestTransition_CustomerCancelsPreparingOrder(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 4})
	_, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)
	require.Equal(t, 1, s.available(p.ID()))

	// Act
	cancelled, err := s.request(customer, o.ID(), order.Cancelled)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, cancelled.Status())
	assert.Equal(t, 5, s.available(p.ID()))
}

func TestRequestTransition_CancelPlacedOrderHasNoEffects(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	// Act
	_, err := s.request(customer, o.ID(), order.Cancelled)

	// Assert
	require.NoError(t, err)
	stock, err := s.uows.Create().StockLedger().EntriesForOrder(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Empty(t, stock)
	assert.Equal(t, 5, s.available(p.ID()))
}

func TestRequestTransition_TerminalOrderRejectsTransitions(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	admin := s.actor(identity.Admin)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})
	_, err := s.request(customer, o.ID(), order.Cancelled)
	require.NoError(t, err)

	// Act
	_, err = s.request(admin, o.ID(), order.Preparing)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.Cancelled, s.stored(o.ID()).Status())
}

func TestRequestTransition_InsufficientStockLeavesOrderPlaced(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 1, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 2})

	// Act
	_, err := s.request(seller, o.ID(), order.Preparing)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrAborted)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)

	stored := s.stored(o.ID())
	assert.Equal(t, order.Placed, stored.Status())
	assert.Equal(t, int64(1), stored.Version())
	assert.Equal(t, 1, s.available(p.ID()))
	assert.Empty(t, s.publisher.Events())
}

func TestRequestTransition_ShippingRequiresShipper(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	admin := s.actor(identity.Admin)
	p := s.product(seller, 1, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})
	_, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)

	// Act
	_, err = s.request(admin, o.ID(), order.InTransit)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Equal(t, order.Preparing, s.stored(o.ID()).Status())
}

func TestRequestTransition_LockedAccountIsRejected(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	admin := s.actor(identity.Admin)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	lock, err := commands.NewSetAccountLockCommand(admin.token, seller.ID(), true)
	require.NoError(t, err)
	require.NoError(t, s.setLock.Handle(t.Context(), lock))

	// Act
	_, err = s.request(seller, o.ID(), order.Preparing)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrAccountLocked)
	assert.Equal(t, order.Placed, s.stored(o.ID()).Status())
}

func TestRequestTransition_UnknownTokenIsUnauthenticated(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	// Act
	_, err := s.request(actor{principal: seller.principal, token: "garbage"}, o.ID(), order.Preparing)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestRequestTransition_UnknownOrderIsNotFound(t *testing.T) {
	// Arrange
	s := newScenario(t)
	admin := s.actor(identity.Admin)

	// Act
	_, err := s.request(admin, admin.ID(), order.Preparing)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestRequestTransition_ConcurrentConfirmationsShareLastUnit(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 1, "3.00")
	first := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})
	second := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	// Act
	results := make([]error, 2)
	var g errgroup.Group
	for i, o := range []*order.Order{first, second} {
		g.Go(func() error {
			_, results[i] = s.request(seller, o.ID(), order.Preparing)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Assert
	var succeeded, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errs.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, s.available(p.ID()))
}

func TestRequestTransition_CancelledBeforeAcquisition(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	cmd, err := commands.NewRequestTransitionCommand(seller.token, o.ID(), order.Preparing, order.Tracking{})
	require.NoError(t, err)

	// Act
	_, err = s.transition.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, order.Placed, s.stored(o.ID()).Status())
	assert.Equal(t, 5, s.available(p.ID()))
}

func TestRequestTransition_PublisherFailureDoesNotFailRequest(t *testing.T) {
	// Arrange
	s := newScenario(t)
	s.publisher.err = errors.New("broker down")
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	// Act
	result, err := s.request(seller, o.ID(), order.Preparing)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, result.Status())
	assert.Len(t, s.publisher.Events(), 1)
}

func TestRequestTransition_TimelineIsMonotonic(t *testing.T) {
	// Arrange
	s := newScenario(t)
	seller := s.actor(identity.Seller)
	customer := s.actor(identity.Customer)
	shipper := s.actor(identity.Shipper)
	admin := s.actor(identity.Admin)
	p := s.product(seller, 5, "3.00")
	o := s.placeOrder(customer, commands.PlaceOrderItem{ProductID: p.ID(), Quantity: 1})

	// Act
	_, err := s.request(seller, o.ID(), order.Preparing)
	require.NoError(t, err)
	s.assignShipper(admin, o.ID(), shipper)
	_, err = s.request(shipper, o.ID(), order.InTransit)
	require.NoError(t, err)
	_, err = s.request(shipper, o.ID(), order.Delivered)
	require.NoError(t, err)

	// Assert
	stored := s.stored(o.ID())
	var previous time.Time
	for _, status := range []order.Status{order.Placed, order.Preparing, order.InTransit, order.Delivered} {
		at, ok := stored.EnteredAt(status)
		require.True(t, ok, status.String())
		assert.False(t, at.Before(previous), status.String())
		previous = at
	}
}

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	identityadapter "marketplace/internal/adapters/out/identity"
	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/effects"
	appidentity "marketplace/internal/core/application/identity"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/keylock"

	"github.com/stretchr/testify/require"
)

type transitionUoWFactory func() commands.TransitionUoW

func (f transitionUoWFactory) Create() commands.TransitionUoW { return f() }

type placeOrderUoWFactory func() commands.PlaceOrderUoW

func (f placeOrderUoWFactory) Create() commands.PlaceOrderUoW { return f() }

type shipperUoWFactory func() commands.ShipperUoW

func (f shipperUoWFactory) Create() commands.ShipperUoW { return f() }

type principalUoWFactory func() commands.PrincipalUoW

func (f principalUoWFactory) Create() commands.PrincipalUoW { return f() }

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.StatusChanged
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event order.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []order.StatusChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]order.StatusChanged(nil), p.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scenario wires the command handlers to the in-memory store.
type scenario struct {
	t         *testing.T
	store     *memory.Store
	uows      *memory.UnitOfWorkFactory
	tokens    *identityadapter.JWTStore
	publisher *recordingPublisher

	transition commands.RequestTransitionCommandHandler
	place      commands.PlaceOrderCommandHandler
	assign     commands.AssignShipperCommandHandler
	dispatch   commands.DispatchShipperCommandHandler
	setLock    commands.SetAccountLockCommandHandler
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	store := memory.NewStore()
	uows := memory.NewUnitOfWorkFactory(store)
	tokens, err := identityadapter.NewJWTStore("scenario-secret", uows.Create().PrincipalRepository())
	require.NoError(t, err)

	locks := keylock.New(2 * time.Second)
	resolver := appidentity.NewResolver(tokens)
	publisher := &recordingPublisher{}
	logger := discardLogger()

	return &scenario{
		t:         t,
		store:     store,
		uows:      uows,
		tokens:    tokens,
		publisher: publisher,
		transition: commands.NewRequestTransitionCommandHandler(
			transitionUoWFactory(func() commands.TransitionUoW { return uows.Create() }),
			resolver,
			effects.NewExecutor(locks, logger),
			locks,
			publisher,
			logger,
		),
		place: commands.NewPlaceOrderCommandHandler(
			placeOrderUoWFactory(func() commands.PlaceOrderUoW { return uows.Create() }),
			resolver,
			logger,
		),
		assign: commands.NewAssignShipperCommandHandler(
			shipperUoWFactory(func() commands.ShipperUoW { return uows.Create() }),
			resolver,
			locks,
		),
		dispatch: commands.NewDispatchShipperCommandHandler(
			shipperUoWFactory(func() commands.ShipperUoW { return uows.Create() }),
			locks,
		),
		setLock: commands.NewSetAccountLockCommandHandler(
			principalUoWFactory(func() commands.PrincipalUoW { return uows.Create() }),
			resolver,
			logger,
		),
	}
}

type actor struct {
	principal *identity.Principal
	token     string
}

func (a actor) ID() kernel.UUID {
	return a.principal.ID()
}

func (s *scenario) actor(role identity.Role) actor {
	s.t.Helper()
	p, err := identity.NewPrincipal(kernel.NewUUID(), role, false)
	require.NoError(s.t, err)
	require.NoError(s.t, s.uows.Create().PrincipalRepository().Add(s.t.Context(), p))
	token, err := s.tokens.Issue(p.ID(), time.Hour)
	require.NoError(s.t, err)
	return actor{principal: p, token: token}
}

func (s *scenario) product(seller actor, stock int, price string) *product.Product {
	s.t.Helper()
	unitPrice, err := kernel.MoneyFromString(price)
	require.NoError(s.t, err)
	p, err := product.NewProduct(kernel.NewUUID(), seller.ID(), unitPrice, stock)
	require.NoError(s.t, err)
	require.NoError(s.t, s.uows.Create().ProductRepository().Add(s.t.Context(), p))
	return p
}

func (s *scenario) placeOrder(customer actor, items ...commands.PlaceOrderItem) *order.Order {
	s.t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(customer.token, items)
	require.NoError(s.t, err)
	o, err := s.place.Handle(s.t.Context(), cmd)
	require.NoError(s.t, err)
	return o
}

func (s *scenario) request(who actor, orderID kernel.UUID, target order.Status) (*order.Order, error) {
	s.t.Helper()
	return s.requestWithTracking(who, orderID, target, order.Tracking{})
}

func (s *scenario) requestWithTracking(
	who actor,
	orderID kernel.UUID,
	target order.Status,
	tracking order.Tracking,
) (*order.Order, error) {
	s.t.Helper()
	cmd, err := commands.NewRequestTransitionCommand(who.token, orderID, target, tracking)
	require.NoError(s.t, err)
	return s.transition.Handle(s.t.Context(), cmd)
}

func (s *scenario) assignShipper(admin actor, orderID kernel.UUID, shipper actor) {
	s.t.Helper()
	cmd, err := commands.NewAssignShipperCommand(admin.token, orderID, shipper.ID())
	require.NoError(s.t, err)
	_, err = s.assign.Handle(s.t.Context(), cmd)
	require.NoError(s.t, err)
}

func (s *scenario) available(productID kernel.UUID) int {
	s.t.Helper()
	available, err := s.uows.Create().StockLedger().Available(s.t.Context(), productID)
	require.NoError(s.t, err)
	return available
}

func (s *scenario) stored(orderID kernel.UUID) *order.Order {
	s.t.Helper()
	o, err := s.uows.Create().OrderRepository().Get(s.t.Context(), orderID)
	require.NoError(s.t, err)
	return o
}

package memory_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedProduct(t *testing.T, factory *memory.UnitOfWorkFactory, stock int) *product.Product {
	t.Helper()
	price, err := kernel.MoneyFromString("10.00")
	require.NoError(t, err)
	p, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(), price, stock)
	require.NoError(t, err)
	require.NoError(t, factory.Create().ProductRepository().Add(t.Context(), p))
	return p
}

func newOrder(t *testing.T, p *product.Product, quantity int) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(p.ID(), p.SellerID(), quantity, p.UnitPrice())
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{item}, now)
	require.NoError(t, err)
	return o
}

func TestUnitOfWork_StagesUntilCommit(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	p := seedProduct(t, factory, 5)
	o := newOrder(t, p, 2)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	entry, err := ledger.NewStockEntry(p.ID(), o.ID(), -2, ledger.Reserve, now)
	require.NoError(t, err)
	require.NoError(t, uow.StockLedger().Append(ctx, entry))

	inside, err := uow.StockLedger().Available(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, inside)

	outside := factory.Create()
	_, err = outside.OrderRepository().Get(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	before, err := outside.StockLedger().Available(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 5, before)

	require.NoError(t, uow.Commit(ctx))

	after, err := outside.StockLedger().Available(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, after)
	stored, err := outside.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version())
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	p := seedProduct(t, factory, 1)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	entry, err := ledger.NewStockEntry(p.ID(), kernel.NewUUID(), -1, ledger.Reserve, now)
	require.NoError(t, err)
	require.NoError(t, uow.StockLedger().Append(ctx, entry))
	require.NoError(t, uow.Rollback(ctx))

	available, err := factory.Create().StockLedger().Available(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, available)
	require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoTransaction)
}

func TestOrderRepository_SaveChecksVersion(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	p := seedProduct(t, factory, 5)
	o := newOrder(t, p, 1)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))

	first, second := factory.Create(), factory.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))
	a, err := first.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	b, err := second.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, a.TransitionTo(order.Preparing, now, order.Tracking{}))
	require.NoError(t, first.OrderRepository().Save(ctx, a, 1))
	require.NoError(t, b.TransitionTo(order.Cancelled, now, order.Tracking{}))
	require.NoError(t, second.OrderRepository().Save(ctx, b, 1))

	require.NoError(t, first.Commit(ctx))
	err = second.Commit(ctx)

	require.ErrorIs(t, err, errs.ErrConflict)
	stored, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, stored.Status())
	assert.Equal(t, int64(2), stored.Version())

	err = factory.Create().OrderRepository().Save(ctx, b, 1)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestOrderRepository_DispatchQueries(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	p := seedProduct(t, factory, 5)
	repo := factory.Create().OrderRepository()

	_, err := repo.GetOldestUnassignedPreparing(ctx)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	older, newer := newOrder(t, p, 1), newOrder(t, p, 1)
	require.NoError(t, older.TransitionTo(order.Preparing, now, order.Tracking{}))
	require.NoError(t, newer.TransitionTo(order.Preparing, now.Add(time.Minute), order.Tracking{}))
	require.NoError(t, repo.Add(ctx, newer))
	require.NoError(t, repo.Add(ctx, older))

	oldest, err := repo.GetOldestUnassignedPreparing(ctx)
	require.NoError(t, err)
	assert.True(t, oldest.IsEqual(older))

	shipper := kernel.NewUUID()
	require.NoError(t, oldest.AssignShipper(shipper, now))
	require.NoError(t, oldest.TransitionTo(order.InTransit, now, order.Tracking{}))
	require.NoError(t, repo.Save(ctx, oldest, oldest.Version()))

	counts, err := repo.CountInTransitByShipper(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[kernel.UUID]int{shipper: 1}, counts)
}

func TestPrincipalRepository(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewUnitOfWorkFactory(memory.NewStore()).Create().PrincipalRepository()
	shipper, err := identity.NewPrincipal(kernel.NewUUID(), identity.Shipper, false)
	require.NoError(t, err)
	customer, err := identity.NewPrincipal(kernel.NewUUID(), identity.Customer, false)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, shipper))
	require.NoError(t, repo.Add(ctx, customer))

	shipper.Lock()
	require.NoError(t, repo.Update(ctx, shipper))

	stored, err := repo.Get(ctx, shipper.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsLocked())

	shippers, err := repo.ListByRole(ctx, identity.Shipper)
	require.NoError(t, err)
	require.Len(t, shippers, 1)
	assert.True(t, shippers[0].ID().IsEqual(shipper.ID()))

	unknown, err := identity.NewPrincipal(kernel.NewUUID(), identity.Admin, false)
	require.NoError(t, err)
	require.ErrorIs(t, repo.Update(ctx, unknown), errs.ErrObjectNotFound)
}

func TestLedgerReader(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	p := seedProduct(t, factory, 1)
	uow := factory.Create()

	amount, err := kernel.MoneyFromString("7.25")
	require.NoError(t, err)
	earnings, err := ledger.NewEarningsEntry(p.SellerID(), kernel.NewUUID(), p.ID(), amount, now)
	require.NoError(t, err)
	require.NoError(t, uow.EarningsLedger().Append(ctx, earnings, earnings))
	overdraw, err := ledger.NewStockEntry(p.ID(), kernel.NewUUID(), -2, ledger.Reserve, now)
	require.NoError(t, err)
	require.NoError(t, uow.StockLedger().Append(ctx, overdraw))

	reader := memory.NewLedgerReader(store)

	summary, err := reader.SellerEarnings(ctx, p.SellerID())
	require.NoError(t, err)
	assert.Equal(t, "14.50", summary.Total.String())
	assert.Equal(t, 2, summary.Entries)

	negative, err := reader.NegativeStockBalances(ctx)
	require.NoError(t, err)
	require.Len(t, negative, 1)
	assert.Equal(t, -1, negative[0].Available)

	mismatches, err := reader.OrderTotalMismatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

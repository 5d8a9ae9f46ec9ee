package postgres

import (
	"context"

	"marketplace/internal/adapters/out/postgres/ledgerrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/principalrepo"
	"marketplace/internal/adapters/out/postgres/productrepo"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// trackedAggregate is an order written in the open transaction and the version it will
// have once the transaction commits.
type trackedAggregate struct {
	Aggregate *order.Order
	Version   int64
}

type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. It is detached from ctx cancellation: once side effects are
// being applied the transaction must run to Commit, and Rollback ends it otherwise.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(context.WithoutCancel(ctx)).Begin()
	if err := uow.tx.Error; err != nil {
		uow.tx = nil
		return errs.NewStorageError("begin", err)
	}

	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return errs.NewStorageError("commit", err)
	}

	for _, tracked := range uow.trackedAggregates {
		tracked.Aggregate.MarkSaved(tracked.Version)
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return productrepo.NewGormProductRepository(uow.conn())
}

func (uow *GormUnitOfWork) PrincipalRepository() ports.PrincipalRepository {
	return principalrepo.NewGormPrincipalRepository(uow.conn())
}

func (uow *GormUnitOfWork) StockLedger() ports.StockLedger {
	return ledgerrepo.NewGormStockLedger(uow.conn())
}

func (uow *GormUnitOfWork) EarningsLedger() ports.EarningsLedger {
	return ledgerrepo.NewGormEarningsLedger(uow.conn())
}

func (uow *GormUnitOfWork) ReviewRegistry() ports.ReviewRegistry {
	return ledgerrepo.NewGormReviewRegistry(uow.conn())
}

// TrackAggregate records a saved order. Outside a transaction the write is already durable
// and the order advances immediately.
func (uow *GormUnitOfWork) TrackAggregate(aggregate *order.Order, version int64) {
	if uow.tx == nil {
		aggregate.MarkSaved(version)
		return
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		Aggregate: aggregate,
		Version:   version,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories and ledgers obtained from it
// after Begin take part in the transaction; nothing they write is visible to others before
// Commit, and Rollback discards all of it.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ProductRepository() ProductRepository
	PrincipalRepository() PrincipalRepository
	StockLedger() StockLedger
	EarningsLedger() EarningsLedger
	ReviewRegistry() ReviewRegistry
}

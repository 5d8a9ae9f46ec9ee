package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// SellerEarnings is the realized revenue of a seller.
type SellerEarnings struct {
	SellerID kernel.UUID
	Total    kernel.Money
	Entries  int
}

// StockBalance is the derived stock of a product.
type StockBalance struct {
	ProductID kernel.UUID
	Initial   int
	Available int
}

// TotalMismatch is an order whose stored total differs from the sum of its line items.
type TotalMismatch struct {
	OrderID kernel.UUID
	Stored  kernel.Money
	Derived kernel.Money
}

// LedgerReader answers aggregate questions over the ledgers without loading aggregates.
type LedgerReader interface {
	SellerEarnings(ctx context.Context, sellerID kernel.UUID) (SellerEarnings, error)
	NegativeStockBalances(ctx context.Context) ([]StockBalance, error)
	OrderTotalMismatches(ctx context.Context) ([]TotalMismatch, error)
}

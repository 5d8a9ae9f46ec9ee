package queries

import (
	"errors"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/guard"
)

var ErrGetLedgerDiscrepanciesQueryIsNotConstructed = errors.New(
	"GetLedgerDiscrepanciesQuery must be created via NewGetLedgerDiscrepanciesQuery constructor",
)

// GetLedgerDiscrepanciesQuery checks the ledgers for states the core should never produce.
// It is issued by the reconciliation job, not by a principal.
type GetLedgerDiscrepanciesQuery struct {
	guard guard.ConstructorGuard
}

func NewGetLedgerDiscrepanciesQuery() GetLedgerDiscrepanciesQuery {
	return GetLedgerDiscrepanciesQuery{guard: guard.NewConstructorGuard()}
}

func (q GetLedgerDiscrepanciesQuery) Validate() error {
	return q.guard.Validate(ErrGetLedgerDiscrepanciesQueryIsNotConstructed)
}

// GetLedgerDiscrepanciesQueryResponse lists products whose derived stock is negative and orders
// whose stored total no longer matches their line items.
type GetLedgerDiscrepanciesQueryResponse struct {
	NegativeStock   []ports.StockBalance
	TotalMismatches []ports.TotalMismatch
}

func (r GetLedgerDiscrepanciesQueryResponse) IsEmpty() bool {
	return len(r.NegativeStock) == 0 && len(r.TotalMismatches) == 0
}

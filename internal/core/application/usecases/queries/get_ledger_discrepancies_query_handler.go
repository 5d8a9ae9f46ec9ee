package queries

import (
	"context"
	"fmt"

	"marketplace/internal/core/ports"
)

type GetLedgerDiscrepanciesQueryHandler struct {
	ledgers ports.LedgerReader
}

func NewGetLedgerDiscrepanciesQueryHandler(ledgers ports.LedgerReader) GetLedgerDiscrepanciesQueryHandler {
	return GetLedgerDiscrepanciesQueryHandler{ledgers: ledgers}
}

func (h GetLedgerDiscrepanciesQueryHandler) Handle(
	ctx context.Context,
	query GetLedgerDiscrepanciesQuery,
) (GetLedgerDiscrepanciesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLedgerDiscrepanciesQueryResponse{}, err
	}

	negative, err := h.ledgers.NegativeStockBalances(ctx)
	if err != nil {
		return GetLedgerDiscrepanciesQueryResponse{}, fmt.Errorf("negative stock balances: %w", err)
	}

	mismatches, err := h.ledgers.OrderTotalMismatches(ctx)
	if err != nil {
		return GetLedgerDiscrepanciesQueryResponse{}, fmt.Errorf("order total mismatches: %w", err)
	}

	return GetLedgerDiscrepanciesQueryResponse{
		NegativeStock:   negative,
		TotalMismatches: mismatches,
	}, nil
}

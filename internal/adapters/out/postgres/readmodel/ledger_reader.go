// Package readmodel answers aggregate questions over the ledgers with plain SQL, without
// loading aggregates.
package readmodel

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GormLedgerReader struct {
	db *gorm.DB
}

func NewGormLedgerReader(db *gorm.DB) *GormLedgerReader {
	return &GormLedgerReader{db: db}
}

func (r *GormLedgerReader) SellerEarnings(ctx context.Context, sellerID kernel.UUID) (ports.SellerEarnings, error) {
	var (
		total   decimal.Decimal
		entries int
	)

	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount), 0),
			COUNT(*)
		FROM earnings_entries
		WHERE seller_id = ?
	`, sellerID.Bytes()).Row()
	if err := row.Scan(&total, &entries); err != nil {
		return ports.SellerEarnings{}, errs.NewStorageError("seller earnings", err)
	}

	money, err := kernel.NewMoney(total)
	if err != nil {
		return ports.SellerEarnings{}, errs.NewStorageError("seller earnings", err)
	}

	return ports.SellerEarnings{SellerID: sellerID, Total: money, Entries: entries}, nil
}

func (r *GormLedgerReader) NegativeStockBalances(ctx context.Context) ([]ports.StockBalance, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.initial_stock,
			p.initial_stock + COALESCE(SUM(s.delta), 0) AS available
		FROM products p
		LEFT JOIN stock_entries s ON s.product_id = p.id
		GROUP BY p.id, p.initial_stock
		HAVING p.initial_stock + COALESCE(SUM(s.delta), 0) < 0
		ORDER BY p.id
	`).Rows()
	if err != nil {
		return nil, errs.NewStorageError("negative stock balances", err)
	}
	defer rows.Close()

	balances := make([]ports.StockBalance, 0)
	for rows.Next() {
		var (
			balance ports.StockBalance
			id      uuid.UUID
		)
		if err = rows.Scan(&id, &balance.Initial, &balance.Available); err != nil {
			return nil, errs.NewStorageError("negative stock balances", err)
		}

		productID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		balance.ProductID = productID
		balances = append(balances, balance)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewStorageError("negative stock balances", err)
	}
	return balances, nil
}

func (r *GormLedgerReader) OrderTotalMismatches(ctx context.Context) ([]ports.TotalMismatch, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.total,
			COALESCE(SUM(i.quantity * i.unit_price), 0) AS derived
		FROM orders o
		LEFT JOIN order_line_items i ON i.order_id = o.id
		GROUP BY o.id, o.total
		HAVING o.total <> COALESCE(SUM(i.quantity * i.unit_price), 0)
		ORDER BY o.id
	`).Rows()
	if err != nil {
		return nil, errs.NewStorageError("order total mismatches", err)
	}
	defer rows.Close()

	mismatches := make([]ports.TotalMismatch, 0)
	for rows.Next() {
		var (
			id              uuid.UUID
			stored, derived decimal.Decimal
		)
		if err = rows.Scan(&id, &stored, &derived); err != nil {
			return nil, errs.NewStorageError("order total mismatches", err)
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		storedMoney, moneyErr := kernel.NewMoney(stored)
		if moneyErr != nil {
			return nil, errs.NewStorageError("order total mismatches", moneyErr)
		}
		derivedMoney, moneyErr := kernel.NewMoney(derived)
		if moneyErr != nil {
			return nil, errs.NewStorageError("order total mismatches", moneyErr)
		}

		mismatches = append(mismatches, ports.TotalMismatch{OrderID: orderID, Stored: storedMoney, Derived: derivedMoney})
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewStorageError("order total mismatches", err)
	}
	return mismatches, nil
}

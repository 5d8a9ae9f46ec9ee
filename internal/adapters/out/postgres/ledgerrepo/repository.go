// Package ledgerrepo stores the append-only stock and earnings ledgers and the review grants.
// Entries are only ever inserted.
package ledgerrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/productrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStockLedger struct {
	db *gorm.DB
}

func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Available locks the product row for the rest of the transaction, then derives the stock
// from the initial count and every entry of the product.
func (l *GormStockLedger) Available(ctx context.Context, productID kernel.UUID) (int, error) {
	if err := productID.Validate(); err != nil {
		return 0, err
	}

	var p productrepo.ProductDTO
	err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", productID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errs.NewObjectNotFoundError("product", productID.String())
	}
	if err != nil {
		return 0, errs.NewStorageError("lock product", err)
	}

	var delta int
	err = l.db.WithContext(ctx).
		Model(&StockEntryDTO{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("product_id = ?", productID.Bytes()).
		Scan(&delta).Error
	if err != nil {
		return 0, errs.NewStorageError("sum stock entries", err)
	}

	return p.InitialStock + delta, nil
}

func (l *GormStockLedger) Append(ctx context.Context, entries ...ledger.StockEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]StockEntryDTO, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, stockFromDomain(entry))
	}

	if err := l.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return errs.NewStorageError("append stock entries", err)
	}
	return nil
}

func (l *GormStockLedger) EntriesForOrder(ctx context.Context, orderID kernel.UUID) ([]ledger.StockEntry, error) {
	var dtos []StockEntryDTO
	err := l.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, errs.NewStorageError("list stock entries", err)
	}

	entries := make([]ledger.StockEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := stockToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type GormEarningsLedger struct {
	db *gorm.DB
}

func NewGormEarningsLedger(db *gorm.DB) *GormEarningsLedger {
	return &GormEarningsLedger{db: db}
}

func (l *GormEarningsLedger) Append(ctx context.Context, entries ...ledger.EarningsEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]EarningsEntryDTO, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, earningsFromDomain(entry))
	}

	if err := l.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return errs.NewStorageError("append earnings entries", err)
	}
	return nil
}

func (l *GormEarningsLedger) EntriesForOrder(ctx context.Context, orderID kernel.UUID) ([]ledger.EarningsEntry, error) {
	var dtos []EarningsEntryDTO
	err := l.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, errs.NewStorageError("list earnings entries", err)
	}

	entries := make([]ledger.EarningsEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := earningsToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type GormReviewRegistry struct {
	db *gorm.DB
}

func NewGormReviewRegistry(db *gorm.DB) *GormReviewRegistry {
	return &GormReviewRegistry{db: db}
}

func (r *GormReviewRegistry) Grant(ctx context.Context, grants ...ledger.ReviewGrant) error {
	if len(grants) == 0 {
		return nil
	}

	dtos := make([]ReviewGrantDTO, 0, len(grants))
	for _, grant := range grants {
		dtos = append(dtos, ReviewGrantDTO{
			CustomerID: grant.CustomerID.Bytes(),
			ProductID:  grant.ProductID.Bytes(),
			OrderID:    grant.OrderID.Bytes(),
			GrantedAt:  grant.GrantedAt,
		})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dtos).Error
	if err != nil {
		return errs.NewStorageError("grant reviews", err)
	}
	return nil
}

func (r *GormReviewRegistry) IsEligible(ctx context.Context, customerID, productID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ReviewGrantDTO{}).
		Where("customer_id = ? AND product_id = ?", customerID.Bytes(), productID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, errs.NewStorageError("check review eligibility", err)
	}
	return count > 0, nil
}

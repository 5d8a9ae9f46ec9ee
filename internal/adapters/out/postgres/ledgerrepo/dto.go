package ledgerrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Delta     int
	Kind      string `gorm:"type:varchar(16)"`
	CreatedAt time.Time
}

func (StockEntryDTO) TableName() string {
	return "stock_entries"
}

type EarningsEntryDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SellerID  uuid.UUID       `gorm:"type:uuid;index"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index"`
	ProductID uuid.UUID       `gorm:"type:uuid"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt time.Time
}

func (EarningsEntryDTO) TableName() string {
	return "earnings_entries"
}

type ReviewGrantDTO struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid"`
	GrantedAt  time.Time
}

func (ReviewGrantDTO) TableName() string {
	return "review_grants"
}

func stockFromDomain(e ledger.StockEntry) StockEntryDTO {
	return StockEntryDTO{
		ID:        e.ID().Bytes(),
		ProductID: e.ProductID().Bytes(),
		OrderID:   e.OrderID().Bytes(),
		Delta:     e.Delta(),
		Kind:      e.Kind().String(),
		CreatedAt: e.CreatedAt(),
	}
}

func stockToDomain(dto StockEntryDTO) (ledger.StockEntry, error) {
	ids, err := uuidsFromBytes(dto.ID, dto.ProductID, dto.OrderID)
	if err != nil {
		return ledger.StockEntry{}, err
	}

	kind, err := ledger.StockKindFromString(dto.Kind)
	if err != nil {
		return ledger.StockEntry{}, err
	}

	return ledger.RestoreStockEntry(ids[0], ids[1], ids[2], dto.Delta, kind, dto.CreatedAt)
}

func earningsFromDomain(e ledger.EarningsEntry) EarningsEntryDTO {
	return EarningsEntryDTO{
		ID:        e.ID().Bytes(),
		SellerID:  e.SellerID().Bytes(),
		OrderID:   e.OrderID().Bytes(),
		ProductID: e.ProductID().Bytes(),
		Amount:    e.Amount().Decimal(),
		CreatedAt: e.CreatedAt(),
	}
}

func earningsToDomain(dto EarningsEntryDTO) (ledger.EarningsEntry, error) {
	ids, err := uuidsFromBytes(dto.ID, dto.SellerID, dto.OrderID, dto.ProductID)
	if err != nil {
		return ledger.EarningsEntry{}, err
	}

	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return ledger.EarningsEntry{}, err
	}

	return ledger.RestoreEarningsEntry(ids[0], ids[1], ids[2], ids[3], amount, dto.CreatedAt)
}

func uuidsFromBytes(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

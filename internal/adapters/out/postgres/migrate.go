// Package postgres persists the marketplace with gorm on PostgreSQL. Each aggregate has its
// own repository package; GormUnitOfWork binds them to one transaction.
package postgres

import (
	"marketplace/internal/adapters/out/postgres/ledgerrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/principalrepo"
	"marketplace/internal/adapters/out/postgres/productrepo"

	"gorm.io/gorm"
)

// Tables lists every table in truncation-safe order.
var Tables = []string{
	"order_line_items",
	"orders",
	"stock_entries",
	"earnings_entries",
	"review_grants",
	"products",
	"principals",
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&principalrepo.PrincipalDTO{},
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&ledgerrepo.StockEntryDTO{},
		&ledgerrepo.EarningsEntryDTO{},
		&ledgerrepo.ReviewGrantDTO{},
	)
}

// Package ledger holds the append-only records that shared counters are derived from:
// stock movements per product, realized earnings per seller and review eligibility per
// customer and product.
//
// Nothing in this package is ever updated or deleted. The available stock of a product is
// its initial stock plus the sum of its StockEntry deltas; a seller's earnings are the sum of
// its EarningsEntry amounts.
//
// Effects groups the records one order transition produces, so they can be applied as a unit.
package ledger

// Package kernel holds the value objects shared by every aggregate of the marketplace core:
// UUID identifiers for principals, orders, products and ledger rows, and Money for price
// snapshots and earnings.
//
// Both are immutable and safe for concurrent use. Their zero values are invalid and are
// rejected by Validate.
package kernel

// Package order provides the Order aggregate of the marketplace and the status graph it
// moves along.
//
// The package includes:
//   - Order: header, line items with price snapshots, status, assigned shipper, per-status
//     timestamps and an optimistic version
//   - LineItem: product, seller, quantity and unit price copied at purchase time
//   - Status: the lifecycle state machine
//
// Status graph:
//
//	placed ──> preparing ──> in_transit ──> delivered
//	   │           │              │
//	   └─> cancelled <─┘           └──> returned
//
// delivered, returned and cancelled are terminal. The aggregate enforces the graph and
// the local preconditions (a shipper must be assigned before in_transit); authorization and
// side effects live in the domain services.
package order

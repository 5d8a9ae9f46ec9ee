// Package services provides the domain services of the order lifecycle: logic that spans the
// order aggregate, principals and the ledgers without belonging to any single one of them.
//
// The package includes:
//   - Authorizer: the single declarative rule table deciding who may do what to an order
//   - TransitionEngine: validates a requested status change and derives its ledger effects
//   - ShipperDispatcher: picks a shipper for an order waiting in preparing
//
// All services are pure: they never touch storage and never block.
package services

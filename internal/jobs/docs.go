// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules:
//
//  1. ShipperAssignmentJob - assigns the oldest unassigned preparing order to the active
//     shipper with the fewest orders in transit
//  2. LedgerReconciliationJob - reports negative stock balances and order totals that no
//     longer match their line items
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewShipperAssignmentJob(dispatchHandler, "*/5 * * * * *", logger),
//		jobs.NewLedgerReconciliationJob(discrepanciesHandler, "0 */10 * * * *", logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The assignment job logs "nothing waits" and "nobody free" at debug level since both are
// normal outcomes. Every other failure is logged as an error and retried on the next tick.
package jobs

package jobs

import (
	"fmt"
)

// JobManager starts and stops every scheduled job together.
type JobManager struct {
	shipperAssignmentJob    *ShipperAssignmentJob
	ledgerReconciliationJob *LedgerReconciliationJob
}

func NewJobManager(shipperAssignmentJob *ShipperAssignmentJob, ledgerReconciliationJob *LedgerReconciliationJob) *JobManager {
	return &JobManager{
		shipperAssignmentJob:    shipperAssignmentJob,
		ledgerReconciliationJob: ledgerReconciliationJob,
	}
}

// StartAll starts all scheduled jobs. If one fails to start, the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.shipperAssignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start shipper assignment job: %w", err)
	}

	if err := jm.ledgerReconciliationJob.Start(); err != nil {
		jm.shipperAssignmentJob.Stop()
		return fmt.Errorf("failed to start ledger reconciliation job: %w", err)
	}

	return nil
}

// StopAll waits for running invocations to finish.
func (jm *JobManager) StopAll() {
	jm.ledgerReconciliationJob.Stop()
	jm.shipperAssignmentJob.Stop()
}

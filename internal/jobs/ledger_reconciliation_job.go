package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

type discrepancyFinder interface {
	Handle(ctx context.Context, query queries.GetLedgerDiscrepanciesQuery) (queries.GetLedgerDiscrepanciesQueryResponse, error)
}

// LedgerReconciliationJob reports negative stock and orders whose stored total drifted from
// their line items. It only logs; nothing is repaired automatically.
type LedgerReconciliationJob struct {
	handler  discrepancyFinder
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewLedgerReconciliationJob(handler discrepancyFinder, schedule string, logger *slog.Logger) *LedgerReconciliationJob {
	return &LedgerReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "ledger_reconciliation_job"),
	}
}

// Run performs one reconciliation pass and returns the discrepancies it found.
func (j *LedgerReconciliationJob) Run(ctx context.Context) queries.GetLedgerDiscrepanciesQueryResponse {
	result, err := j.handler.Handle(ctx, queries.NewGetLedgerDiscrepanciesQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Ledger reconciliation failed", "error", err)
		return queries.GetLedgerDiscrepanciesQueryResponse{}
	}
	if result.IsEmpty() {
		return result
	}

	for _, balance := range result.NegativeStock {
		j.logger.WarnContext(ctx, "Negative stock balance",
			"productId", balance.ProductID.String(),
			"initial", balance.Initial,
			"available", balance.Available,
		)
	}
	for _, mismatch := range result.TotalMismatches {
		j.logger.WarnContext(ctx, "Order total mismatch",
			"orderId", mismatch.OrderID.String(),
			"stored", mismatch.Stored.String(),
			"derived", mismatch.Derived.String(),
		)
	}
	return result
}

func (j *LedgerReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Ledger reconciliation job started", "schedule", j.schedule)
	return nil
}

func (j *LedgerReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Ledger reconciliation job stopped")
}

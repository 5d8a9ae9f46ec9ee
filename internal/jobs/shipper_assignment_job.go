package jobs

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type shipperDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchShipperCommand) error
}

// ShipperAssignmentJob hands the oldest unassigned preparing order to the least busy shipper.
type ShipperAssignmentJob struct {
	handler  shipperDispatcher
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewShipperAssignmentJob(handler shipperDispatcher, schedule string, logger *slog.Logger) *ShipperAssignmentJob {
	return &ShipperAssignmentJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "shipper_assignment_job"),
	}
}

// Run performs a single dispatch attempt.
func (j *ShipperAssignmentJob) Run(ctx context.Context) {
	err := j.handler.Handle(ctx, commands.NewDispatchShipperCommand())
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrNoOrderFound), errors.Is(err, commands.ErrNoFreeShippersFound):
		j.logger.DebugContext(ctx, "Nothing to dispatch", "reason", err.Error())
	default:
		j.logger.ErrorContext(ctx, "Shipper assignment job failed", "error", err)
	}
}

func (j *ShipperAssignmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Shipper assignment job started", "schedule", j.schedule)
	return nil
}

func (j *ShipperAssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Shipper assignment job stopped")
}

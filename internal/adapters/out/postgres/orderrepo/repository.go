package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker advances the version of saved orders once their transaction commits.
type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order, version int64)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewStorageError("add order", err)
	}

	r.tracker.TrackAggregate(aggregate, dto.Version)
	return nil
}

func (r *GormOrderRepository) Save(ctx context.Context, aggregate *order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	changes := dto.changes()
	changes["version"] = expectedVersion + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Updates(changes)
	if result.Error != nil {
		return errs.NewStorageError("save order", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return errs.NewStorageError("save order", err)
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConflictError("order", aggregate.ID().String(), expectedVersion)
	}

	r.tracker.TrackAggregate(aggregate, expectedVersion+1)
	return nil
}

// Get loads the order with its line items. A stored total that differs from the line items
// means the row was changed outside the core and is reported as a storage error.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, errs.NewStorageError("get order", err)
	}

	return restore(dto)
}

func (r *GormOrderRepository) GetOldestUnassignedPreparing(ctx context.Context) (*order.Order, error) {
	var dto OrderDTO
	err := r.withItems(ctx).
		Where("status = ? AND shipper_id IS NULL", order.Preparing.String()).
		Order("preparing_at").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", "oldest unassigned preparing")
	}
	if err != nil {
		return nil, errs.NewStorageError("get oldest unassigned preparing order", err)
	}

	return restore(dto)
}

func (r *GormOrderRepository) CountInTransitByShipper(ctx context.Context) (map[kernel.UUID]int, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT shipper_id, COUNT(*)
		FROM orders
		WHERE status = ? AND shipper_id IS NOT NULL
		GROUP BY shipper_id
	`, order.InTransit.String()).Rows()
	if err != nil {
		return nil, errs.NewStorageError("count in transit orders", err)
	}
	defer rows.Close()

	counts := make(map[kernel.UUID]int)
	for rows.Next() {
		var (
			raw   uuid.UUID
			count int
		)
		if err = rows.Scan(&raw, &count); err != nil {
			return nil, errs.NewStorageError("count in transit orders", err)
		}

		shipperID, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		counts[shipperID] = count
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewStorageError("count in transit orders", err)
	}
	return counts, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func restore(dto OrderDTO) (*order.Order, error) {
	o, err := toDomain(dto)
	if err != nil {
		return nil, errs.NewStorageError("restore order", err)
	}

	if derived := o.Total().Decimal(); !derived.Equal(dto.Total) {
		return nil, errs.NewStorageError(
			"restore order",
			fmt.Errorf("order %s stores total %s but its items sum to %s", o.ID(), dto.Total.StringFixed(2), derived.StringFixed(2)),
		)
	}
	return o, nil
}

package memory

import (
	"context"
	"sort"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

type OrderRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	err := r.uow.write(func(tx *txn) error {
		id := aggregate.ID()
		if _, ok := r.lookup(id); ok {
			return errs.NewConflictError("order", id.String(), 0)
		}
		snapshot := aggregate.Snapshot()
		snapshot.Version = 1
		stageOrder(tx, stagedOrder{
			record: orderRecord{snapshot: snapshot, total: aggregate.Total()},
			isNew:  true,
		})
		return nil
	})
	if err != nil {
		return err
	}

	aggregate.MarkSaved(1)
	return nil
}

func (r *OrderRepository) Save(_ context.Context, aggregate *order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID()
	err := r.uow.write(func(tx *txn) error {
		current, ok := r.lookup(id)
		if !ok {
			return errs.NewObjectNotFoundError("order", id.String())
		}
		if current.snapshot.Version != expectedVersion {
			return errs.NewConflictError("order", id.String(), expectedVersion)
		}

		snapshot := aggregate.Snapshot()
		snapshot.Version = expectedVersion + 1
		staged := stagedOrder{
			record:          orderRecord{snapshot: snapshot, total: aggregate.Total()},
			expectedVersion: expectedVersion,
		}
		if previous, ok := tx.orders[id]; ok {
			staged.isNew = previous.isNew
			staged.expectedVersion = previous.expectedVersion
		}
		stageOrder(tx, staged)
		return nil
	})
	if err != nil {
		return err
	}

	aggregate.MarkSaved(expectedVersion + 1)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	record, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(record.snapshot)
}

func (r *OrderRepository) GetOldestUnassignedPreparing(_ context.Context) (*order.Order, error) {
	var (
		oldest  *order.Snapshot
		oldestT int64
	)
	for _, record := range r.view() {
		s := record.snapshot
		if s.Status != order.Preparing || s.ShipperID != nil {
			continue
		}
		entered := s.EnteredAt[order.Preparing].UnixNano()
		if oldest == nil || entered < oldestT {
			snapshot := s
			oldest = &snapshot
			oldestT = entered
		}
	}
	if oldest == nil {
		return nil, errs.NewObjectNotFoundError("order", "preparing without shipper")
	}
	return order.RestoreOrder(*oldest)
}

func (r *OrderRepository) CountInTransitByShipper(_ context.Context) (map[kernel.UUID]int, error) {
	counts := make(map[kernel.UUID]int)
	for _, record := range r.view() {
		if record.snapshot.Status == order.InTransit && record.snapshot.ShipperID != nil {
			counts[*record.snapshot.ShipperID]++
		}
	}
	return counts, nil
}

// lookup returns the order as this unit of work sees it.
func (r *OrderRepository) lookup(id kernel.UUID) (orderRecord, bool) {
	if tx := r.uow.staged(); tx != nil {
		if staged, ok := tx.orders[id]; ok {
			return staged.record, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.orders[id]
	return record, ok
}

// view returns every order as this unit of work sees it, ordered by id.
func (r *OrderRepository) view() []orderRecord {
	r.store.mu.RLock()
	merged := make(map[kernel.UUID]orderRecord, len(r.store.orders))
	for id, record := range r.store.orders {
		merged[id] = record
	}
	r.store.mu.RUnlock()

	if tx := r.uow.staged(); tx != nil {
		for id, staged := range tx.orders {
			merged[id] = staged.record
		}
	}

	records := make([]orderRecord, 0, len(merged))
	for _, record := range merged {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].snapshot.ID.String() < records[j].snapshot.ID.String()
	})
	return records
}

func stageOrder(tx *txn, staged stagedOrder) {
	id := staged.record.snapshot.ID
	if _, ok := tx.orders[id]; !ok {
		tx.orderSeq = append(tx.orderSeq, id)
	}
	tx.orders[id] = staged
}

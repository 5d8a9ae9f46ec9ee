package memory

import (
	"context"
	"sort"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

type PrincipalRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *PrincipalRepository) Add(_ context.Context, p *identity.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(tx *txn) error {
		tx.principals[p.ID()] = principalRecord{role: p.Role(), locked: p.IsLocked()}
		return nil
	})
}

func (r *PrincipalRepository) Update(ctx context.Context, p *identity.Principal) error {
	if _, err := r.Get(ctx, p.ID()); err != nil {
		return err
	}
	return r.Add(ctx, p)
}

func (r *PrincipalRepository) Get(_ context.Context, id kernel.UUID) (*identity.Principal, error) {
	record, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("principal", id.String())
	}
	return identity.NewPrincipal(id, record.role, record.locked)
}

func (r *PrincipalRepository) ListByRole(_ context.Context, role identity.Role) ([]*identity.Principal, error) {
	r.store.mu.RLock()
	merged := make(map[kernel.UUID]principalRecord, len(r.store.principals))
	for id, record := range r.store.principals {
		merged[id] = record
	}
	r.store.mu.RUnlock()
	if tx := r.uow.staged(); tx != nil {
		for id, record := range tx.principals {
			merged[id] = record
		}
	}

	principals := make([]*identity.Principal, 0)
	for id, record := range merged {
		if record.role != role {
			continue
		}
		p, err := identity.NewPrincipal(id, record.role, record.locked)
		if err != nil {
			return nil, err
		}
		principals = append(principals, p)
	}
	sort.Slice(principals, func(i, j int) bool {
		return principals[i].ID().String() < principals[j].ID().String()
	})
	return principals, nil
}

func (r *PrincipalRepository) lookup(id kernel.UUID) (principalRecord, bool) {
	if tx := r.uow.staged(); tx != nil {
		if record, ok := tx.principals[id]; ok {
			return record, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.principals[id]
	return record, ok
}

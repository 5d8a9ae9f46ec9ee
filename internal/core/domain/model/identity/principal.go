package identity

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// ErrPrincipalIsNotConstructed is returned when a Principal bypassed NewPrincipal.
var ErrPrincipalIsNotConstructed = errors.New("Principal must be created via NewPrincipal constructor")

// Principal is an authenticated actor with a role.
//
// Invariants:
//   - id is a valid UUID
//   - role is one of customer, seller, shipper, admin and never changes
type Principal struct {
	id     kernel.UUID
	role   Role
	locked bool
	guard  guard.ConstructorGuard
}

// NewPrincipal builds a principal as registered or as loaded from the identity store.
func NewPrincipal(id kernel.UUID, role Role, locked bool) (*Principal, error) {
	p := &Principal{
		locked: locked,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setRole(role),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Principal) Validate() error {
	if p == nil {
		return ErrPrincipalIsNotConstructed
	}
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}

func (p *Principal) ID() kernel.UUID {
	return p.id
}

func (p *Principal) Role() Role {
	return p.role
}

func (p *Principal) IsLocked() bool {
	return p.locked
}

func (p *Principal) Is(role Role) bool {
	return p.role == role
}

// Lock marks the account as locked. Only the admin lock command calls it.
func (p *Principal) Lock() {
	p.locked = true
}

// Unlock clears the lock flag.
func (p *Principal) Unlock() {
	p.locked = false
}

func (p *Principal) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Principal) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	p.role = role
	return nil
}

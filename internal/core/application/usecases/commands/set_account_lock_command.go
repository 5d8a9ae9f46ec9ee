package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrSetAccountLockCommandIsNotConstructed = errors.New(
	"SetAccountLockCommand must be created via NewSetAccountLockCommand constructor",
)

// SetAccountLockCommand locks or unlocks a principal. Admin only.
type SetAccountLockCommand struct {
	token       string
	principalID kernel.UUID
	locked      bool

	guard guard.ConstructorGuard
}

func NewSetAccountLockCommand(token string, principalID kernel.UUID, locked bool) (SetAccountLockCommand, error) {
	if err := principalID.Validate(); err != nil {
		return SetAccountLockCommand{}, errs.NewValueIsRequiredErrorWithCause("principalId", err)
	}

	return SetAccountLockCommand{
		token:       token,
		principalID: principalID,
		locked:      locked,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c SetAccountLockCommand) Validate() error {
	return c.guard.Validate(ErrSetAccountLockCommandIsNotConstructed)
}

func (c SetAccountLockCommand) Token() string {
	return c.token
}

func (c SetAccountLockCommand) PrincipalID() kernel.UUID {
	return c.principalID
}

func (c SetAccountLockCommand) Locked() bool {
	return c.locked
}

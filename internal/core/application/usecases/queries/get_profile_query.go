package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetProfileQueryIsNotConstructed = errors.New(
	"GetProfileQuery must be created via NewGetProfileQuery constructor",
)

// GetProfileQuery returns the token holder's own account. It is the one read a locked
// principal may still perform, so a locked user can see why requests fail.
type GetProfileQuery struct {
	token string

	guard guard.ConstructorGuard
}

func NewGetProfileQuery(token string) GetProfileQuery {
	return GetProfileQuery{token: token, guard: guard.NewConstructorGuard()}
}

func (q GetProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetProfileQueryIsNotConstructed)
}

func (q GetProfileQuery) Token() string {
	return q.token
}

type GetProfileQueryResponse struct {
	ID     kernel.UUID
	Role   identity.Role
	Locked bool
}

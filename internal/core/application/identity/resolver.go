// Package identity resolves the principal behind a request before any order is touched.
package identity

import (
	"context"
	"strings"

	domain "marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// Resolver turns a bearer token into an active principal.
type Resolver struct {
	store ports.IdentityStore
}

func NewResolver(store ports.IdentityStore) Resolver {
	return Resolver{store: store}
}

// Resolve returns the principal for token. An empty or unknown token fails with
// errs.UnauthenticatedError; a locked principal fails with errs.AccountLockedError for every
// action except services.ActionViewProfile.
func (r Resolver) Resolve(ctx context.Context, token string, action services.ActionName) (*domain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.NewUnauthenticatedError()
	}

	principal, err := r.store.LookupPrincipal(ctx, token)
	if err != nil {
		return nil, err
	}
	if err = principal.Validate(); err != nil {
		return nil, errs.NewUnauthenticatedErrorWithCause(err)
	}

	if principal.IsLocked() && action != services.ActionViewProfile {
		return nil, errs.NewAccountLockedError(principal.ID().String())
	}

	return principal, nil
}

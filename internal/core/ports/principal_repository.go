package ports

import (
	"context"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
)

// PrincipalRepository stores marketplace accounts. Credentials live with the identity provider.
type PrincipalRepository interface {
	Add(ctx context.Context, p *identity.Principal) error

	// Update persists the lock flag; the role of a principal never changes.
	Update(ctx context.Context, p *identity.Principal) error

	// Get fails with errs.ObjectNotFoundError for unknown principals.
	Get(ctx context.Context, id kernel.UUID) (*identity.Principal, error)

	ListByRole(ctx context.Context, role identity.Role) ([]*identity.Principal, error)
}

// IdentityStore turns a bearer token into the principal it was issued to. Unknown, expired
// or forged tokens fail with errs.UnauthenticatedError.
type IdentityStore interface {
	LookupPrincipal(ctx context.Context, token string) (*identity.Principal, error)
}

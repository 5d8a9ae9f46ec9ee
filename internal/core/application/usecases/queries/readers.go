// Package queries contains read operations. Queries never write and never enter keyed sections;
// they read committed state through the narrow reader interfaces below.
package queries

import (
	"context"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

type (
	// OrderReader loads a committed order. Get fails with errs.ObjectNotFoundError for unknown ids.
	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	}

	// PrincipalReader loads a principal. Get fails with errs.ObjectNotFoundError for unknown ids.
	PrincipalReader interface {
		Get(ctx context.Context, id kernel.UUID) (*identity.Principal, error)
	}

	// PrincipalResolver resolves the bearer token of a request.
	PrincipalResolver interface {
		Resolve(ctx context.Context, token string, action services.ActionName) (*identity.Principal, error)
	}
)

package queries

import (
	"context"

	"marketplace/internal/core/domain/services"
)

type GetProfileQueryHandler struct {
	principals PrincipalReader
	resolver   PrincipalResolver
	authorizer services.Authorizer
}

func NewGetProfileQueryHandler(principals PrincipalReader, resolver PrincipalResolver) GetProfileQueryHandler {
	return GetProfileQueryHandler{
		principals: principals,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
	}
}

func (h GetProfileQueryHandler) Handle(ctx context.Context, query GetProfileQuery) (GetProfileQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetProfileQueryResponse{}, err
	}

	principal, err := h.resolver.Resolve(ctx, query.Token(), services.ActionViewProfile)
	if err != nil {
		return GetProfileQueryResponse{}, err
	}

	subject := principal.ID()
	action := services.NewAction(services.ActionViewProfile)
	if err = h.authorizer.Authorize(principal, services.Request{Action: action, Subject: &subject}).Err(principal, action); err != nil {
		return GetProfileQueryResponse{}, err
	}

	account, err := h.principals.Get(ctx, subject)
	if err != nil {
		return GetProfileQueryResponse{}, err
	}

	return GetProfileQueryResponse{
		ID:     account.ID(),
		Role:   account.Role(),
		Locked: account.IsLocked(),
	}, nil
}

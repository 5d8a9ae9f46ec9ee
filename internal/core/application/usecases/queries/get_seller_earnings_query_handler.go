package queries

import (
	"context"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

type GetSellerEarningsQueryHandler struct {
	ledgers    ports.LedgerReader
	resolver   PrincipalResolver
	authorizer services.Authorizer
}

func NewGetSellerEarningsQueryHandler(ledgers ports.LedgerReader, resolver PrincipalResolver) GetSellerEarningsQueryHandler {
	return GetSellerEarningsQueryHandler{
		ledgers:    ledgers,
		resolver:   resolver,
		authorizer: services.NewAuthorizer(),
	}
}

func (h GetSellerEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetSellerEarningsQuery,
) (GetSellerEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSellerEarningsQueryResponse{}, err
	}

	principal, err := h.resolver.Resolve(ctx, query.Token(), services.ActionViewEarnings)
	if err != nil {
		return GetSellerEarningsQueryResponse{}, err
	}

	sellerID := query.SellerID()
	action := services.NewAction(services.ActionViewEarnings)
	decision := h.authorizer.Authorize(principal, services.Request{Action: action, Subject: &sellerID})
	if err = decision.Err(principal, action); err != nil {
		return GetSellerEarningsQueryResponse{}, err
	}

	earnings, err := h.ledgers.SellerEarnings(ctx, sellerID)
	if err != nil {
		return GetSellerEarningsQueryResponse{}, err
	}

	return GetSellerEarningsQueryResponse{
		SellerID: earnings.SellerID,
		Total:    earnings.Total,
		Entries:  earnings.Entries,
	}, nil
}

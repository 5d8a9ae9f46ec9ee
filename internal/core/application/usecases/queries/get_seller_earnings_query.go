package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetSellerEarningsQueryIsNotConstructed = errors.New(
	"GetSellerEarningsQuery must be created via NewGetSellerEarningsQuery constructor",
)

// GetSellerEarningsQuery sums the earnings ledger of one seller. Sellers may only read their own.
type GetSellerEarningsQuery struct {
	token    string
	sellerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetSellerEarningsQuery(token string, sellerID kernel.UUID) (GetSellerEarningsQuery, error) {
	if err := sellerID.Validate(); err != nil {
		return GetSellerEarningsQuery{}, errs.NewValueIsRequiredErrorWithCause("sellerId", err)
	}

	return GetSellerEarningsQuery{
		token:    token,
		sellerID: sellerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetSellerEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetSellerEarningsQueryIsNotConstructed)
}

func (q GetSellerEarningsQuery) Token() string {
	return q.token
}

func (q GetSellerEarningsQuery) SellerID() kernel.UUID {
	return q.sellerID
}

// GetSellerEarningsQueryResponse is the realized revenue of a seller.
type GetSellerEarningsQueryResponse struct {
	SellerID kernel.UUID
	Total    kernel.Money
	Entries  int
}

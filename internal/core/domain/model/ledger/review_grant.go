package ledger

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// ReviewGrant makes a customer eligible to review a product. Grants are never revoked;
// granting the same pair twice is a no-op for the registry.
type ReviewGrant struct {
	CustomerID kernel.UUID
	ProductID  kernel.UUID
	OrderID    kernel.UUID
	GrantedAt  time.Time
}

func NewReviewGrant(customerID, productID, orderID kernel.UUID, at time.Time) (ReviewGrant, error) {
	if err := errors.Join(
		requireID("customerId", customerID),
		requireID("productId", productID),
		requireID("orderId", orderID),
	); err != nil {
		return ReviewGrant{}, err
	}
	return ReviewGrant{CustomerID: customerID, ProductID: productID, OrderID: orderID, GrantedAt: at.UTC()}, nil
}

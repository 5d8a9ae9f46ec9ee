package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderItem is one requested product and quantity.
type PlaceOrderItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// PlaceOrderCommand creates an order for the token holder. Seller and unit price of every
// line are taken from the catalog when the command is handled.
type PlaceOrderCommand struct {
	token string
	items []PlaceOrderItem

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(token string, items []PlaceOrderItem) (PlaceOrderCommand, error) {
	if len(items) == 0 {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("items")
	}

	var itemErrs []error
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			itemErrs = append(itemErrs, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].productId", i), err))
		}
		if item.Quantity <= 0 {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i),
				fmt.Errorf("%d is not greater than 0", item.Quantity),
			))
		}
	}
	if err := errors.Join(itemErrs...); err != nil {
		return PlaceOrderCommand{}, err
	}

	copied := make([]PlaceOrderItem, len(items))
	copy(copied, items)

	return PlaceOrderCommand{
		token: token,
		items: copied,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Token() string {
	return c.token
}

func (c PlaceOrderCommand) Items() []PlaceOrderItem {
	items := make([]PlaceOrderItem, len(c.items))
	copy(items, c.items)
	return items
}

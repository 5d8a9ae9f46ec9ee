package services

import (
	"marketplace/internal/core/domain/model/order"
)

// ActionName identifies what a principal is trying to do.
type ActionName string

const (
	ActionReadOrder       ActionName = "read_order"
	ActionTransitionOrder ActionName = "transition_order"
	ActionPlaceOrder      ActionName = "place_order"
	ActionAssignShipper   ActionName = "assign_shipper"
	ActionViewProfile     ActionName = "view_profile"
	ActionViewEarnings    ActionName = "view_earnings"
	ActionSetAccountLock  ActionName = "set_account_lock"
)

// Action is an ActionName plus, for transitions, the requested target status.
type Action struct {
	Name   ActionName
	Target order.Status
}

func ReadOrder() Action {
	return Action{Name: ActionReadOrder}
}

func TransitionOrder(to order.Status) Action {
	return Action{Name: ActionTransitionOrder, Target: to}
}

func NewAction(name ActionName) Action {
	return Action{Name: name}
}

func (a Action) String() string {
	if a.Name == ActionTransitionOrder {
		return string(a.Name) + ":" + a.Target.String()
	}
	return string(a.Name)
}

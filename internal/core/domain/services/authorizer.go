package services

import (
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// ReasonInsufficientRole is the reason given when no rule matches.
const ReasonInsufficientRole = "insufficient role"

// ReasonAccountLocked is the reason given to locked principals.
const ReasonAccountLocked = "account locked"

// Request is what the guard decides on.
type Request struct {
	Action Action

	// Order is the order the action targets; nil for actions that are not about an order.
	Order *order.Order

	// Subject is the principal or seller the action is about (profile, earnings, lock).
	Subject *kernel.UUID
}

// Decision is the guard's verdict. Rule names the rule that allowed the request.
type Decision struct {
	Allowed bool
	Rule    string
	Reason  string
}

// Err converts a denial into errs.DeniedError; it returns nil for an allowed decision.
func (d Decision) Err(p *identity.Principal, action Action) error {
	if d.Allowed {
		return nil
	}
	principalID := ""
	if p != nil {
		principalID = p.ID().String()
	}
	return errs.NewDeniedError(principalID, action.String(), d.Reason)
}

type edge struct {
	from order.Status
	to   order.Status
}

// rule allows a request when the principal has role, the action is one of actions and
// match (if any) holds.
type rule struct {
	name    string
	role    identity.Role
	actions []ActionName
	edges   []edge
	match   func(p *identity.Principal, r Request) bool
}

// Authorizer evaluates the rule table top to bottom; the first matching rule allows the
// request, and a request no rule matches is denied with ReasonInsufficientRole.
type Authorizer struct {
	rules []rule
}

func NewAuthorizer() Authorizer {
	return Authorizer{rules: []rule{
		{
			name:  "admin",
			role:  identity.Admin,
			match: func(*identity.Principal, Request) bool { return true },
		},
		{
			name:    "own-profile",
			actions: []ActionName{ActionViewProfile},
			match:   isSubject,
		},
		{
			name:    "customer-read",
			role:    identity.Customer,
			actions: []ActionName{ActionReadOrder},
			match: func(p *identity.Principal, r Request) bool {
				return ownsOrder(p, r) && (r.Order.Status() == order.Placed || r.Order.Status() == order.Preparing)
			},
		},
		{
			name:    "customer-cancel",
			role:    identity.Customer,
			actions: []ActionName{ActionTransitionOrder},
			edges: []edge{
				{order.Placed, order.Cancelled},
				{order.Preparing, order.Cancelled},
			},
			match: ownsOrder,
		},
		{
			name:    "customer-place",
			role:    identity.Customer,
			actions: []ActionName{ActionPlaceOrder},
		},
		{
			name:    "seller-read",
			role:    identity.Seller,
			actions: []ActionName{ActionReadOrder},
			match:   sellsInOrder,
		},
		{
			name:    "seller-confirm",
			role:    identity.Seller,
			actions: []ActionName{ActionTransitionOrder},
			edges:   []edge{{order.Placed, order.Preparing}},
			match:   sellsInOrder,
		},
		{
			name:    "seller-earnings",
			role:    identity.Seller,
			actions: []ActionName{ActionViewEarnings},
			match:   isSubject,
		},
		{
			name:    "shipper-read",
			role:    identity.Shipper,
			actions: []ActionName{ActionReadOrder},
			match:   shipsOrder,
		},
		{
			name:    "shipper-deliver",
			role:    identity.Shipper,
			actions: []ActionName{ActionTransitionOrder},
			edges: []edge{
				{order.Preparing, order.InTransit},
				{order.InTransit, order.Delivered},
				{order.InTransit, order.Returned},
			},
			match: shipsOrder,
		},
	}}
}

// Authorize decides whether p may perform r. It has no side effects.
//
// A transition whose target equals the order's current status is a retry: it is allowed when
// the rule covers some edge into that status, so a repeated request gets the same answer as
// the one that moved the order.
func (a Authorizer) Authorize(p *identity.Principal, r Request) Decision {
	if err := p.Validate(); err != nil {
		return Decision{Reason: ReasonInsufficientRole}
	}
	if p.IsLocked() && r.Action.Name != ActionViewProfile {
		return Decision{Reason: ReasonAccountLocked}
	}

	for _, rl := range a.rules {
		if rl.matches(p, r) {
			return Decision{Allowed: true, Rule: rl.name}
		}
	}
	return Decision{Reason: ReasonInsufficientRole}
}

func (rl rule) matches(p *identity.Principal, r Request) bool {
	if rl.role != identity.UnknownRole && !p.Is(rl.role) {
		return false
	}
	if len(rl.actions) > 0 && !containsAction(rl.actions, r.Action.Name) {
		return false
	}
	if len(rl.edges) > 0 && !rl.coversEdge(r) {
		return false
	}
	return rl.match == nil || rl.match(p, r)
}

func (rl rule) coversEdge(r Request) bool {
	if r.Order == nil {
		return false
	}
	current := r.Order.Status()
	for _, e := range rl.edges {
		if e.to != r.Action.Target {
			continue
		}
		if e.from == current || e.to == current {
			return true
		}
	}
	return false
}

func containsAction(actions []ActionName, name ActionName) bool {
	for _, action := range actions {
		if action == name {
			return true
		}
	}
	return false
}

func isSubject(p *identity.Principal, r Request) bool {
	return r.Subject != nil && r.Subject.IsEqual(p.ID())
}

func ownsOrder(p *identity.Principal, r Request) bool {
	return r.Order != nil && r.Order.CustomerID().IsEqual(p.ID())
}

func sellsInOrder(p *identity.Principal, r Request) bool {
	return r.Order != nil && r.Order.HasSeller(p.ID())
}

func shipsOrder(p *identity.Principal, r Request) bool {
	return r.Order != nil && r.Order.IsAssignedTo(p.ID())
}

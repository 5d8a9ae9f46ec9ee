package identity

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role is the capability class of a principal.
type Role int

const (
	// UnknownRole catches uninitialized values.
	UnknownRole Role = iota
	Customer
	Seller
	Shipper
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Customer:    "customer",
		Seller:      "seller",
		Shipper:     "shipper",
		Admin:       "admin",
	}
}

// RoleFromString parses the persisted or token form of a role.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if role != UnknownRole && str == s {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects UnknownRole and out of range values.
func (r Role) Validate() error {
	if r <= UnknownRole || r > Admin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

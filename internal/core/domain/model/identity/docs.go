// Package identity models the authenticated actor of the marketplace.
//
// A Principal is owned by the identity subsystem and referenced elsewhere by id only.
// Its Role is fixed at registration; the lock flag is the only mutable attribute and
// is changed exclusively through the admin lock command.
package identity

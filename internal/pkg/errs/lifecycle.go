package errs

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrAccountLocked     = errors.New("account locked")
	ErrDenied            = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrBusy              = errors.New("resource busy")
	ErrStorage           = errors.New("storage error")
	ErrAborted           = errors.New("side effects aborted")
)

// UnauthenticatedError is returned when a token does not resolve to a principal.
type UnauthenticatedError struct {
	Cause error
}

func NewUnauthenticatedError() *UnauthenticatedError {
	return &UnauthenticatedError{}
}

func NewUnauthenticatedErrorWithCause(cause error) *UnauthenticatedError {
	return &UnauthenticatedError{Cause: cause}
}

func (e *UnauthenticatedError) Error() string {
	return withCause(ErrUnauthenticated.Error(), e.Cause)
}

func (e *UnauthenticatedError) Unwrap() error {
	return ErrUnauthenticated
}

// AccountLockedError is returned for a locked principal attempting anything but a profile read.
type AccountLockedError struct {
	PrincipalID string
}

func NewAccountLockedError(principalID string) *AccountLockedError {
	return &AccountLockedError{PrincipalID: principalID}
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccountLocked, e.PrincipalID)
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}

// DeniedError carries the guard's reason for refusing an action.
type DeniedError struct {
	PrincipalID string
	Action      string
	Reason      string
}

func NewDeniedError(principalID, action, reason string) *DeniedError {
	return &DeniedError{PrincipalID: principalID, Action: action, Reason: reason}
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s may not %s: %s", ErrDenied, e.PrincipalID, e.Action, e.Reason)
}

func (e *DeniedError) Unwrap() error {
	return ErrDenied
}

// InvalidTransitionError reports an edge missing from the order status graph.
type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InsufficientStockError reports a reservation larger than the derived balance.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func NewInsufficientStockError(productID string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s requested %d, available %d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ConflictError reports a write against a stale version.
type ConflictError struct {
	Entity          string
	ID              string
	ExpectedVersion int64
}

func NewConflictError(entity, id string, expectedVersion int64) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, ExpectedVersion: expectedVersion}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s is no longer at version %d", ErrConflict, e.Entity, e.ID, e.ExpectedVersion)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// BusyError is returned when an exclusive section could not be acquired within the wait bound.
type BusyError struct {
	ResourceID string
}

func NewBusyError(resourceID string) *BusyError {
	return &BusyError{ResourceID: resourceID}
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBusy, e.ResourceID)
}

func (e *BusyError) Unwrap() error {
	return ErrBusy
}

// StorageError hides persistence failures behind the operation name.
// Cause is kept for logging and is not part of Error().
type StorageError struct {
	Operation string
	Cause     error
}

func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{Operation: operation, Cause: cause}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStorage, e.Operation)
}

func (e *StorageError) Unwrap() error {
	return ErrStorage
}

// AbortedError is returned by the side-effect executor. It unwraps to both ErrAborted and
// the reason, so errors.Is(err, ErrInsufficientStock) keeps working.
type AbortedError struct {
	OrderID string
	Reason  error
}

func NewAbortedError(orderID string, reason error) *AbortedError {
	return &AbortedError{OrderID: orderID, Reason: reason}
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("%s for order %s: %s", ErrAborted, e.OrderID, e.Reason)
}

func (e *AbortedError) Unwrap() []error {
	return []error{ErrAborted, e.Reason}
}

package errs

import (
	"errors"
	"fmt"
)

// Kind is the stable, transport-independent name of an error class.
type Kind string

const (
	KindUnauthenticated   Kind = "Unauthenticated"
	KindAccountLocked     Kind = "AccountLocked"
	KindDenied            Kind = "Denied"
	KindNotFound          Kind = "NotFound"
	KindInvalidTransition Kind = "InvalidTransition"
	KindInsufficientStock Kind = "InsufficientStock"
	KindConflict          Kind = "Conflict"
	KindBusy              Kind = "Busy"
	KindValidation        Kind = "Validation"
	KindStorage           Kind = "StorageError"
	KindInternal          Kind = "Internal"
)

// Description is what the request layer needs to render an error: a kind and the ids involved.
type Description struct {
	Kind   Kind
	Detail map[string]string
}

// IsTransient reports whether a retry of the same call may succeed.
func (d Description) IsTransient() bool {
	return d.Kind == KindConflict || d.Kind == KindBusy
}

// Describe classifies err. AbortedError is looked through so the reason decides the kind.
func Describe(err error) Description {
	var (
		unauthenticated *UnauthenticatedError
		locked          *AccountLockedError
		denied          *DeniedError
		notFound        *ObjectNotFoundError
		transition      *InvalidTransitionError
		stock           *InsufficientStockError
		conflict        *ConflictError
		busy            *BusyError
		storage         *StorageError
		required        *ValueIsRequiredError
		invalid         *ValueIsInvalidError
		outOfRange      *ValueIsOutOfRangeError
	)

	switch {
	case err == nil:
		return Description{}
	case errors.As(err, &unauthenticated):
		return Description{Kind: KindUnauthenticated, Detail: map[string]string{}}
	case errors.As(err, &locked):
		return Description{Kind: KindAccountLocked, Detail: map[string]string{"principalId": locked.PrincipalID}}
	case errors.As(err, &denied):
		return Description{Kind: KindDenied, Detail: map[string]string{
			"principalId": denied.PrincipalID,
			"action":      denied.Action,
			"reason":      denied.Reason,
		}}
	case errors.As(err, &notFound):
		return Description{Kind: KindNotFound, Detail: map[string]string{
			"entity": notFound.ParamName,
			"id":     fmt.Sprint(notFound.ID),
		}}
	case errors.As(err, &transition):
		return Description{Kind: KindInvalidTransition, Detail: map[string]string{
			"from": transition.From,
			"to":   transition.To,
		}}
	case errors.As(err, &stock):
		return Description{Kind: KindInsufficientStock, Detail: map[string]string{
			"productId": stock.ProductID,
			"requested": fmt.Sprint(stock.Requested),
			"available": fmt.Sprint(stock.Available),
		}}
	case errors.As(err, &conflict):
		return Description{Kind: KindConflict, Detail: map[string]string{
			"entity":          conflict.Entity,
			"id":              conflict.ID,
			"expectedVersion": fmt.Sprint(conflict.ExpectedVersion),
		}}
	case errors.As(err, &busy):
		return Description{Kind: KindBusy, Detail: map[string]string{"resourceId": busy.ResourceID}}
	case errors.As(err, &storage):
		return Description{Kind: KindStorage, Detail: map[string]string{"operation": storage.Operation}}
	case errors.As(err, &required):
		return Description{Kind: KindValidation, Detail: map[string]string{"param": required.ParamName, "rule": "required"}}
	case errors.As(err, &invalid):
		return Description{Kind: KindValidation, Detail: map[string]string{"param": invalid.ParamName, "rule": "invalid"}}
	case errors.As(err, &outOfRange):
		return Description{Kind: KindValidation, Detail: map[string]string{"param": outOfRange.ParamName, "rule": "range"}}
	default:
		return Description{Kind: KindInternal, Detail: map[string]string{}}
	}
}

// Package errs provides the error types shared by the marketplace core.
//
// Every type follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrInvalidTransition, ...) usable with errors.Is
//   - a struct carrying the ids a caller needs to render a message
//   - New...Error constructors, with a ...WithCause variant where a cause is meaningful
//   - Error() for logs and Unwrap() returning the sentinel
//
// Validation errors (ValueIsRequired, ValueIsInvalid, ValueIsOutOfRange) are raised by
// constructors and setters of the domain model. The lifecycle errors (Unauthenticated,
// AccountLocked, Denied, ObjectNotFound, InvalidTransition, InsufficientStock, Conflict,
// Busy, Storage, Aborted) form the taxonomy returned to the request layer; Describe maps
// any of them to a stable kind plus structured detail.
package errs

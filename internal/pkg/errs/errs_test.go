package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors(t *testing.T) {
	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("lineItems")

		assert.Equal(t, "value is required: lineItems", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("invalid with cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("0 is not greater than 0"))

		assert.Equal(t, "value is invalid: quantity (cause: 0 is not greater than 0)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("out of range keeps one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("trackingNumber", "ab\ncd", 1, 64)

		assert.Equal(t, "value is out of range: trackingNumber is ab cd, min value is 1, max value is 64", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("not found", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "42")

		assert.Equal(t, "object not found: order 42", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestStorageError_DoesNotLeakCause(t *testing.T) {
	cause := errors.New(`pq: relation "orders" does not exist`)
	err := errs.NewStorageError("load order", cause)

	assert.Equal(t, "storage error: load order", err.Error())
	assert.NotContains(t, err.Error(), "relation")
	assert.Equal(t, cause, err.Cause)
	require.ErrorIs(t, err, errs.ErrStorage)
}

func TestAbortedError_UnwrapsToReason(t *testing.T) {
	reason := errs.NewInsufficientStockError("p-1", 2, 1)
	err := fmt.Errorf("apply: %w", errs.NewAbortedError("o-1", reason))

	require.ErrorIs(t, err, errs.ErrAborted)
	require.ErrorIs(t, err, errs.ErrInsufficientStock)

	var stock *errs.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 2, stock.Requested)
	assert.Equal(t, 1, stock.Available)
}

func TestDescribe(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		kind   errs.Kind
		detail map[string]string
	}{
		{"unauthenticated", errs.NewUnauthenticatedError(), errs.KindUnauthenticated, map[string]string{}},
		{"locked", errs.NewAccountLockedError("u-1"), errs.KindAccountLocked, map[string]string{"principalId": "u-1"}},
		{
			"denied", errs.NewDeniedError("u-1", "transition to in_transit", "insufficient role"), errs.KindDenied,
			map[string]string{"principalId": "u-1", "action": "transition to in_transit", "reason": "insufficient role"},
		},
		{"not found", errs.NewObjectNotFoundError("order", "o-9"), errs.KindNotFound, map[string]string{"entity": "order", "id": "o-9"}},
		{
			"invalid transition", errs.NewInvalidTransitionError("placed", "delivered"), errs.KindInvalidTransition,
			map[string]string{"from": "placed", "to": "delivered"},
		},
		{
			"aborted by stock", errs.NewAbortedError("o-1", errs.NewInsufficientStockError("p-1", 3, 1)), errs.KindInsufficientStock,
			map[string]string{"productId": "p-1", "requested": "3", "available": "1"},
		},
		{
			"conflict", errs.NewConflictError("order", "o-1", 4), errs.KindConflict,
			map[string]string{"entity": "order", "id": "o-1", "expectedVersion": "4"},
		},
		{"busy", errs.NewBusyError("product:p-1"), errs.KindBusy, map[string]string{"resourceId": "product:p-1"}},
		{"storage", errs.NewStorageError("save order", errors.New("boom")), errs.KindStorage, map[string]string{"operation": "save order"}},
		{"unknown", errors.New("boom"), errs.KindInternal, map[string]string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := errs.Describe(tc.err)

			assert.Equal(t, tc.kind, d.Kind)
			assert.Equal(t, tc.detail, d.Detail)
		})
	}
}

func TestDescription_IsTransient(t *testing.T) {
	assert.True(t, errs.Describe(errs.NewBusyError("order:1")).IsTransient())
	assert.True(t, errs.Describe(errs.NewConflictError("order", "1", 1)).IsTransient())
	assert.False(t, errs.Describe(errs.NewInvalidTransitionError("placed", "delivered")).IsTransient())
}

func TestDescribe_Validation(t *testing.T) {
	d := errs.Describe(fmt.Errorf("place order: %w", errs.NewValueIsInvalidError("quantity")))

	assert.Equal(t, errs.KindValidation, d.Kind)
	assert.Equal(t, map[string]string{"param": "quantity", "rule": "invalid"}, d.Detail)
}

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"courier-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("request", "123")

		assert.Equal(t, "request", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: request 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := errs.NewObjectNotFoundErrorWithCause("address", "Rua X, Y", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "object not found: address Rua X, Y (cause: connection refused)", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with non string ID", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("courier", 456)
		assert.Equal(t, "object not found: courier 456", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("payment method")

		assert.Equal(t, "payment method", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: payment method", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("BOLETO is not supported")
		err := errs.NewValueIsInvalidErrorWithCause("payment method", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: payment method (cause: BOLETO is not supported)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 91.5, -90.0, 90.0)

		assert.Equal(t, "lat", err.ParamName)
		assert.InDelta(t, 91.5, err.Value, 0)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is out of range: lat is 91.5, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("parsed from upstream")
		err := errs.NewValueIsOutOfRangeErrorWithCause("step", 2, 0, 1, cause)

		assert.Equal(t,
			"value is out of range: step is 2, min value is 0, max value is 1 (cause: parsed from upstream)",
			err.Error())
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("city")

		assert.Equal(t, "city", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: city", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("blank after trimming")
		err := errs.NewValueIsRequiredErrorWithCause("item", cause)

		assert.Equal(t, "value is required: item (cause: blank after trimming)", err.Error())
	})
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError(stringer("ACCEPTED"), stringer("DELIVERED"))

	assert.Equal(t, "ACCEPTED", err.From)
	assert.Equal(t, "DELIVERED", err.To)
	assert.Equal(t, "invalid status transition: ACCEPTED -> DELIVERED", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestObjectConflictError(t *testing.T) {
	err := errs.NewObjectConflictError("delivery request", "abc")

	assert.Equal(t, "object was modified concurrently: delivery request abc", err.Error())
	require.ErrorIs(t, err, errs.ErrObjectConflict)
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", errs.NewObjectNotFoundError("request", "1"))
		require.ErrorIs(t, wrapped, errs.ErrObjectNotFound)

		joined := errors.Join(errs.NewValueIsRequiredError("city"), errs.NewValueIsInvalidError("payer"))
		require.ErrorIs(t, joined, errs.ErrValueIsRequired)
		require.ErrorIs(t, joined, errs.ErrValueIsInvalid)
	})

	t.Run("errors.As extracts details", func(t *testing.T) {
		var transitionErr *errs.InvalidTransitionError
		err := fmt.Errorf("advance: %w", errs.NewInvalidTransitionError(stringer("PENDING"), stringer("PICKED_UP")))

		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "PICKED_UP", transitionErr.To)
	})
}

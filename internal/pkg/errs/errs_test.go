package errs_test

import (
	"errors"
	"testing"

	"returnsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("trackingID", "CGS123456")

		assert.Equal(t, "trackingID", err.ParamName)
		assert.Equal(t, "CGS123456", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: CGS123456", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("returnID", "123", cause)

		assert.Equal(t, "returnID", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: returnID, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("unknown carrier code")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: unknown carrier code)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("payload", errors.New("bad\nline"))
		assert.Contains(t, err.Error(), "bad line")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("orderRef")

		assert.Equal(t, "orderRef", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: orderRef", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing field")
		err := errs.NewValueIsRequiredErrorWithCause("orderRef", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: orderRef (cause: missing field)", err.Error())
	})
}

func TestTransientAndPermanentErrors(t *testing.T) {
	t.Run("transient classification", func(t *testing.T) {
		cause := errors.New("context deadline exceeded")
		err := errs.NewTransientError("list events", cause)

		assert.Equal(t, "list events", err.Op)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "transient error: list events (cause: context deadline exceeded)", err.Error())
		require.ErrorIs(t, err, errs.ErrTransient)
		assert.True(t, errs.IsTransient(err))
		assert.False(t, errs.IsPermanent(err))
	})

	t.Run("permanent classification", func(t *testing.T) {
		cause := errors.New("status 404")
		err := errs.NewPermanentError("get return status", cause)

		assert.Equal(t, "permanent error: get return status (cause: status 404)", err.Error())
		require.ErrorIs(t, err, errs.ErrPermanent)
		assert.True(t, errs.IsPermanent(err))
		assert.False(t, errs.IsTransient(err))
	})

	t.Run("without cause", func(t *testing.T) {
		err := errs.NewTransientError("commit batch", nil)
		assert.Equal(t, "transient error: commit batch", err.Error())
	})

	t.Run("classification of wrapped errors", func(t *testing.T) {
		wrapped := errors.Join(errors.New("outer"), errs.NewTransientError("inner", nil))
		assert.True(t, errs.IsTransient(wrapped))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("returnID", "1"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("sku"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsRequiredError("sku"), errs.ErrValueIsRequired)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "transient error", errs.ErrTransient.Error())
		assert.Equal(t, "permanent error", errs.ErrPermanent.Error())
	})
}

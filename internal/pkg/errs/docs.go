// Package errs provides standardized error types for the returns
// reconciliation service. It implements a consistent pattern for error
// creation, formatting, and unwrapping that is used throughout the
// application.
//
// The package includes error types for common scenarios:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ObjectNotFoundError: for when an object cannot be found
//
// and the retry-classification pair the sync processor relies on:
//   - TransientError: infrastructure failures safe to retry next run
//     (timeouts, 5xx responses, lost database connections)
//   - PermanentError: failures that will not succeed on retry
//     (malformed payloads, rejected requests)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() for errors.Is classification
package errs

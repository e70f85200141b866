// Package errs provides the error taxonomy shared by every layer of the order hub.
//
// The package includes several error types:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input,
//     rejected before any state mutation
//   - ObjectNotFoundError: unknown item, cart, order or assignment
//   - StateConflictError: a request that is well formed but conflicts with the current
//     state (invalid transition, closed cart, concurrent modification, ...)
//   - SyncError: a catalog payload could not be applied
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() returning the sentinel, and Is() matching the cause, so both the category
//     and a domain specific sentinel can be tested with errors.Is
package errs

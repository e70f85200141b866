package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrStateConflict     = errors.New("state conflict")
	ErrSyncFailed        = errors.New("catalog sync failed")
)

// IsValidation reports whether err belongs to the validation category.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

func matchCause(cause, target error) bool {
	return cause != nil && errors.Is(cause, target)
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError is returned when an entity with the given identifier does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error { return ErrObjectNotFound }

func (e *ObjectNotFoundError) Is(target error) bool { return matchCause(e.Cause, target) }

// ValueIsInvalidError is returned when a value is present but malformed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error { return ErrValueIsInvalid }

func (e *ValueIsInvalidError) Is(target error) bool { return matchCause(e.Cause, target) }

// ValueIsOutOfRangeError is returned when a numeric value falls outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsOutOfRange, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error { return ErrValueIsOutOfRange }

func (e *ValueIsOutOfRangeError) Is(target error) bool { return matchCause(e.Cause, target) }

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error { return ErrValueIsRequired }

func (e *ValueIsRequiredError) Is(target error) bool { return matchCause(e.Cause, target) }

// StateConflictError is returned when a well formed request conflicts with the current
// state of an aggregate. Kind is a domain sentinel such as order.ErrInvalidTransition.
type StateConflictError struct {
	Kind   error
	Detail string
}

func NewStateConflictError(kind error, detail string) *StateConflictError {
	return &StateConflictError{Kind: kind, Detail: detail}
}

func NewStateConflictErrorf(kind error, format string, args ...any) *StateConflictError {
	return &StateConflictError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *StateConflictError) Error() string {
	kind := ErrStateConflict
	if e.Kind != nil {
		kind = e.Kind
	}
	if e.Detail == "" {
		return kind.Error()
	}
	return fmt.Sprintf("%s: %s", kind, e.Detail)
}

func (e *StateConflictError) Unwrap() error { return ErrStateConflict }

func (e *StateConflictError) Is(target error) bool { return matchCause(e.Kind, target) }

// SyncError is returned when a catalog payload cannot be applied. The mirror that was
// active before the failed load stays in place.
type SyncError struct {
	Source string
	Cause  error
}

func NewSyncError(source string, cause error) *SyncError {
	return &SyncError{Source: source, Cause: cause}
}

func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrSyncFailed, e.Source, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrSyncFailed, e.Source)
}

func (e *SyncError) Unwrap() error { return ErrSyncFailed }

func (e *SyncError) Is(target error) bool { return matchCause(e.Cause, target) }

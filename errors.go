package ppview

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine failures for the consuming surface.
type ErrorCode string

const (
	// CodeStateNotInitialized marks a computation requested before Init.
	// Non-recoverable for that call: the caller must initialize first.
	CodeStateNotInitialized ErrorCode = "STATE_NOT_INITIALIZED"

	// CodeCalculationOverflow is the catch-all for unexpected numeric or
	// runtime failure inside a computation. Recoverable: retrying with the
	// same loaded state is safe.
	CodeCalculationOverflow ErrorCode = "CALCULATION_OVERFLOW"

	// CodeInvalidDateRange marks malformed window bounds.
	CodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"

	// CodeWorkerTerminated marks a computation context torn down mid-request.
	CodeWorkerTerminated ErrorCode = "WORKER_TERMINATED"
)

// Error is the typed failure surfaced by computation requests. Ingestion
// failures are a distinct class (see ppxml.SchemaError) and never carry one
// of these codes.
type Error struct {
	Code        ErrorCode
	Message     string
	Recoverable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a typed engine error.
func NewError(code ErrorCode, recoverable bool, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Recoverable: recoverable}
}

// AsError coerces an arbitrary failure into an *Error. Already-typed errors
// pass through; anything else becomes a recoverable CALCULATION_OVERFLOW.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:        CodeCalculationOverflow,
		Message:     err.Error(),
		Recoverable: true,
	}
}

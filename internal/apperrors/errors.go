package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure in a collaborator (usually the store).
var ErrInternal = errors.New("internal error")

// ErrPolicyViolation indicates an attempted mutation of a protected record,
// such as the opening balance row or an invoice-linked ledger entry.
var ErrPolicyViolation = errors.New("policy violation")

// ErrPartialFailure indicates that a multi-step operation stopped after its
// first step had already taken effect.
var ErrPartialFailure = errors.New("partial failure")

// AppError carries a status-like code alongside the wrapped cause.
// Repositories use it to annotate store failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports server-side codes as ErrInternal so callers need not know the
// concrete type.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// PolicyViolation describes which protected record kind refused which action.
type PolicyViolation struct {
	Kind    string
	Action  string
	Details string
}

// NewPolicyViolation creates a PolicyViolation.
func NewPolicyViolation(kind, action, details string) *PolicyViolation {
	return &PolicyViolation{Kind: kind, Action: action, Details: details}
}

func (e *PolicyViolation) Error() string {
	msg := fmt.Sprintf("%s: cannot %s %s entry", ErrPolicyViolation.Error(), e.Action, e.Kind)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

func (e *PolicyViolation) Unwrap() error {
	return ErrPolicyViolation
}

// PartialFailureError reports a cascade where Completed succeeded and Failed did not.
type PartialFailureError struct {
	Completed string
	Failed    string
	Err       error
}

// NewPartialFailure creates a PartialFailureError.
func NewPartialFailure(completed, failed string, err error) *PartialFailureError {
	return &PartialFailureError{Completed: completed, Failed: failed, Err: err}
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s succeeded but %s failed: %v", ErrPartialFailure.Error(), e.Completed, e.Failed, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}

package errors

import (
	"github.com/cockroachdb/errors"
)

// Error codes exposed to callers of the core
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodePolicyViolation  = "policy_violation"
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeDatabase         = "database_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeInternalError    = "internal_error"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrPolicyViolation  = new(ErrCodePolicyViolation, "policy violation")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrInternal         = new(ErrCodeInternalError, "internal error")
)

// markers lists every marker in the order they are matched when a code is
// derived from an error chain
var markers = []*InternalError{
	ErrNotFound,
	ErrAlreadyExists,
	ErrPolicyViolation,
	ErrValidation,
	ErrInvalidOperation,
	ErrPermissionDenied,
	ErrHTTPClient,
	ErrDatabase,
	ErrSystem,
	ErrInternal,
}

// InternalError is the reference value used as a marker on error chains
type InternalError struct {
	Code    string
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// IsNotFound reports whether err is marked as a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is marked as a uniqueness conflict
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation reports whether err is marked as invalid input
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation reports whether err is marked as an illegal state transition
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPermissionDenied reports whether the caller's role does not allow the operation
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsPolicyViolation reports whether err is a termination policy rejection
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPolicyViolation)
}

// IsDatabase reports whether err originated in the durable store
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// Code returns the code of the first marker found on the chain, or the
// internal error code when the error carries no marker
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range markers {
		if errors.Is(err, m) {
			return m.Code
		}
	}
	return ErrCodeInternalError
}

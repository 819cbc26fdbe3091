package errors

import (
	"net/http"
)

// ErrorResponse is the payload a transport layer returns for a failed operation
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail describes the failure with the structured reason surfaced verbatim
type ErrorDetail struct {
	Code          string                 `json:"code"`
	Display       string                 `json:"display"`
	InternalError string                 `json:"internal_error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse builds the response payload for err
func NewErrorResponse(err error) ErrorResponse {
	display := GetHint(err)
	if display == "" {
		display = "An unexpected error occurred"
	}
	details := GetReportableDetails(err)
	if len(details) == 0 {
		details = nil
	}
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:          Code(err),
			Display:       display,
			InternalError: err.Error(),
			Details:       details,
		},
	}
}

// HTTPStatusFromErr maps an error to the status code a transport layer should use
func HTTPStatusFromErr(err error) int {
	switch Code(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeAlreadyExists, ErrCodeInvalidOperation:
		return http.StatusConflict
	case ErrCodeValidation, ErrCodePolicyViolation:
		return http.StatusBadRequest
	case ErrCodeHTTPClient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderMarksAndHints(t *testing.T) {
	err := NewError("renewal request not found").
		WithHint("Renewal request not found").
		WithReportableDetails(map[string]interface{}{"renewal_request_id": "rnw_1"}).
		Mark(ErrNotFound)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsPermissionDenied(err))
	assert.Equal(t, ErrCodeNotFound, Code(err))
	assert.Equal(t, "Renewal request not found", GetHint(err))
	assert.Equal(t, "rnw_1", GetReportableDetails(err)["renewal_request_id"])
}

func TestMarkSurvivesWrapping(t *testing.T) {
	inner := NewError("lease is not active").Mark(ErrInvalidOperation)
	wrapped := fmt.Errorf("accept failed: %w", inner)

	assert.True(t, IsInvalidOperation(wrapped))
	assert.Equal(t, http.StatusConflict, HTTPStatusFromErr(wrapped))
}

func TestReportableDetailsOuterWins(t *testing.T) {
	inner := NewError("boom").
		WithReportableDetails(map[string]interface{}{"a": 1, "b": 1}).
		Mark(ErrValidation)
	outer := WithError(inner).
		WithReportableDetails(map[string]interface{}{"b": 2}).
		Mark(ErrValidation)

	details := GetReportableDetails(outer)
	assert.Equal(t, 1, details["a"])
	assert.Equal(t, 2, details["b"])
}

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NewError("x").Mark(ErrNotFound), http.StatusNotFound},
		{"forbidden", NewError("x").Mark(ErrPermissionDenied), http.StatusForbidden},
		{"conflict", NewError("x").Mark(ErrAlreadyExists), http.StatusConflict},
		{"invalid state", NewError("x").Mark(ErrInvalidOperation), http.StatusConflict},
		{"policy violation", NewError("x").Mark(ErrPolicyViolation), http.StatusBadRequest},
		{"validation", NewError("x").Mark(ErrValidation), http.StatusBadRequest},
		{"database", NewError("x").Mark(ErrDatabase), http.StatusInternalServerError},
		{"unmarked", fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	err := NewError("proposed end date precedes earliest allowed end").
		WithHint("The lease can end on 2025-03-10 at the earliest").
		WithReportableDetails(map[string]interface{}{"earliest_end_date": "2025-03-10"}).
		Mark(ErrPolicyViolation)

	resp := NewErrorResponse(err)
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodePolicyViolation, resp.Error.Code)
	assert.Equal(t, "The lease can end on 2025-03-10 at the earliest", resp.Error.Display)
	assert.Equal(t, "2025-03-10", resp.Error.Details["earliest_end_date"])

	plain := NewErrorResponse(fmt.Errorf("boom"))
	assert.Equal(t, "An unexpected error occurred", plain.Error.Display)
	assert.Nil(t, plain.Error.Details)
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewNetworkError("classifier unreachable", cause)

	if got := err.Error(); got != "network: classifier unreachable (caused by: connection refused)" {
		t.Errorf("Unexpected error string: %q", got)
	}

	bare := NewValidationError("missing image file", nil)
	if got := bare.Error(); got != "validation: missing image file" {
		t.Errorf("Unexpected error string: %q", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewUpstreamError("stream failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}
}

func TestIsType(t *testing.T) {
	err := NewValidationError("bad upload", nil)

	if !IsType(err, ErrorTypeValidation) {
		t.Error("Expected validation type match")
	}
	if IsType(err, ErrorTypeUpstream) {
		t.Error("Unexpected upstream type match")
	}
	if IsType(fmt.Errorf("plain"), ErrorTypeValidation) {
		t.Error("Plain errors must not match any type")
	}
}

func TestGetStatusCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", NewValidationError("x", nil), http.StatusBadRequest},
		{"Network", NewNetworkError("x", nil), http.StatusBadGateway},
		{"Processing", NewProcessingError("x", nil), http.StatusUnprocessableEntity},
		{"Timeout", NewTimeoutError("x", nil), http.StatusGatewayTimeout},
		{"Upstream", NewUpstreamError("x", nil), http.StatusBadGateway},
		{"Internal", NewInternalError("x", nil), http.StatusInternalServerError},
		{"Plain error", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetStatusCode(tc.err); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

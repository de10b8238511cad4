package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// StatusError is a non-2xx answer from the generative-language endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
	Cause      error
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini request failed: status=%d (%s) message=%s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini request failed: status=%d message=%s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Cause }

// classify converts SDK errors into *StatusError where a status is known.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message, Cause: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &StatusError{StatusCode: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message, Cause: err}
	}
	return err
}

// IsOverloaded reports whether err means the service is temporarily overloaded
// (HTTP 503 or the provider's UNAVAILABLE status).
func IsOverloaded(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusServiceUnavailable ||
		strings.EqualFold(statusErr.Status, "UNAVAILABLE")
}

// HTTPStatus returns the status code to report for err. Errors without a
// known status map to 500.
func HTTPStatus(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 {
		return statusErr.StatusCode
	}
	return http.StatusInternalServerError
}

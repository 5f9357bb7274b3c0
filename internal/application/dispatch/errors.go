package dispatch

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is used when a failed envelope carries no message
const DefaultErrorMessage = "请求失败"

// APIError is an envelope with code != 200 from the real backend
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// TransportError is a network failure or a non-2xx HTTP status.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %s", e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 in either form
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// MessageOf returns the user facing message carried by err
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

package shared

import (
	"encoding/json"
	"fmt"
)

// Envelope codes used by the backend and the mock backend
const (
	CodeOK           = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
)

// Envelope is the uniform {code, message, data} wrapper returned by every
// backend call, real or mocked. Code 200 signals success.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// NewSuccessEnvelope creates a code 200 envelope
func NewSuccessEnvelope(message string, data any) *Envelope {
	return &Envelope{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	}
}

// NewErrorEnvelope creates an envelope carrying an application failure
func NewErrorEnvelope(code int, message string) *Envelope {
	return &Envelope{
		Code:    code,
		Message: message,
		Data:    nil,
	}
}

// IsSuccess reports whether the envelope signals success
func (e *Envelope) IsSuccess() bool {
	return e != nil && e.Code == CodeOK
}

// DecodeData converts the loosely typed Data payload into v.
// Data produced by JSON decoding is a map/slice tree, so the payload is
// re-encoded and decoded into the target type.
func (e *Envelope) DecodeData(v any) error {
	if e == nil || e.Data == nil {
		return fmt.Errorf("envelope has no data")
	}
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encoding envelope data: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding envelope data: %w", err)
	}
	return nil
}

// MessageOr returns the envelope message, or fallback when it is empty
func (e *Envelope) MessageOr(fallback string) string {
	if e == nil || e.Message == "" {
		return fallback
	}
	return e.Message
}

package httpclient

import (
	"encoding/json"
	"fmt"

	"github.com/erp/client/internal/domain/shared"
	"github.com/tidwall/gjson"
)

// DecodeEnvelope parses a response body as an Envelope
func DecodeEnvelope(body []byte) (*shared.Envelope, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	if !gjson.GetBytes(body, "code").Exists() {
		return nil, fmt.Errorf("response has no code field")
	}

	var env shared.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return &env, nil
}

// ErrorMessage extracts a human readable message from an error body.
// It understands the envelope shape and the backend's {error:{message}} shape.
func ErrorMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error.message", "error"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

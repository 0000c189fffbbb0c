package providers

import (
	"encoding/json"
	"fmt"
)

// GatewayError is returned for every failed call to the commerce API.
// StatusCode is 0 when no HTTP response was received (timeout, DNS,
// refused connection); Err then holds the transport error.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
	RawBody    []byte
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("tebex %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("tebex %s (status %d): %s", e.Op, e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// HasStatus reports whether the upstream answered at all.
func (e *GatewayError) HasStatus() bool { return e.StatusCode != 0 }

// Details returns the upstream body as JSON when it is valid JSON, or as a
// string otherwise. Empty bodies yield nil.
func (e *GatewayError) Details() interface{} {
	if len(e.RawBody) == 0 {
		return nil
	}
	if json.Valid(e.RawBody) {
		return json.RawMessage(e.RawBody)
	}
	return string(e.RawBody)
}

// upstreamMessage extracts a human readable message from a Tebex error body.
// Tebex answers with {"title": ..., "detail": ...} or {"error_message": ...}.
func upstreamMessage(status int, body []byte) string {
	var payload struct {
		Title        string `json:"title"`
		Detail       string `json:"detail"`
		ErrorMessage string `json:"error_message"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			return payload.Detail
		case payload.ErrorMessage != "":
			return payload.ErrorMessage
		case payload.Message != "":
			return payload.Message
		case payload.Title != "":
			return payload.Title
		}
	}
	return fmt.Sprintf("request failed with status code %d", status)
}

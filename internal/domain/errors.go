package domain

import (
	"fmt"
	"strings"
)

// ConfigError reports an invalid client configuration detected at startup.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Key, e.Message)
}

// ValidationError reports invalid input caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError is returned when a request fails at the network level or
// ends with a non-success status after retries are exhausted.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int    // Zero when no response was received
	Body       string // Truncated response body
	Attempts   int
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "HTTP %d on %s %s", e.StatusCode, strings.ToUpper(e.Method), e.Path)
	} else {
		fmt.Fprintf(&b, "network error on %s %s", strings.ToUpper(e.Method), e.Path)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " after %d attempts", e.Attempts)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body does not match the expected schema.
type DecodeError struct {
	Field   string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := "decode response"
	if e.Field != "" {
		msg += " field " + e.Field
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

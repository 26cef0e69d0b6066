package parsing

import (
	"fmt"
	"time"
)

// APICallError represents a failed call to the remote model
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError is returned when the model response is not a usable resume
// record: no balanced JSON, invalid JSON, or a schema violation.
type ParseError struct {
	Message string
	// Response holds the start of the offending model output.
	Response string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TimeoutError is returned when a single model call exceeds its deadline.
// Timeouts are not retried.
type TimeoutError struct {
	Timeout time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("model call timed out after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

package client

import "fmt"

// RemoteError is an explicit error reported by the service in an
// {"error": "..."} body.
type RemoteError struct {
	Op         string
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: service error: %s", e.Op, e.Message)
}

// TransportError covers network failures, unreadable or unparseable bodies,
// and non-2xx statuses without an error body.
type TransportError struct {
	Op      string
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: transport error: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: transport error: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// FormatError means the body was valid JSON but not the expected shape.
type FormatError struct {
	Op    string
	Cause error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: unexpected response format: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: unexpected response format", e.Op)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

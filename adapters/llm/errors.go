package llm

import "fmt"

// StatusError is a non-2xx or malformed reply from the service
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

// FailureKind classifies the error as a remote service failure
func (e *StatusError) FailureKind() string { return "service" }

// SerializationError is a failure to encode the request or decode the reply
type SerializationError struct {
	Op  string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// FailureKind classifies the error as an encoding failure
func (e *SerializationError) FailureKind() string { return "serialization" }

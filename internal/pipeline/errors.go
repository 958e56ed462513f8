package pipeline

import "fmt"

// RequestError reports a request the service refuses before doing any work
type RequestError struct {
	Field   string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

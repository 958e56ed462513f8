package tracker

import "fmt"

// DocumentNotFoundError indicates an unknown document id
type DocumentNotFoundError struct {
	ID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.ID)
}

// StoreError wraps a failure of the underlying store
type StoreError struct {
	Op    string
	ID    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

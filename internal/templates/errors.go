package templates

import "fmt"

// UnknownStyleError indicates a style id that is not registered
type UnknownStyleError struct {
	StyleID int
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown style: %d", e.StyleID)
}

// DuplicateStyleError indicates an attempt to register an id twice
type DuplicateStyleError struct {
	StyleID int
}

func (e *DuplicateStyleError) Error() string {
	return fmt.Sprintf("style %d is already registered", e.StyleID)
}

// InvalidStyleError indicates a style definition that cannot be registered
type InvalidStyleError struct {
	StyleID int
	Message string
}

func (e *InvalidStyleError) Error() string {
	return fmt.Sprintf("invalid style %d: %s", e.StyleID, e.Message)
}

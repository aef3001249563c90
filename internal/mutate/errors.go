package mutate

import (
	"errors"
	"fmt"
)

// ErrNotAuthor is returned when editing a record the user did not write.
var ErrNotAuthor = errors.New("only the author can edit this post")

// ValidationError rejects an action before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func errValidation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// StaleResponseError reports a response for a request whose pane or
// mutation has already been superseded. It is logged, never shown.
type StaleResponseError struct {
	What string
}

func (e *StaleResponseError) Error() string {
	return fmt.Sprintf("stale response dropped: %s", e.What)
}

// Stale builds a StaleResponseError and logs it.
func Stale(format string, args ...any) error {
	err := &StaleResponseError{What: fmt.Sprintf(format, args...)}
	log.Debugf("%v", err)
	return err
}

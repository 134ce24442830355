package page

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrGone reports a write against a document another operator removed.
	ErrGone = errors.New("no longer exists")

	ErrReadOnly = errors.New("page is read-only")
)

// ReadError is a failed Load. The previous snapshot stays in place.
type ReadError struct {
	Page string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Page, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a failed create/update/delete. The message of the
// underlying store error is kept verbatim.
type WriteError struct {
	Op   string
	Page string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Page, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ValidationError is raised before any store call is made.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError from a plain message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

func goneError(page, id string) error {
	return fmt.Errorf("%s %q %w. It may have been deleted by another operator", page, id, ErrGone)
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

// Validate checks the binding tags of a draft or form.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

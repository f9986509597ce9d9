package core

import "github.com/pkg/errors"

// ErrAborted is returned when a destructive operation was not confirmed.
var ErrAborted = errors.New("operation aborted")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PermissionError is returned when the acting identity may not perform an operation.
type PermissionError struct {
	message string
}

func NewPermissionError(msg string) error {
	return &PermissionError{message: msg}
}

func (err PermissionError) Error() string {
	return err.message
}

func IsPermissionDenied(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IOError wraps a failure to read uploaded content.
type IOError struct {
	Op  string
	Err error
}

func NewIOError(op string, err error) error {
	return &IOError{Op: op, Err: err}
}

func (err IOError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err IOError) Unwrap() error { return err.Err }

func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

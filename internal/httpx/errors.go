package httpx

import "net/http"

// Error is an HTTP-mapped error. Message is the user-facing string
// rendered as {"error": "..."}; Err is the underlying cause kept for
// server-side logging only.
type Error struct {
	Err     error
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Option attaches extra data to an Error.
type Option func(*Error)

// WithError records the underlying cause for logging.
func WithError(err error) Option {
	return func(e *Error) {
		e.Err = err
	}
}

func newError(code int, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrBadRequest marks missing or invalid input.
func ErrBadRequest(message string, opts ...Option) *Error {
	return newError(http.StatusBadRequest, message, opts...)
}

// ErrNotFound marks an unknown slug or id.
func ErrNotFound(message string, opts ...Option) *Error {
	return newError(http.StatusNotFound, message, opts...)
}

// ErrConflict marks duplicate slugs and restricted deletes.
func ErrConflict(message string, opts ...Option) *Error {
	return newError(http.StatusConflict, message, opts...)
}

// ErrInternal marks unclassified failures; the message shown to the
// client stays generic.
func ErrInternal(message string, opts ...Option) *Error {
	return newError(http.StatusInternalServerError, message, opts...)
}

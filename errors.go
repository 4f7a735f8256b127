package lpz

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind uint8

const (
	// SystemError means a lower layer failed; the Error wraps its cause.
	SystemError Kind = iota
	// InputError means the caller supplied bad data: empty or oversized
	// input, or a compressed stream that is truncated or corrupt.
	InputError
)

func (k Kind) String() string {
	switch k {
	case SystemError:
		return "system error"
	case InputError:
		return "input error"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Error is the error type returned by every stage.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // the underlying error, if any
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns an *Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of the given kind that wraps err.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}

// IsInput reports whether any *Error in err's chain is an InputError.
func IsInput(err error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == InputError {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

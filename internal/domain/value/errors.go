package value

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures surfaced by the value model.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindUnsupportedType ErrorKind = "unsupported_type"
	KindInvalidValue    ErrorKind = "invalid_value"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrInvalidValue    = errors.New("invalid value")
)

// Error is returned by every domain operation that rejects its input.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Kind)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Kind)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Kind)
	default:
		return string(e.Kind)
	}
}

// Is lets callers match on the package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUnsupportedType:
		return e.Kind == KindUnsupportedType
	case ErrInvalidValue:
		return e.Kind == KindInvalidValue
	default:
		return false
	}
}

func newError(kind ErrorKind, op, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(fmt.Sprintf(format, args...)),
	}
}

func NotFound(op, format string, args ...any) error {
	return newError(KindNotFound, op, format, args...)
}

func UnsupportedType(op, format string, args ...any) error {
	return newError(KindUnsupportedType, op, format, args...)
}

func InvalidValue(op, format string, args ...any) error {
	return newError(KindInvalidValue, op, format, args...)
}

// IsKind reports whether err (or anything it wraps) is a value *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// KindOf extracts the kind, or "" for errors that did not originate here.
func KindOf(err error) ErrorKind {
	var vErr *Error
	if !errors.As(err, &vErr) {
		return ""
	}
	return vErr.Kind
}

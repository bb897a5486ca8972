package domain

import (
	"errors"
	"strings"
)

// ErrRecordNotFound is returned by repositories when a lookup matches no row
var ErrRecordNotFound = errors.New("record not found")

// ErrorKind classifies business failures
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a business failure raised where it is detected and translated once at the HTTP edge
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return "validation failed: " + strings.Join(parts, "; ")
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewNotFound reports a referenced id that does not resolve
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConflict reports a business rule violation
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewUnauthenticated reports bad credentials or an unusable token
func NewUnauthenticated(message string, cause error) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message, Err: cause}
}

// NewInvalid reports malformed or missing request fields
func NewInvalid(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "invalid request", Fields: fields}
}

// KindOf returns the kind of a domain error anywhere in err's chain, or 0
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrorKind classifies an operation failure so the transport layer can map it
// to a status code without inspecting error identity.
type ErrorKind int

const (
	// KindUnexpected is any failure from the persistence boundary that is
	// not a business outcome
	KindUnexpected ErrorKind = iota
	// KindNotFound means a referenced entity does not exist, or is not
	// visible to the requesting user
	KindNotFound
	// KindInvalidRequest means the request is well-formed but violates a
	// business rule
	KindInvalidRequest
)

// Error is a tagged operation failure
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound builds a NotFound error
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidRequest builds an InvalidRequest error
func InvalidRequest(message string) error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

// Unexpected wraps an underlying failure with a contextual message
func Unexpected(message string, err error) error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUnexpected for untyped errors
func KindOf(err error) ErrorKind {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnexpected
}

// classify passes typed business outcomes through unaltered and classifies
// everything else. Constraint violations (postgres class 23) become
// InvalidRequest, since they mean the request referenced a nonexistent
// product or broke a business rule the schema enforces. Anything else is
// Unexpected.
func classify(message string, err error) error {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return &Error{Kind: KindInvalidRequest, Message: message, Err: err}
	}

	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

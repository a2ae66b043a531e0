package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so handlers can map them to
// HTTP statuses
type ErrorKind string

const (
	// KindUnauthorized: caller lacks the administrative capability
	KindUnauthorized ErrorKind = "unauthorized"

	// KindValidation: request parameters are missing or inconsistent
	KindValidation ErrorKind = "validation"

	// KindNotFound: a referenced member or alumni row does not exist
	KindNotFound ErrorKind = "not_found"

	// KindUpstream: a read or write against the store failed
	KindUpstream ErrorKind = "upstream"
)

// Error is a classified service error
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

// ErrUnauthorized builds an authorization error
func ErrUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// ErrValidation builds a validation error
func ErrValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ErrNotFound builds a not-found error
func ErrNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ErrUpstream wraps a store failure
func ErrUpstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf extracts the error kind; unclassified errors count as upstream
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUpstream
}

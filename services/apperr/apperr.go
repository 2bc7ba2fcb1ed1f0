// Package apperr is the error taxonomy shared by the room flows. Every failed
// user action ends in exactly one *Error; none of them are retried by callers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	// Bad local input, rejected before the store is touched
	KindValidation Kind = "validation"
	// Room or participant absent (or the room is inactive)
	KindNotFound Kind = "not_found"
	// Duplicate room code after all attempts, duplicate join, or a
	// transition the deployment policy forbids
	KindConflict Kind = "conflict"
	// Store unavailable or failing
	KindStore Kind = "store"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Store(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf reports the kind of err, KindStore for anything outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// HTTPStatus is the status code the API answers with for a kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

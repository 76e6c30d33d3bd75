package service

import (
	"errors"
	"fmt"

	"github.com/sahas06/Capstrone-project-VehicleManagementSystem/internal/vsm/repository"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrCapacityExhausted = errors.New("capacity exhausted")
	ErrUnprocessable     = errors.New("unprocessable")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Error domain error carrying the user-facing message
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

func conflictf(format string, args ...interface{}) *Error {
	return newError(ErrConflict, format, args...)
}

func forbidden(msg string) *Error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func unprocessablef(format string, args ...interface{}) *Error {
	return newError(ErrUnprocessable, format, args...)
}

// Messages shared between operations
const (
	msgRequestNotFound    = "Service Request not found"
	msgBillNotFound       = "Bill not found"
	msgModifiedConcurrent = "Service request was modified concurrently"
	msgNotAssignee        = "You are not assigned to this service request"
	msgNotOwner           = "You do not own this service request"
)

// lookup maps repository.ErrNotFound to a NotFound domain error with msg.
func lookup(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundf("%s", msg)
	}
	return err
}

// guarded maps a stale-version update to a Conflict.
func guarded(err error) error {
	if errors.Is(err, repository.ErrStaleVersion) {
		return conflictf(msgModifiedConcurrent)
	}
	return err
}

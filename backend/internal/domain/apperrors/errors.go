// Package apperrors holds the error taxonomy shared by the swipe and match engine.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is dispatch.
var (
	// ErrNotFound is returned when an actor or target lacks a projection.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFilter is returned when a preference filter carries unknown category codes.
	ErrInvalidFilter = errors.New("invalid preference filter")

	// ErrStoreUnavailable marks a transient persistence failure. Safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrForbidden is returned when an actor tries to act for an application it does not own.
	ErrForbidden = errors.New("forbidden")
)

// DefaultRetryAfter is the hint returned to callers on transient store failures.
const DefaultRetryAfter = 2 * time.Second

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidFilterError names the offending dimension and value.
type InvalidFilterError struct {
	Dimension string
	Value     string
	Reason    string
}

func (e *InvalidFilterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s filter value %q: %s", e.Dimension, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s filter value %q", e.Dimension, e.Value)
}

func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}

func NewInvalidFilterError(dimension, value, reason string) *InvalidFilterError {
	return &InvalidFilterError{Dimension: dimension, Value: value, Reason: reason}
}

// StoreUnavailableError wraps the transient cause of a failed store operation.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: store unavailable", e.Op)
	}
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func NewStoreUnavailableError(op string, err error) *StoreUnavailableError {
	return &StoreUnavailableError{Op: op, Err: err}
}

// ForbiddenError names the actor and the resource it was refused.
type ForbiddenError struct {
	ActorID       int64
	ApplicationID int64
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("actor %d does not own application %d", e.ActorID, e.ApplicationID)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

func NewForbiddenError(actorID, applicationID int64) *ForbiddenError {
	return &ForbiddenError{ActorID: actorID, ApplicationID: applicationID}
}

// IsRetryable reports whether err is a transient failure the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsContextError reports whether err was caused by cancellation or deadline expiry.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

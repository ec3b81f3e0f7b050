package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no route matches the requested identifier.
// It is a result, not a failure: callers distinguish it from StorageError.
var ErrNotFound = errors.New("route not found")

// ValidationError reports request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ConflictError is returned when inserting a route violates the route_id
// uniqueness constraint.
type ConflictError struct {
	RouteID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("route with routeId %q already exists", e.RouteID)
}

// StorageError wraps a failure from the underlying document store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

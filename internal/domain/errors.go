// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the operation would violate a one-way state
// transition, such as answering an already-answered pending item.
var ErrConflict = errors.New("conflict: item already answered")

// ErrValidation indicates the request payload failed validation.
var ErrValidation = errors.New("validation failed")

// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package clevercloud

import (
	"errors"
	"fmt"
	"time"
)

// The gateway normalizes every transport-level failure into one of these
// taxonomy members (spec.md §4.2, "Error taxonomy the gateway normalizes
// into"). The reconciler (C5) branches on taxonomy, never on raw HTTP
// status codes or the underlying transport error.

// NotFoundError means a lookup against a specific id returned 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("clevercloud: %s %q not found", e.Resource, e.ID)
}

// ConflictError means a create request collided with an existing resource
// of the same name.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("clevercloud: name %q already in use", e.Name)
}

// UnauthorizedError means the configured credentials were rejected.
type UnauthorizedError struct {
	Detail string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("clevercloud: unauthorized: %s", e.Detail)
}

// RateLimitedError means the vendor responded 429. RetryAfter is zero when
// the vendor did not send a Retry-After header, in which case the caller
// should fall back to its own default backoff.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("clevercloud: rate limited, retry after %s", e.RetryAfter)
}

// TransientError wraps a 5xx response, a network error, or a timeout: the
// same request might succeed if retried later, with no state change
// required first.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("clevercloud: transient: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError wraps a 4xx response that is not NotFound/Conflict/
// Unauthorized/RateLimited — a bad spec or an unknown region/plan code.
// Retrying without a spec change will not help (spec.md §4.5, "Permanent").
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("clevercloud: permanent: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// MalformedError means the vendor's response body could not be decoded into
// the shape the gateway expects.
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string { return fmt.Sprintf("clevercloud: malformed response: %v", e.Err) }
func (e *MalformedError) Unwrap() error { return e.Err }

// IsNotFound reports whether err (or something it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsUnauthorized reports whether err is an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

// AsRateLimited extracts a RateLimitedError from err, if present.
func AsRateLimited(err error) (*RateLimitedError, bool) {
	var e *RateLimitedError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsTransient reports whether err is a TransientError.
func IsTransient(err error) bool {
	var e *TransientError
	return errors.As(err, &e)
}

// IsPermanent reports whether err is a PermanentError.
func IsPermanent(err error) bool {
	var e *PermanentError
	return errors.As(err, &e)
}

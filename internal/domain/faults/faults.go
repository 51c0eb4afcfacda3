// Package faults defines the error taxonomy every store and handler in
// the application shares.
//
// The categories matter more than the messages: handlers decide what to
// show the user (and whether any state changed) by category alone.
//
//   - ValidationError: rejected locally before any database call. Nothing
//     changed; the user corrects the form and retries.
//   - AuthError: credentials or session were rejected.
//   - FetchError: a read failed. The whole fetch is abandoned; there is
//     no partial-result fallback.
//   - MutationError: a write was rejected. No state is assumed changed.
//   - StorageError: a blob operation failed. Reads are fatal to the
//     enclosing operation; a failed blob delete during review removal is
//     logged and the row delete proceeds anyway.
package faults

import (
	"errors"
	"fmt"
)

// ValidationError reports a bad input field, caught before any network
// or database call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError reports rejected credentials or a rejected session.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// Auth builds an AuthError.
func Auth(reason string, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

// FetchError wraps a failed read.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Fetch wraps err as a FetchError. Returns nil if err is nil.
func Fetch(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Op: op, Err: err}
}

// MutationError wraps a failed write.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string { return fmt.Sprintf("mutate %s: %v", e.Op, e.Err) }
func (e *MutationError) Unwrap() error { return e.Err }

// Mutation wraps err as a MutationError. Returns nil if err is nil.
func Mutation(op string, err error) error {
	if err == nil {
		return nil
	}
	return &MutationError{Op: op, Err: err}
}

// StorageError wraps a failed blob operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError. Returns nil if err is nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError and
// returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) (*AuthError, bool) {
	var ae *AuthError
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsFetch reports whether err is (or wraps) a FetchError.
func IsFetch(err error) (*FetchError, bool) {
	var fe *FetchError
	ok := errors.As(err, &fe)
	return fe, ok
}

// IsMutation reports whether err is (or wraps) a MutationError.
func IsMutation(err error) (*MutationError, bool) {
	var me *MutationError
	ok := errors.As(err, &me)
	return me, ok
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) (*StorageError, bool) {
	var se *StorageError
	ok := errors.As(err, &se)
	return se, ok
}

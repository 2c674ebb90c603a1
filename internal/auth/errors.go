// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package auth

import (
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by repositories when the unique email constraint rejects an insert.
var ErrEmailTaken = errors.New("email already registered")

// Kind classifies a service failure.
type Kind string

// Failure kinds.
const (
	KindValidation         Kind = "validation"
	KindConflict           Kind = "conflict"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNotFound           Kind = "not_found"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindUpstream           Kind = "upstream"
	KindInternal           Kind = "internal"
)

// Public messages returned to callers.
const (
	MsgMissingDetails     = "Please fill all details"
	MsgInvalidRole        = "Invalid role specified"
	MsgResumeRequired     = "Resume file required for jobseekers"
	MsgEmailTaken         = "User with this email already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgMissingEmail       = "Please enter your email"
	MsgMissingPassword    = "Please enter a new password"
	MsgInvalidResetToken  = "Token Expired or Invalid"
	MsgUserNotFound       = "User not found"
	MsgAuthRequired       = "Authentication Required"
	MsgUploadFailed       = "Failed to upload file"
	MsgInternal           = "Something went wrong"
)

// Failure is the single error shape returned by service operations.
// Message is safe to show to the caller; Err holds the internal cause.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind Kind, msg string, err error) *Failure {
	return &Failure{Kind: kind, Message: msg, Err: err}
}

// ValidationFailure reports missing or malformed input.
func ValidationFailure(msg string) *Failure {
	return newFailure(KindValidation, msg, nil)
}

// NotFoundFailure reports a missing entity.
func NotFoundFailure(msg string, err error) *Failure {
	return newFailure(KindNotFound, msg, err)
}

// ConflictFailure reports a write that collides with existing state.
func ConflictFailure(msg string, err error) *Failure {
	return newFailure(KindConflict, msg, err)
}

// ForbiddenFailure reports an authenticated caller whose role does not allow the operation.
func ForbiddenFailure(msg string) *Failure {
	return newFailure(KindForbidden, msg, nil)
}

// UpstreamFailure reports a failing external dependency.
func UpstreamFailure(msg string, err error) *Failure {
	return newFailure(KindUpstream, msg, err)
}

// InternalFailure wraps an unexpected error.
func InternalFailure(err error) *Failure {
	return newFailure(KindInternal, MsgInternal, err)
}

// KindOf classifies err. Errors that are not a *Failure are internal.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return MsgInternal
}

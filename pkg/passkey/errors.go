// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package passkey

import (
	"errors"
	"fmt"
)

// Sentinel errors for ceremony operations.
var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrChallengeNotFound is returned when no pending challenge exists for
	// a (user, ceremony) pair. A consume race lost to a concurrent request
	// surfaces as this same error on purpose: callers cannot distinguish
	// "never issued" from "already consumed".
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrChallengeExpired is returned when the pending challenge exists but
	// its expiry has passed. The challenge is removed regardless.
	ErrChallengeExpired = errors.New("challenge expired")

	// ErrNoCredential is returned when an authentication ceremony is
	// completed for a user that has no registered credential.
	ErrNoCredential = errors.New("user has no registered credential")

	// ErrVerificationFailed is returned when the cryptographic verifier
	// rejects an attestation or assertion response.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrReplayDetected specializes ErrVerificationFailed: the reported
	// signature counter did not strictly increase, indicating a replayed
	// assertion or a cloned authenticator.
	ErrReplayDetected = fmt.Errorf("%w: signature counter did not increase", ErrVerificationFailed)

	// ErrStoreUnavailable is returned when a pluggable store backend cannot
	// serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidRequest is returned when a request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotConfigured is returned when the service is not properly configured.
	ErrNotConfigured = errors.New("passkey service not configured")
)

// CeremonyError wraps an error with the ceremony operation that failed.
type CeremonyError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

// Error returns the error message.
func (e *CeremonyError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CeremonyError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches.
func (e *CeremonyError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new CeremonyError with the given operation and error.
func NewError(op string, err error) error {
	return &CeremonyError{
		Op:  op,
		Err: err,
	}
}

// WrapError wraps an error with an operation name if it's not nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(op, err)
}

// IsUserNotFound returns true if the error indicates a user was not found.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsChallengeNotFound returns true if the error indicates no pending challenge.
func IsChallengeNotFound(err error) bool {
	return errors.Is(err, ErrChallengeNotFound)
}

// IsChallengeExpired returns true if the error indicates the challenge expired.
func IsChallengeExpired(err error) bool {
	return errors.Is(err, ErrChallengeExpired)
}

// IsNoCredential returns true if the error indicates a missing credential.
func IsNoCredential(err error) bool {
	return errors.Is(err, ErrNoCredential)
}

// IsVerificationFailed returns true if the error indicates verification failed.
// Replay detections match as well, since ErrReplayDetected wraps
// ErrVerificationFailed.
func IsVerificationFailed(err error) bool {
	return errors.Is(err, ErrVerificationFailed)
}

// IsReplayDetected returns true if the error indicates a counter replay.
func IsReplayDetected(err error) bool {
	return errors.Is(err, ErrReplayDetected)
}

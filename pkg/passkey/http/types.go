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

package http

import "encoding/json"

// RegisterRequest is the request body for creating a user.
type RegisterRequest struct {
	// Username is the display name presented to the authenticator (required).
	Username string `json:"username"`

	// Password is accepted for wire compatibility with credential-form
	// clients but is never stored or checked; authentication is passwordless.
	Password string `json:"password,omitempty"`
}

// RegisterResponse is the response after creating a user.
type RegisterResponse struct {
	// ID is the server-assigned user identifier. Clients present it on every
	// subsequent ceremony request.
	ID string `json:"id"`
}

// ChallengeRequest is the request body for starting a ceremony.
type ChallengeRequest struct {
	// UserID is the identifier returned by the register endpoint (required).
	UserID string `json:"userId"`
}

// OptionsResponse wraps the WebAuthn ceremony options sent to the client.
type OptionsResponse struct {
	// Options is the PublicKeyCredentialCreationOptions or
	// PublicKeyCredentialRequestOptions to pass to the browser API.
	Options any `json:"options"`
}

// VerifyRequest is the request body for completing a ceremony.
type VerifyRequest struct {
	// UserID is the identifier returned by the register endpoint (required).
	UserID string `json:"userId"`

	// Cred is the raw attestation or assertion response produced by the
	// authenticator (required).
	Cred json.RawMessage `json:"cred"`
}

// VerifyResponse is the response after a successful ceremony completion.
type VerifyResponse struct {
	// Verified is true when the ceremony completed successfully.
	Verified bool `json:"verified"`
}

// ErrorResponse is the response format for errors.
type ErrorResponse struct {
	// Error is the error code.
	Error string `json:"error"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeUserNotFound       = "user_not_found"
	ErrorCodeChallengeNotFound  = "challenge_not_found"
	ErrorCodeChallengeExpired   = "challenge_expired"
	ErrorCodeNoCredential       = "no_credential"
	ErrorCodeVerificationFailed = "verification_failed"
	ErrorCodeReplayDetected     = "replay_detected"
	ErrorCodeStoreUnavailable   = "store_unavailable"
	ErrorCodeInternalError      = "internal_error"
)

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
	"context"

	"github.com/go-webauthn/webauthn/protocol"
)

// UserStore is the interface applications implement for user persistence.
// Implementations must make AttachCredential and UpdateCounter atomic with
// respect to concurrent reads and writes of the same user; operations on
// different users are independent and need no cross-user ordering.
type UserStore interface {
	// Create allocates a new unique user ID and stores the record.
	// Usernames are not required to be unique.
	Create(ctx context.Context, username string) (*User, error)

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	Get(ctx context.Context, userID string) (*User, error)

	// AttachCredential sets the user's credential, overwriting any existing
	// one (registration is re-runnable; last write wins).
	// Returns ErrUserNotFound if the user does not exist.
	AttachCredential(ctx context.Context, userID string, cred *Credential) error

	// UpdateCounter mutates only the signature counter of the user's
	// credential. Returns ErrUserNotFound or ErrNoCredential.
	UpdateCounter(ctx context.Context, userID string, newCount uint32) error
}

// ChallengeStore holds at most one pending challenge per (user, ceremony)
// pair. Issue and Consume must be linearizable per key: two concurrent
// Consume calls for the same key race, and only one may observe the
// challenge.
type ChallengeStore interface {
	// Issue binds the given challenge value to (userID, ceremony) and
	// computes its expiry, overwriting any prior entry for that key. Any
	// in-flight verification against the old value will fail with
	// ErrChallengeNotFound.
	Issue(ctx context.Context, userID string, ceremony CeremonyType, value string) (*Challenge, error)

	// Consume atomically fetches and removes the pending challenge.
	// Returns ErrChallengeNotFound if absent (or the caller lost a consume
	// race) and ErrChallengeExpired if present but past expiry; the entry
	// is removed in both the success and expired cases.
	Consume(ctx context.Context, userID string, ceremony CeremonyType) (*Challenge, error)
}

// Verifier is the external cryptographic engine that parses and validates
// attestation and assertion objects. The orchestrator treats it as opaque:
// it generates ceremony options carrying a fresh challenge, and it renders a
// verdict on responses given the expected challenge. Origin and RP-ID
// binding are the verifier's concern.
type Verifier interface {
	// GenerateRegistrationOptions produces credential creation options for
	// the user and returns them together with the embedded challenge value.
	GenerateRegistrationOptions(ctx context.Context, user *User) (*protocol.CredentialCreation, string, error)

	// VerifyRegistration validates an attestation response against the
	// expected challenge and returns the credential to store.
	VerifyRegistration(ctx context.Context, user *User, expectedChallenge string, response *protocol.ParsedCredentialCreationData) (*Credential, error)

	// GenerateAuthenticationOptions produces credential request options and
	// returns them together with the embedded challenge value. The user may
	// not yet hold a credential.
	GenerateAuthenticationOptions(ctx context.Context, user *User) (*protocol.CredentialAssertion, string, error)

	// VerifyAuthentication validates an assertion response against the
	// expected challenge and the user's stored credential, and reports the
	// authenticator's signature counter.
	VerifyAuthentication(ctx context.Context, user *User, expectedChallenge string, response *protocol.ParsedCredentialAssertionData) (*AssertionResult, error)
}

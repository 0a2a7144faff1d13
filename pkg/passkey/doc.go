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

// Package passkey provides server-side passwordless authentication with
// WebAuthn passkeys, usable as a library in any Go application.
//
// The package orchestrates the two WebAuthn ceremonies - credential
// registration and credential authentication - as challenge/response cycles:
//   - Begin* issues ceremony options carrying a fresh random challenge and
//     records it as the single pending challenge for that user and ceremony
//   - Finish* consumes the pending challenge exactly once, verifies the
//     client's signed response, and commits the result
//
// Challenges are single-use and type-scoped: a consumed, expired, or
// overwritten challenge can never satisfy a later completion, and a
// registration challenge can never complete an authentication. Successful
// authentications additionally enforce a strictly-increasing signature
// counter, rejecting replayed assertions and cloned authenticators with
// ErrReplayDetected.
//
// # Architecture
//
// The package is designed with a layered architecture:
//
//  1. Service layer (Service) - ceremony orchestration and replay defense
//  2. Storage layer (UserStore, ChallengeStore) - pluggable persistence
//  3. Verifier layer (Verifier, WebAuthnVerifier) - cryptographic validation
//  4. HTTP layer (pkg/passkey/http) - composable HTTP handlers
//
// # Usage
//
// Basic usage with in-memory storage (for development):
//
//	verifier, err := passkey.NewWebAuthnVerifier(&passkey.Config{
//	    RPID:          "localhost",
//	    RPDisplayName: "My App",
//	    RPOrigins:     []string{"https://localhost:3000"},
//	})
//
//	svc, err := passkey.NewService(passkey.ServiceParams{
//	    Config:         verifier.Config(),
//	    UserStore:      passkey.NewMemoryUserStore(),
//	    ChallengeStore: passkey.NewMemoryChallengeStore(),
//	    Verifier:       verifier,
//	})
//
// For production, implement the storage interfaces with your database.
//
// # WebAuthn Specification Compliance
//
// Cryptographic verification is delegated to go-webauthn/webauthn, which
// follows the W3C Web Authentication specification:
//   - https://www.w3.org/TR/webauthn-2/
//   - https://www.w3.org/TR/webauthn-3/
//
// Note: WebAuthn requires HTTPS for all operations. Browsers will only
// expose the WebAuthn API in secure contexts.
package passkey

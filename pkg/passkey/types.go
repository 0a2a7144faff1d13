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
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// CeremonyType identifies which ceremony a challenge was issued for.
// Challenges are type-scoped: a registration challenge can never satisfy an
// authentication completion, and vice versa.
type CeremonyType string

const (
	// CeremonyRegistration is the credential registration ceremony.
	CeremonyRegistration CeremonyType = "registration"

	// CeremonyAuthentication is the credential authentication ceremony.
	CeremonyAuthentication CeremonyType = "authentication"
)

// User is an identity record owned by the user registry. The embedded
// credential is absent until a registration ceremony succeeds.
type User struct {
	// ID is an opaque unique identifier assigned at creation. Immutable.
	ID string `json:"id"`

	// Username is the display name presented to the authenticator. Not
	// required to be unique; see the registry documentation.
	Username string `json:"username"`

	// Credential is the user's registered public-key credential, or nil.
	Credential *Credential `json:"credential,omitempty"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Credential = u.Credential.Clone()
	return &clone
}

// Credential is the public-key record stored by the Relying Party after a
// successful registration ceremony.
type Credential struct {
	// ID is the credential identifier assigned by the authenticator.
	ID []byte `json:"id"`

	// PublicKey is the credential's public key in COSE format.
	PublicKey []byte `json:"public_key"`

	// AttestationType indicates the type of attestation used.
	AttestationType string `json:"attestation_type"`

	// Transport lists the transports supported by the authenticator.
	Transport []protocol.AuthenticatorTransport `json:"transport,omitempty"`

	// SignCount is the authenticator-reported signature counter, used for
	// clone detection. Monotonically non-decreasing across successful
	// authentications.
	SignCount uint32 `json:"sign_count"`

	// CreatedAt is when the credential was registered.
	CreatedAt time.Time `json:"created_at"`

	// LastUsedAt is when the credential was last used for authentication.
	LastUsedAt time.Time `json:"last_used_at,omitempty"`
}

// Clone returns a deep copy of the credential.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	clone := *c
	clone.ID = append([]byte(nil), c.ID...)
	clone.PublicKey = append([]byte(nil), c.PublicKey...)
	clone.Transport = append([]protocol.AuthenticatorTransport(nil), c.Transport...)
	return &clone
}

// ToWebAuthn converts the credential to the go-webauthn library's type.
func (c *Credential) ToWebAuthn() webauthn.Credential {
	return webauthn.Credential{
		ID:              c.ID,
		PublicKey:       c.PublicKey,
		AttestationType: c.AttestationType,
		Transport:       c.Transport,
		Authenticator: webauthn.Authenticator{
			SignCount: c.SignCount,
		},
	}
}

// CredentialFromWebAuthn creates a Credential from the go-webauthn type.
func CredentialFromWebAuthn(wc *webauthn.Credential) *Credential {
	return &Credential{
		ID:              wc.ID,
		PublicKey:       wc.PublicKey,
		AttestationType: wc.AttestationType,
		Transport:       wc.Transport,
		SignCount:       wc.Authenticator.SignCount,
		CreatedAt:       time.Now().UTC(),
	}
}

// Challenge is a single-use random token binding one pending ceremony to a
// user. At most one challenge is live per (user, ceremony) pair.
type Challenge struct {
	// Value is the base64url-encoded challenge embedded in the ceremony
	// options sent to the client.
	Value string `json:"value"`

	// UserID is the user the challenge is bound to.
	UserID string `json:"user_id"`

	// Ceremony scopes the challenge to registration or authentication.
	Ceremony CeremonyType `json:"ceremony"`

	// ExpiresAt is the issuance time plus the configured challenge timeout.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge expiry has passed at the given time.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// AssertionResult is the verifier's verdict on an authentication response.
type AssertionResult struct {
	// NewCount is the signature counter reported by the authenticator.
	NewCount uint32

	// CounterSupported distinguishes "authenticator has no counter" (both
	// the reported and stored counters are zero) from a genuine zero. The
	// orchestrator applies the monotonicity check only when true, so
	// counter-less authenticators are not falsely rejected.
	CounterSupported bool

	// CloneWarning is set when the verifier itself observed a counter
	// regression.
	CloneWarning bool
}

// ceremonyUser adapts a User to the webauthn.User interface expected by the
// go-webauthn library.
type ceremonyUser struct {
	user *User
}

// WebAuthnID returns the user handle.
func (u *ceremonyUser) WebAuthnID() []byte {
	return []byte(u.user.ID)
}

// WebAuthnName returns the username.
func (u *ceremonyUser) WebAuthnName() string {
	return u.user.Username
}

// WebAuthnDisplayName returns the name shown by the authenticator UI.
func (u *ceremonyUser) WebAuthnDisplayName() string {
	return u.user.Username
}

// WebAuthnCredentials returns the user's registered credential, if any.
func (u *ceremonyUser) WebAuthnCredentials() []webauthn.Credential {
	if u.user.Credential == nil {
		return nil
	}
	return []webauthn.Credential{u.user.Credential.ToWebAuthn()}
}

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
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// WebAuthnVerifier implements Verifier on top of the go-webauthn library.
// It owns everything cryptographic: attestation and assertion parsing,
// signature validation, and origin/RP-ID binding. The orchestrator sees only
// options, challenge values, and verdicts.
type WebAuthnVerifier struct {
	webauthn *webauthn.WebAuthn
	config   *Config
}

// NewWebAuthnVerifier creates a verifier for the given relying-party
// configuration.
func NewWebAuthnVerifier(config *Config) (*WebAuthnVerifier, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	wa, err := webauthn.New(config.ToWebAuthnConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn instance: %w", err)
	}

	return &WebAuthnVerifier{
		webauthn: wa,
		config:   config,
	}, nil
}

// Config returns the relying-party configuration, with defaults applied.
func (v *WebAuthnVerifier) Config() *Config {
	return v.config
}

// GenerateRegistrationOptions produces credential creation options with a
// fresh library-generated challenge. An existing credential is put on the
// exclude list so the same authenticator is not registered twice.
func (v *WebAuthnVerifier) GenerateRegistrationOptions(ctx context.Context, user *User) (*protocol.CredentialCreation, string, error) {
	wu := &ceremonyUser{user: user}

	var opts []webauthn.RegistrationOption
	if user.Credential != nil {
		opts = append(opts, webauthn.WithExclusions([]protocol.CredentialDescriptor{{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: user.Credential.ID,
			Transport:    user.Credential.Transport,
		}}))
	}

	options, session, err := v.webauthn.BeginRegistration(wu, opts...)
	if err != nil {
		return nil, "", err
	}

	return options, session.Challenge, nil
}

// VerifyRegistration validates an attestation response against the expected
// challenge and returns the credential to store with its initial counter.
func (v *WebAuthnVerifier) VerifyRegistration(ctx context.Context, user *User, expectedChallenge string, response *protocol.ParsedCredentialCreationData) (*Credential, error) {
	wu := &ceremonyUser{user: user}
	session := v.session(wu.WebAuthnID(), expectedChallenge)

	credential, err := v.webauthn.CreateCredential(wu, session, response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	return CredentialFromWebAuthn(credential), nil
}

// GenerateAuthenticationOptions produces credential request options with a
// fresh challenge. A user without a credential gets discoverable-credential
// options (empty allow list); enforcement of credential presence belongs to
// the completion step.
func (v *WebAuthnVerifier) GenerateAuthenticationOptions(ctx context.Context, user *User) (*protocol.CredentialAssertion, string, error) {
	var (
		options *protocol.CredentialAssertion
		session *webauthn.SessionData
		err     error
	)

	if user.Credential != nil {
		options, session, err = v.webauthn.BeginLogin(&ceremonyUser{user: user})
	} else {
		options, session, err = v.webauthn.BeginDiscoverableLogin()
	}
	if err != nil {
		return nil, "", err
	}

	return options, session.Challenge, nil
}

// VerifyAuthentication validates an assertion response against the expected
// challenge and the stored credential. The result carries the reported
// signature counter and whether a counter scheme is in use at all; the
// monotonicity decision is the orchestrator's.
func (v *WebAuthnVerifier) VerifyAuthentication(ctx context.Context, user *User, expectedChallenge string, response *protocol.ParsedCredentialAssertionData) (*AssertionResult, error) {
	if user.Credential == nil {
		return nil, ErrNoCredential
	}

	wu := &ceremonyUser{user: user}
	session := v.session(wu.WebAuthnID(), expectedChallenge)

	credential, err := v.webauthn.ValidateLogin(wu, session, response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	reported := response.Response.AuthenticatorData.Counter

	return &AssertionResult{
		NewCount: reported,
		// An authenticator with no counter always reports zero. Only when
		// both the reported and stored counters are zero is the scheme
		// treated as unsupported.
		CounterSupported: reported != 0 || user.Credential.SignCount != 0,
		CloneWarning:     credential.Authenticator.CloneWarning,
	}, nil
}

// session reconstructs the library session state from the consumed
// challenge. The challenge store is the source of truth for expiry; the
// session expiry mirrors the configured timeout so the library's own check
// never fires first.
func (v *WebAuthnVerifier) session(userID []byte, challenge string) webauthn.SessionData {
	session := webauthn.SessionData{
		Challenge: challenge,
		UserID:    userID,
		Expires:   time.Now().Add(v.config.ChallengeTimeout),
	}
	if v.config.UserVerification == "required" {
		session.UserVerification = protocol.VerificationRequired
	}
	return session
}

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
	"errors"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
)

// Service orchestrates passkey registration and authentication ceremonies.
//
// Each ceremony is a challenge-issue/response-verify cycle: Begin* asks the
// verifier for options carrying a fresh challenge and records it in the
// challenge store; Finish* consumes the pending challenge exactly once,
// delegates to the verifier, and commits the outcome to the user store. All
// ceremony errors are terminal for the request; the caller restarts from
// Begin*, which issues a fresh challenge.
type Service struct {
	config     *Config
	users      UserStore
	challenges ChallengeStore
	verifier   Verifier
	configured bool
}

// ServiceParams contains dependencies for creating a passkey service.
type ServiceParams struct {
	// Config is the relying-party configuration (required).
	Config *Config

	// UserStore is the user persistence layer (required).
	UserStore UserStore

	// ChallengeStore is the pending-challenge store (required).
	ChallengeStore ChallengeStore

	// Verifier is the cryptographic verification engine (required).
	Verifier Verifier
}

// NewService creates a new passkey service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.UserStore == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if params.ChallengeStore == nil {
		return nil, fmt.Errorf("challenge store is required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}

	params.Config.SetDefaults()
	if err := params.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		config:     params.Config,
		users:      params.UserStore,
		challenges: params.ChallengeStore,
		verifier:   params.Verifier,
		configured: true,
	}, nil
}

// CreateUser registers a new user identity and returns it. The user holds no
// credential until a registration ceremony completes. Username uniqueness is
// not enforced.
func (s *Service) CreateUser(ctx context.Context, username string) (*User, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	user, err := s.users.Create(ctx, username)
	if err != nil {
		return nil, WrapError("create user", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	return s.users.Get(ctx, userID)
}

// BeginRegistration starts the registration ceremony for the user. The
// returned options carry the challenge the client must sign; the same value
// is recorded as the single pending registration challenge for the user,
// invalidating any prior one.
func (s *Service) BeginRegistration(ctx context.Context, userID string) (*protocol.CredentialCreation, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, WrapError("begin registration", err)
	}

	options, challenge, err := s.verifier.GenerateRegistrationOptions(ctx, user)
	if err != nil {
		return nil, WrapError("generate registration options", err)
	}

	if _, err := s.challenges.Issue(ctx, user.ID, CeremonyRegistration, challenge); err != nil {
		return nil, WrapError("issue registration challenge", err)
	}

	// Options pass through unmodified; the orchestrator interprets nothing
	// beyond the challenge.
	return options, nil
}

// FinishRegistration completes the registration ceremony. The pending
// challenge is consumed before verification, so a failed attempt cannot be
// retried with the same challenge. On success the credential is attached to
// the user atomically, overwriting any previous credential.
func (s *Service) FinishRegistration(ctx context.Context, userID string, response *protocol.ParsedCredentialCreationData) error {
	if !s.configured {
		return ErrNotConfigured
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return WrapError("finish registration", err)
	}

	challenge, err := s.challenges.Consume(ctx, user.ID, CeremonyRegistration)
	if err != nil {
		return WrapError("consume registration challenge", err)
	}

	cred, err := s.verifier.VerifyRegistration(ctx, user, challenge.Value, response)
	if err != nil {
		return verificationError("verify registration", err)
	}

	if err := s.users.AttachCredential(ctx, user.ID, cred); err != nil {
		return WrapError("attach credential", err)
	}

	return nil
}

// BeginAuthentication starts the authentication ceremony for the user. A
// credential is not required at this stage (only FinishAuthentication
// enforces it), matching the option-generation contract.
func (s *Service) BeginAuthentication(ctx context.Context, userID string) (*protocol.CredentialAssertion, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, WrapError("begin authentication", err)
	}

	options, challenge, err := s.verifier.GenerateAuthenticationOptions(ctx, user)
	if err != nil {
		return nil, WrapError("generate authentication options", err)
	}

	if _, err := s.challenges.Issue(ctx, user.ID, CeremonyAuthentication, challenge); err != nil {
		return nil, WrapError("issue authentication challenge", err)
	}

	return options, nil
}

// FinishAuthentication completes the authentication ceremony. Beyond the
// verifier's verdict, the orchestrator enforces the signature-counter replay
// defense: whenever the counter scheme is in use, the reported counter must
// strictly exceed the stored one or the ceremony fails with
// ErrReplayDetected and no state is mutated. On acceptance the stored
// counter is updated to exactly the reported value.
func (s *Service) FinishAuthentication(ctx context.Context, userID string, response *protocol.ParsedCredentialAssertionData) error {
	if !s.configured {
		return ErrNotConfigured
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return WrapError("finish authentication", err)
	}
	if user.Credential == nil {
		return WrapError("finish authentication", ErrNoCredential)
	}

	challenge, err := s.challenges.Consume(ctx, user.ID, CeremonyAuthentication)
	if err != nil {
		return WrapError("consume authentication challenge", err)
	}

	result, err := s.verifier.VerifyAuthentication(ctx, user, challenge.Value, response)
	if err != nil {
		return verificationError("verify authentication", err)
	}

	if result.CloneWarning {
		return WrapError("verify authentication", ErrReplayDetected)
	}
	if result.CounterSupported && result.NewCount <= user.Credential.SignCount {
		return WrapError("verify authentication", ErrReplayDetected)
	}

	if err := s.users.UpdateCounter(ctx, user.ID, result.NewCount); err != nil {
		return WrapError("update signature counter", err)
	}

	return nil
}

// Config returns the service configuration.
func (s *Service) Config() *Config {
	return s.config
}

// verificationError folds verifier errors into the taxonomy: anything the
// verifier rejects surfaces as ErrVerificationFailed unless it already
// matches a sentinel.
func verificationError(op string, err error) error {
	if errors.Is(err, ErrVerificationFailed) {
		return WrapError(op, err)
	}
	return WrapError(op, fmt.Errorf("%w: %v", ErrVerificationFailed, err))
}

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
	"testing"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "missing RPID",
			config:  Config{RPDisplayName: "Example", RPOrigins: []string{"https://example.com"}},
			wantErr: "RPID is required",
		},
		{
			name:    "missing display name",
			config:  Config{RPID: "example.com", RPOrigins: []string{"https://example.com"}},
			wantErr: "RPDisplayName is required",
		},
		{
			name:    "missing origins",
			config:  Config{RPID: "example.com", RPDisplayName: "Example"},
			wantErr: "at least one RPOrigin is required",
		},
		{
			name: "negative challenge timeout",
			config: Config{
				RPID:             "example.com",
				RPDisplayName:    "Example",
				RPOrigins:        []string{"https://example.com"},
				ChallengeTimeout: -time.Second,
			},
			wantErr: "challenge timeout must not be negative",
		},
		{
			name: "invalid user verification",
			config: Config{
				RPID:             "example.com",
				RPDisplayName:    "Example",
				RPOrigins:        []string{"https://example.com"},
				UserVerification: "always",
			},
			wantErr: "invalid user verification",
		},
		{
			name: "invalid attestation preference",
			config: Config{
				RPID:                  "example.com",
				RPDisplayName:         "Example",
				RPOrigins:             []string{"https://example.com"},
				AttestationPreference: "full",
			},
			wantErr: "invalid attestation preference",
		},
		{
			name: "valid minimal",
			config: Config{
				RPID:          "example.com",
				RPDisplayName: "Example",
				RPOrigins:     []string{"https://example.com"},
			},
		},
		{
			name: "valid full",
			config: Config{
				RPID:                  "example.com",
				RPDisplayName:         "Example",
				RPOrigins:             []string{"https://example.com", "https://www.example.com"},
				ChallengeTimeout:      time.Minute,
				UserVerification:      "required",
				AttestationPreference: "direct",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	config := &Config{}
	config.SetDefaults()

	assert.Equal(t, DefaultChallengeTimeout, config.ChallengeTimeout)
	assert.Equal(t, "preferred", config.UserVerification)
	assert.Equal(t, "none", config.AttestationPreference)
}

func TestConfig_SetDefaults_PreservesExisting(t *testing.T) {
	config := &Config{
		ChallengeTimeout:      time.Minute,
		UserVerification:      "required",
		AttestationPreference: "direct",
	}
	config.SetDefaults()

	assert.Equal(t, time.Minute, config.ChallengeTimeout)
	assert.Equal(t, "required", config.UserVerification)
	assert.Equal(t, "direct", config.AttestationPreference)
}

func TestConfig_ToWebAuthnConfig(t *testing.T) {
	config := &Config{
		RPID:                  "example.com",
		RPDisplayName:         "Example",
		RPOrigins:             []string{"https://example.com"},
		ChallengeTimeout:      45 * time.Second,
		UserVerification:      "required",
		AttestationPreference: "direct",
		Debug:                 true,
	}

	wc := config.ToWebAuthnConfig()
	assert.Equal(t, "example.com", wc.RPID)
	assert.Equal(t, "Example", wc.RPDisplayName)
	assert.Equal(t, []string{"https://example.com"}, wc.RPOrigins)
	assert.True(t, wc.Debug)

	assert.True(t, wc.Timeouts.Login.Enforce)
	assert.Equal(t, 45*time.Second, wc.Timeouts.Login.Timeout)
	assert.True(t, wc.Timeouts.Registration.Enforce)
	assert.Equal(t, 45*time.Second, wc.Timeouts.Registration.Timeout)

	assert.Equal(t, protocol.PreferDirectAttestation, wc.AttestationPreference)
	assert.Equal(t, protocol.VerificationRequired, wc.AuthenticatorSelection.UserVerification)
}

func TestConfig_ToWebAuthnConfig_Defaults(t *testing.T) {
	config := &Config{
		RPID:          "example.com",
		RPDisplayName: "Example",
		RPOrigins:     []string{"https://example.com"},
	}
	config.SetDefaults()

	wc := config.ToWebAuthnConfig()
	assert.Equal(t, protocol.PreferNoAttestation, wc.AttestationPreference)
	assert.Equal(t, protocol.VerificationPreferred, wc.AuthenticatorSelection.UserVerification)
	assert.Equal(t, DefaultChallengeTimeout, wc.Timeouts.Login.Timeout)
}

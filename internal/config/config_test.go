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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestDuration_UnmarshalYAML tests duration parsing from YAML scalars
func TestDuration_UnmarshalYAML(t *testing.T) {
	var s struct {
		D Duration `yaml:"d"`
	}

	if err := yaml.Unmarshal([]byte("d: 90s"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v, want nil", err)
	}
	if s.D.Std() != 90*time.Second {
		t.Errorf("D = %v, want 90s", s.D.Std())
	}

	if err := yaml.Unmarshal([]byte("d: 1000"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v, want nil for integer nanoseconds", err)
	}
	if s.D.Std() != 1000*time.Nanosecond {
		t.Errorf("D = %v, want 1000ns", s.D.Std())
	}

	if err := yaml.Unmarshal([]byte("d: forever"), &s); err == nil {
		t.Error("Unmarshal() error = nil, want error for invalid duration")
	}
}

// TestLoad_Success tests successful loading of a valid config file
func TestLoad_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: "0.0.0.0"
  port: 9090
  read_timeout: 5s
  write_timeout: 5s

logging:
  level: "debug"
  format: "json"

webauthn:
  id: "example.com"
  display_name: "Example"
  origins:
    - "https://example.com"
  challenge_timeout: 2m
  user_verification: "required"

cleanup:
  interval: 30s

metrics:
  enabled: true
  path: "/metrics"

health:
  enabled: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Validate server config
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %v, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %v, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Std() != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}

	// Validate logging
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %v, want json", cfg.Logging.Format)
	}

	// Validate relying party
	if cfg.WebAuthn.RPID != "example.com" {
		t.Errorf("WebAuthn.RPID = %v, want example.com", cfg.WebAuthn.RPID)
	}
	if cfg.WebAuthn.ChallengeTimeout.Std() != 2*time.Minute {
		t.Errorf("WebAuthn.ChallengeTimeout = %v, want 2m", cfg.WebAuthn.ChallengeTimeout)
	}
	if cfg.WebAuthn.UserVerification != "required" {
		t.Errorf("WebAuthn.UserVerification = %v, want required", cfg.WebAuthn.UserVerification)
	}

	if cfg.Cleanup.Interval.Std() != 30*time.Second {
		t.Errorf("Cleanup.Interval = %v, want 30s", cfg.Cleanup.Interval)
	}
}

// TestLoad_EmptyPath tests that an empty path yields defaults
func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %v, want default 8080", cfg.Server.Port)
	}
	if cfg.WebAuthn.RPID != "localhost" {
		t.Errorf("WebAuthn.RPID = %v, want default localhost", cfg.WebAuthn.RPID)
	}
	if cfg.WebAuthn.ToPasskeyConfig().ChallengeTimeout == 0 {
		t.Error("ChallengeTimeout should have a default after conversion")
	}
}

// TestLoad_FileNotFound tests loading a non-existent config file
func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}

	if cfg != nil {
		t.Errorf("Load() = %v, want nil", cfg)
	}
}

// TestLoad_InvalidYAML tests loading an invalid YAML file
func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidContent := `
server:
  host: "localhost"
  invalid: [unclosed array
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}

	if cfg != nil {
		t.Errorf("Load() = %v, want nil", cfg)
	}
}

// TestLoad_ValidationFailure tests loading a config that fails validation
func TestLoad_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.yaml")

	invalidContent := `
logging:
  level: "verbose"
  format: "json"
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() error = nil, want validation error")
	}

	if cfg != nil {
		t.Errorf("Load() = %v, want nil", cfg)
	}
}

// TestApplyEnvOverrides_ServerSettings tests environment variable overrides for server settings
func TestApplyEnvOverrides_ServerSettings(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		initialHost  string
		initialPort  int
		expectedHost string
		expectedPort int
	}{
		{
			name:         "override host",
			env:          map[string]string{"PASSKEY_HOST": "0.0.0.0"},
			initialHost:  "localhost",
			initialPort:  8080,
			expectedHost: "0.0.0.0",
			expectedPort: 8080,
		},
		{
			name:         "override port",
			env:          map[string]string{"PASSKEY_PORT": "9000"},
			initialHost:  "localhost",
			initialPort:  8080,
			expectedHost: "localhost",
			expectedPort: 9000,
		},
		{
			name:         "invalid port - not a number",
			env:          map[string]string{"PASSKEY_PORT": "invalid"},
			initialHost:  "localhost",
			initialPort:  8080,
			expectedHost: "localhost",
			expectedPort: 8080,
		},
		{
			name:         "invalid port - out of range",
			env:          map[string]string{"PASSKEY_PORT": "70000"},
			initialHost:  "localhost",
			initialPort:  8080,
			expectedHost: "localhost",
			expectedPort: 8080,
		},
		{
			name:         "invalid port - negative",
			env:          map[string]string{"PASSKEY_PORT": "-1"},
			initialHost:  "localhost",
			initialPort:  8080,
			expectedHost: "localhost",
			expectedPort: 8080,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg := Config{}
			cfg.Server.Host = tt.initialHost
			cfg.Server.Port = tt.initialPort
			applyEnvOverrides(&cfg)

			if cfg.Server.Host != tt.expectedHost {
				t.Errorf("Server.Host = %v, want %v", cfg.Server.Host, tt.expectedHost)
			}
			if cfg.Server.Port != tt.expectedPort {
				t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, tt.expectedPort)
			}
		})
	}
}

// TestApplyEnvOverrides_Logging tests environment variable overrides for logging settings
func TestApplyEnvOverrides_Logging(t *testing.T) {
	t.Setenv("PASSKEY_LOG_LEVEL", "debug")
	t.Setenv("PASSKEY_LOG_FORMAT", "json")

	cfg := Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	applyEnvOverrides(&cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %v, want json", cfg.Logging.Format)
	}
}

// TestApplyEnvOverrides_RelyingParty tests environment variable overrides for relying party settings
func TestApplyEnvOverrides_RelyingParty(t *testing.T) {
	t.Setenv("PASSKEY_RP_ID", "login.example.com")
	t.Setenv("PASSKEY_RP_DISPLAY_NAME", "Example Login")
	t.Setenv("PASSKEY_RP_ORIGINS", "https://login.example.com,https://example.com")
	t.Setenv("PASSKEY_CHALLENGE_TIMEOUT", "90s")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.WebAuthn.RPID != "login.example.com" {
		t.Errorf("WebAuthn.RPID = %v, want login.example.com", cfg.WebAuthn.RPID)
	}
	if cfg.WebAuthn.RPDisplayName != "Example Login" {
		t.Errorf("WebAuthn.RPDisplayName = %v, want Example Login", cfg.WebAuthn.RPDisplayName)
	}
	if len(cfg.WebAuthn.RPOrigins) != 2 {
		t.Fatalf("WebAuthn.RPOrigins = %v, want 2 origins", cfg.WebAuthn.RPOrigins)
	}
	if cfg.WebAuthn.RPOrigins[1] != "https://example.com" {
		t.Errorf("WebAuthn.RPOrigins[1] = %v, want https://example.com", cfg.WebAuthn.RPOrigins[1])
	}
	if cfg.WebAuthn.ChallengeTimeout.Std() != 90*time.Second {
		t.Errorf("WebAuthn.ChallengeTimeout = %v, want 90s", cfg.WebAuthn.ChallengeTimeout)
	}
}

// TestApplyEnvOverrides_InvalidChallengeTimeout tests that an unparseable duration keeps the default
func TestApplyEnvOverrides_InvalidChallengeTimeout(t *testing.T) {
	t.Setenv("PASSKEY_CHALLENGE_TIMEOUT", "not-a-duration")

	cfg := Default()
	want := cfg.WebAuthn.ChallengeTimeout
	applyEnvOverrides(cfg)

	if cfg.WebAuthn.ChallengeTimeout != want {
		t.Errorf("WebAuthn.ChallengeTimeout = %v, want %v", cfg.WebAuthn.ChallengeTimeout, want)
	}
}

// TestValidate tests validation of the configuration
func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid defaults",
			mutate:    func(cfg *Config) {},
			wantError: false,
		},
		{
			name:      "invalid port - too low",
			mutate:    func(cfg *Config) { cfg.Server.Port = 0 },
			wantError: true,
		},
		{
			name:      "invalid port - too high",
			mutate:    func(cfg *Config) { cfg.Server.Port = 65536 },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantError: true,
		},
		{
			name:      "uppercase log level",
			mutate:    func(cfg *Config) { cfg.Logging.Level = "INFO" },
			wantError: false,
		},
		{
			name:      "invalid log format",
			mutate:    func(cfg *Config) { cfg.Logging.Format = "console" },
			wantError: true,
		},
		{
			name:      "negative cleanup interval",
			mutate:    func(cfg *Config) { cfg.Cleanup.Interval = Duration(-time.Second) },
			wantError: true,
		},
		{
			name:      "metrics enabled without path",
			mutate:    func(cfg *Config) { cfg.Metrics.Path = "" },
			wantError: true,
		},
		{
			name:      "missing relying party ID",
			mutate:    func(cfg *Config) { cfg.WebAuthn.RPID = "" },
			wantError: true,
		},
		{
			name:      "missing origins",
			mutate:    func(cfg *Config) { cfg.WebAuthn.RPOrigins = nil },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
		})
	}
}

// TestLoad_WithEnvOverrides tests loading config with environment variable overrides
func TestLoad_WithEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: "localhost"
  port: 8080

logging:
  level: "info"
  format: "text"

webauthn:
  id: "example.com"
  display_name: "Example"
  origins:
    - "https://example.com"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	t.Setenv("PASSKEY_HOST", "0.0.0.0")
	t.Setenv("PASSKEY_PORT", "9000")
	t.Setenv("PASSKEY_LOG_LEVEL", "debug")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	// Verify environment overrides were applied
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %v, want 0.0.0.0 (env override)", cfg.Server.Host)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %v, want 9000 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug (env override)", cfg.Logging.Level)
	}
	// File value retained where no override exists
	if cfg.WebAuthn.RPID != "example.com" {
		t.Errorf("WebAuthn.RPID = %v, want example.com", cfg.WebAuthn.RPID)
	}
}

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

package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-passkey/pkg/health"
	"github.com/jeremyhahn/go-passkey/pkg/metrics"
	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

// PasskeyStores provides the storage implementations for the REST server.
// It wraps the in-memory stores from the passkey package; a production
// deployment plugs persistent stores behind the same interfaces.
type PasskeyStores struct {
	users      passkey.UserStore
	challenges passkey.ChallengeStore
}

// PasskeyStoresConfig configures the passkey stores.
type PasskeyStoresConfig struct {
	// ChallengeTTL is the duration after which pending challenges expire.
	// Default: 30 seconds
	ChallengeTTL time.Duration
}

// NewPasskeyStores creates new stores for the REST server. These stores use
// in-memory storage suitable for development and testing.
func NewPasskeyStores(cfg *PasskeyStoresConfig) *PasskeyStores {
	if cfg == nil {
		cfg = &PasskeyStoresConfig{}
	}

	// Set defaults
	if cfg.ChallengeTTL == 0 {
		cfg.ChallengeTTL = passkey.DefaultChallengeTimeout
	}

	return &PasskeyStores{
		users:      passkey.NewMemoryUserStore(),
		challenges: passkey.NewMemoryChallengeStoreWithTTL(cfg.ChallengeTTL),
	}
}

// UserStore returns the user store.
func (s *PasskeyStores) UserStore() passkey.UserStore {
	return s.users
}

// ChallengeStore returns the challenge store.
func (s *PasskeyStores) ChallengeStore() passkey.ChallengeStore {
	return s.challenges
}

// CleanupChallenges removes expired challenges and returns the count of
// removed entries. It also refreshes the store gauges.
func (s *PasskeyStores) CleanupChallenges() int {
	removed := 0
	if memStore, ok := s.challenges.(*passkey.MemoryChallengeStore); ok {
		removed = memStore.Cleanup()
		metrics.RecordChallengesExpired(removed)
		metrics.SetChallengesPending(float64(memStore.Count()))
	}
	if memStore, ok := s.users.(*passkey.MemoryUserStore); ok {
		metrics.SetUsersTotal(float64(memStore.Count()))
	}
	return removed
}

// StartCleanupRoutine starts a background goroutine that periodically evicts
// expired challenges. Call the returned cancel function to stop the routine.
func (s *PasskeyStores) StartCleanupRoutine(ctx context.Context, interval time.Duration) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupChallenges()
			}
		}
	}()

	return cancel
}

// HealthChecks returns readiness checks for the stores, keyed by check name.
// The in-memory stores cannot fail, so the checks report pending/user counts
// for observability; a persistent store implementation would probe its
// backend here.
func (s *PasskeyStores) HealthChecks() map[string]health.CheckFunc {
	checks := map[string]health.CheckFunc{}

	if memStore, ok := s.users.(*passkey.MemoryUserStore); ok {
		checks["users"] = func(ctx context.Context) health.CheckResult {
			return health.CheckResult{
				Status:  health.StatusHealthy,
				Message: countMessage(memStore.Count(), "users"),
			}
		}
	}
	if memStore, ok := s.challenges.(*passkey.MemoryChallengeStore); ok {
		checks["challenges"] = func(ctx context.Context) health.CheckResult {
			return health.CheckResult{
				Status:  health.StatusHealthy,
				Message: countMessage(memStore.Count(), "pending challenges"),
			}
		}
	}

	return checks
}

func countMessage(count int, what string) string {
	return fmt.Sprintf("store holds %d %s", count, what)
}

// Clear clears all stores (useful for testing).
func (s *PasskeyStores) Clear() {
	if memStore, ok := s.users.(*passkey.MemoryUserStore); ok {
		memStore.Clear()
	}
	if memStore, ok := s.challenges.(*passkey.MemoryChallengeStore); ok {
		memStore.Clear()
	}
}

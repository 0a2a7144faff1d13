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
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserStore is an in-memory implementation of UserStore.
// Suitable for development, testing, and single-process deployments; a
// production deployment plugs a persistent store behind the same interface.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*User),
	}
}

// Create allocates a new user ID and stores the record.
func (s *MemoryUserStore) Create(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &User{
		ID:       uuid.NewString(),
		Username: username,
	}
	s.users[user.ID] = user

	return user.Clone(), nil
}

// Get retrieves a user by ID. The returned record is a copy; mutating it
// does not affect the store.
func (s *MemoryUserStore) Get(ctx context.Context, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.Clone(), nil
}

// AttachCredential sets the user's credential, last write wins.
func (s *MemoryUserStore) AttachCredential(ctx context.Context, userID string, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Credential = cred.Clone()

	return nil
}

// UpdateCounter mutates only the signature counter of the stored credential.
func (s *MemoryUserStore) UpdateCounter(ctx context.Context, userID string, newCount uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if user.Credential == nil {
		return ErrNoCredential
	}

	user.Credential.SignCount = newCount
	user.Credential.LastUsedAt = time.Now().UTC()

	return nil
}

// Count returns the number of users in the store.
func (s *MemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Clear removes all users from the store.
func (s *MemoryUserStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
}

// challengeKey scopes a pending challenge to one user and one ceremony.
type challengeKey struct {
	userID   string
	ceremony CeremonyType
}

// MemoryChallengeStore is an in-memory implementation of ChallengeStore.
// A single mutex makes Issue and Consume linearizable per key: a consume is
// check-and-delete in one indivisible step, so two racing consumers never
// both observe the same challenge.
type MemoryChallengeStore struct {
	mu      sync.Mutex
	entries map[challengeKey]*Challenge
	ttl     time.Duration
}

// NewMemoryChallengeStore creates a new in-memory challenge store with the
// default challenge timeout.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return NewMemoryChallengeStoreWithTTL(DefaultChallengeTimeout)
}

// NewMemoryChallengeStoreWithTTL creates a new in-memory challenge store
// with a custom challenge lifetime.
func NewMemoryChallengeStoreWithTTL(ttl time.Duration) *MemoryChallengeStore {
	return &MemoryChallengeStore{
		entries: make(map[challengeKey]*Challenge),
		ttl:     ttl,
	}
}

// Issue binds the challenge value to (userID, ceremony), overwriting any
// prior entry for that key.
func (s *MemoryChallengeStore) Issue(ctx context.Context, userID string, ceremony CeremonyType, value string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge := &Challenge{
		Value:     value,
		UserID:    userID,
		Ceremony:  ceremony,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.entries[challengeKey{userID: userID, ceremony: ceremony}] = challenge

	copied := *challenge
	return &copied, nil
}

// Consume atomically fetches and removes the pending challenge. An expired
// entry is removed and reported as ErrChallengeExpired.
func (s *MemoryChallengeStore) Consume(ctx context.Context, userID string, ceremony CeremonyType) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := challengeKey{userID: userID, ceremony: ceremony}
	challenge, ok := s.entries[key]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	delete(s.entries, key)

	if challenge.Expired(time.Now()) {
		return nil, ErrChallengeExpired
	}

	copied := *challenge
	return &copied, nil
}

// Count returns the number of pending challenges in the store.
func (s *MemoryChallengeStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes all pending challenges from the store.
func (s *MemoryChallengeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[challengeKey]*Challenge)
}

// Cleanup removes expired challenges and returns how many were evicted.
// Expiry is already enforced at consume time; sweeping only bounds store
// growth.
func (s *MemoryChallengeStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, challenge := range s.entries {
		if challenge.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/urbanaid/urbanaid-go/pkg/keyring"
)

// Identity is the decoded profile of the currently authenticated user.
// Subject fields are nil when unknown or not applicable to the role.
type Identity struct {
	Username string          `json:"username,omitempty"`
	Role     Role            `json:"role,omitempty"`
	Provider ProviderSubject `json:"provider"`
	Customer CustomerSubject `json:"customer"`
}

type ProviderSubject struct {
	ID       *int  `json:"id,omitempty"`
	Approved *bool `json:"is_approved,omitempty"`
	Blocked  *bool `json:"is_blocked,omitempty"`
}

type CustomerSubject struct {
	ID      *int  `json:"id,omitempty"`
	Blocked *bool `json:"is_blocked,omitempty"`
}

// IdentityStore caches the Identity in memory and writes it through to the
// keyring so it survives restarts.
type IdentityStore struct {
	ring   keyring.Keyring
	logger logr.Logger

	mu       sync.RWMutex
	identity Identity
}

func NewIdentityStore(ring keyring.Keyring, logger logr.Logger) *IdentityStore {
	return &IdentityStore{
		ring:   ring,
		logger: logger,
	}
}

// Load hydrates the in-memory identity from the keyring. A missing or
// undecodable entry leaves the store empty; it is not an error, matching
// a fresh install.
func (s *IdentityStore) Load(ctx context.Context) error {
	raw, ok, err := s.ring.Get(ctx, keyring.KeyIdentity)
	if err != nil {
		return fmt.Errorf("session: failed to read identity entry: %w", err)
	}
	if !ok {
		return nil
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.V(1).Info("discarding undecodable identity entry", "error", err.Error())
		return nil
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	return nil
}

// SetIdentity overwrites the identity from a login/refresh payload and
// writes it through to the keyring. Subject fields for the non-matching
// role are always cleared; carrying them across a role change would leave
// stale subject data behind.
func (s *IdentityStore) SetIdentity(ctx context.Context, user UserPayload) error {
	identity := Identity{
		Username: user.Username,
		Role:     user.Role,
	}

	switch user.Role {
	case RoleProvider:
		if user.Provider != nil {
			id := user.Provider.ID
			identity.Provider = ProviderSubject{
				ID:       &id,
				Approved: user.Provider.IsApproved,
				Blocked:  user.Provider.IsBlocked,
			}
		}
	case RoleCustomer:
		if user.Customer != nil {
			id := user.Customer.ID
			identity.Customer = CustomerSubject{
				ID:      &id,
				Blocked: user.Customer.IsBlocked,
			}
		}
	}

	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("session: failed to encode identity: %w", err)
	}

	if err := s.ring.Set(ctx, keyring.KeyIdentity, string(encoded)); err != nil {
		return fmt.Errorf("session: failed to persist identity: %w", err)
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	return nil
}

// Clear resets all fields and removes the keyring entry. Safe to call when
// already cleared.
func (s *IdentityStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.identity = Identity{}
	s.mu.Unlock()

	if err := s.ring.Delete(ctx, keyring.KeyIdentity); err != nil {
		return fmt.Errorf("session: failed to remove identity entry: %w", err)
	}
	return nil
}

func (s *IdentityStore) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *IdentityStore) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Username
}

func (s *IdentityStore) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Role
}

func (s *IdentityStore) IsAdmin() bool {
	return s.Role() == RoleAdmin
}

func (s *IdentityStore) IsProvider() bool {
	return s.Role() == RoleProvider
}

func (s *IdentityStore) IsCustomer() bool {
	return s.Role() == RoleCustomer
}

// ProviderApproved reports the provider approval flag; nil means unknown
// or not applicable, which is distinct from false.
func (s *IdentityStore) ProviderApproved() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Provider.Approved
}

func (s *IdentityStore) ProviderBlocked() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Provider.Blocked
}

func (s *IdentityStore) CustomerBlocked() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Customer.Blocked
}

package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"

	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	"github.com/urbanaid/urbanaid-go/pkg/keyring"
)

// Manager owns the authentication state: token material in the keyring,
// the identity store, and the derived authenticated flag. Authenticated is
// never stored; it is recomputed from token, username, and role presence.
type Manager struct {
	ring     keyring.Keyring
	identity *IdentityStore
	auth     Authenticator
	logger   logr.Logger

	refreshGroup singleflight.Group
}

type ManagerConfig struct {
	Keyring  keyring.Keyring
	Identity *IdentityStore
	Auth     Authenticator
	Logger   logr.Logger
}

func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Keyring == nil {
		return nil, fmt.Errorf("session: keyring is required")
	}

	identity := config.Identity
	if identity == nil {
		identity = NewIdentityStore(config.Keyring, config.Logger)
	}

	return &Manager{
		ring:     config.Keyring,
		identity: identity,
		auth:     config.Auth,
		logger:   config.Logger,
	}, nil
}

// SetAuthenticator wires the authentication collaborator after
// construction. The REST client and the manager reference each other, so
// one side is attached late.
func (m *Manager) SetAuthenticator(auth Authenticator) {
	m.auth = auth
}

func (m *Manager) IdentityStore() *IdentityStore {
	return m.identity
}

// Login authenticates against the collaborator and establishes the
// session. Nothing is written until the returned material is validated, so
// a rejected login leaves prior session state untouched; a storage failure
// mid-write clears the token entries rather than keep a partial session.
func (m *Manager) Login(ctx context.Context, credentials Credentials) (Identity, error) {
	if m.auth == nil {
		return Identity{}, oerrors.New(oerrors.CodeUnknown, "session: authenticator is not configured")
	}

	result, err := m.auth.Login(ctx, credentials.Normalize())
	if err != nil {
		return Identity{}, err
	}

	if result.Tokens.Access == "" || result.User.Username == "" || !result.User.Role.Valid() {
		return Identity{}, oerrors.New(oerrors.CodeIncompleteSession, "User not authenticated properly!!")
	}

	// The token and identity writes commit together. A failure partway
	// through discards everything already written; leaving the new tokens
	// next to the previous identity would authenticate a mismatched pair.
	if err := m.writeTokens(ctx, result.Tokens); err != nil {
		m.discardPartialLogin(ctx)
		return Identity{}, err
	}
	if err := m.identity.SetIdentity(ctx, result.User); err != nil {
		m.discardPartialLogin(ctx)
		return Identity{}, oerrors.Wrap(oerrors.CodeStorageUnavailable, "failed to persist identity", err)
	}

	m.logger.V(1).Info("session established", "username", result.User.Username, "role", string(result.User.Role))
	return m.identity.Identity(), nil
}

// Logout clears identity and tokens unconditionally. Idempotent: logging
// out an already-logged-out session ends in the same state.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.identity.Clear(ctx); err != nil {
		return err
	}
	if err := m.ring.Delete(ctx, keyring.KeyAccessToken); err != nil {
		return fmt.Errorf("session: failed to remove access token: %w", err)
	}
	if err := m.ring.Delete(ctx, keyring.KeyRefreshToken); err != nil {
		return fmt.Errorf("session: failed to remove refresh token: %w", err)
	}

	m.logger.V(1).Info("session cleared")
	return nil
}

// Refresh exchanges the stored refresh token for new token material. It is
// a best-effort background operation: every failure is logged and
// swallowed, and a stale access token is left in place so the caller's
// next request fails and triggers another attempt. Concurrent callers are
// coalesced onto a single exchange.
func (m *Manager) Refresh(ctx context.Context) {
	_, _, _ = m.refreshGroup.Do("refresh", func() (any, error) {
		m.refresh(ctx)
		return nil, nil
	})
}

func (m *Manager) refresh(ctx context.Context) {
	refreshToken, ok := m.readToken(ctx, keyring.KeyRefreshToken)
	if !ok {
		m.logger.V(1).Info("no refresh token stored, skipping refresh")
		return
	}

	if m.auth == nil {
		m.logger.V(1).Info("authenticator not configured, skipping refresh")
		return
	}

	tokens, err := m.auth.RefreshTokens(ctx, refreshToken)
	if err != nil {
		m.logger.V(1).Info("token refresh failed", "error", err.Error())
		return
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		m.logger.V(1).Info("token refresh returned incomplete material")
		return
	}

	if err := m.writeTokens(ctx, tokens); err != nil {
		m.logger.V(1).Info("failed to persist refreshed tokens", "error", err.Error())
		return
	}

	m.logger.V(1).Info("tokens refreshed")
}

// Authenticated recomputes the derived flag from token and identity
// presence. It is never set directly.
func (m *Manager) Authenticated(ctx context.Context) bool {
	_, ok := m.AccessToken(ctx)
	if !ok {
		return false
	}
	return m.identity.Username() != "" && m.identity.Role().Valid()
}

// AccessToken returns the stored access token, reporting absence instead
// of an error so callers can fail fast without a network round trip.
func (m *Manager) AccessToken(ctx context.Context) (string, bool) {
	return m.readToken(ctx, keyring.KeyAccessToken)
}

func (m *Manager) RefreshToken(ctx context.Context) (string, bool) {
	return m.readToken(ctx, keyring.KeyRefreshToken)
}

// discardPartialLogin clears token entries after a login write failed
// partway, so the session ends logged out instead of inconsistent.
func (m *Manager) discardPartialLogin(ctx context.Context) {
	for _, key := range []string{keyring.KeyAccessToken, keyring.KeyRefreshToken} {
		if err := m.ring.Delete(ctx, key); err != nil {
			m.logger.V(1).Info("failed to discard partial login entry", "key", key, "error", err.Error())
		}
	}
}

func (m *Manager) readToken(ctx context.Context, key string) (string, bool) {
	raw, ok, err := m.ring.Get(ctx, key)
	if err != nil {
		m.logger.V(1).Info("failed to read token entry", "key", key, "error", err.Error())
		return "", false
	}
	if !ok {
		return "", false
	}

	var token string
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		m.logger.V(1).Info("discarding undecodable token entry", "key", key)
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

func (m *Manager) writeTokens(ctx context.Context, tokens Tokens) error {
	access, err := json.Marshal(tokens.Access)
	if err != nil {
		return oerrors.Wrap(oerrors.CodeUnknown, "failed to encode access token", err)
	}
	refresh, err := json.Marshal(tokens.Refresh)
	if err != nil {
		return oerrors.Wrap(oerrors.CodeUnknown, "failed to encode refresh token", err)
	}

	if err := m.ring.Set(ctx, keyring.KeyAccessToken, string(access)); err != nil {
		return oerrors.Wrap(oerrors.CodeStorageUnavailable, "failed to persist access token", err)
	}
	if err := m.ring.Set(ctx, keyring.KeyRefreshToken, string(refresh)); err != nil {
		return oerrors.Wrap(oerrors.CodeStorageUnavailable, "failed to persist refresh token", err)
	}
	return nil
}

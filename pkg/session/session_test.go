package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"

	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	"github.com/urbanaid/urbanaid-go/pkg/keyring"
	memorykeyring "github.com/urbanaid/urbanaid-go/pkg/keyring/memory"
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

type fakeAuthenticator struct {
	loginResult session.LoginResult
	loginErr    error

	refreshTokens session.Tokens
	refreshErr    error
	refreshCalls  int
	refreshSeen   string
}

func (f *fakeAuthenticator) Login(ctx context.Context, credentials session.Credentials) (session.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthenticator) RefreshTokens(ctx context.Context, refreshToken string) (session.Tokens, error) {
	f.refreshCalls++
	f.refreshSeen = refreshToken
	return f.refreshTokens, f.refreshErr
}

func boolPtr(v bool) *bool {
	return &v
}

func newManager(t *testing.T, auth session.Authenticator) (*session.Manager, keyring.Keyring) {
	t.Helper()

	ring := memorykeyring.NewAdapter()
	manager, err := session.NewManager(session.ManagerConfig{
		Keyring: ring,
		Auth:    auth,
		Logger:  logr.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager, ring
}

func providerLoginResult() session.LoginResult {
	return session.LoginResult{
		Tokens: session.Tokens{Access: "access-1", Refresh: "refresh-1"},
		User: session.UserPayload{
			Username: "ravi",
			Role:     session.RoleProvider,
			Provider: &session.ProviderPayload{
				ID:         7,
				IsApproved: boolPtr(true),
				IsBlocked:  boolPtr(false),
			},
		},
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}
	manager, ring := newManager(t, auth)

	identity, err := manager.Login(ctx, session.Credentials{Username: " ravi ", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if identity.Username != "ravi" || identity.Role != session.RoleProvider {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Provider.ID == nil || *identity.Provider.ID != 7 {
		t.Fatalf("expected provider subject id 7, got %+v", identity.Provider)
	}

	if !manager.Authenticated(ctx) {
		t.Fatal("expected authenticated session after login")
	}

	token, ok := manager.AccessToken(ctx)
	if !ok || token != "access-1" {
		t.Fatalf("expected stored access token, got %q ok=%v", token, ok)
	}

	raw, ok, err := ring.Get(ctx, keyring.KeyAccessToken)
	if err != nil || !ok {
		t.Fatalf("expected durable access token entry, ok=%v err=%v", ok, err)
	}
	if raw != `"access-1"` {
		t.Fatalf("expected JSON-encoded token entry, got %q", raw)
	}
}

func TestLoginIncompleteResultWritesNothing(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{
		loginResult: session.LoginResult{
			Tokens: session.Tokens{Access: "access-1", Refresh: "refresh-1"},
			User:   session.UserPayload{Username: "ravi", Role: session.Role("superuser")},
		},
	}
	manager, ring := newManager(t, auth)

	_, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"})
	if !oerrors.IsCode(err, oerrors.CodeIncompleteSession) {
		t.Fatalf("expected incomplete session error, got %v", err)
	}

	if manager.Authenticated(ctx) {
		t.Fatal("failed login must not authenticate the session")
	}
	if _, ok, _ := ring.Get(ctx, keyring.KeyAccessToken); ok {
		t.Fatal("failed login must not persist token material")
	}
	if _, ok, _ := ring.Get(ctx, keyring.KeyIdentity); ok {
		t.Fatal("failed login must not persist identity")
	}
}

// failingKeyring wraps another keyring and fails writes to one key.
type failingKeyring struct {
	keyring.Keyring
	failKey string
}

func (f *failingKeyring) Set(ctx context.Context, key string, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Keyring.Set(ctx, key, value)
}

func TestLoginIdentityWriteFailureDiscardsTokens(t *testing.T) {
	ctx := context.Background()
	ring := &failingKeyring{Keyring: memorykeyring.NewAdapter(), failKey: keyring.KeyIdentity}
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}

	manager, err := session.NewManager(session.ManagerConfig{
		Keyring: ring,
		Auth:    auth,
		Logger:  logr.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	_, err = manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"})
	if !oerrors.IsCode(err, oerrors.CodeStorageUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if _, ok := manager.AccessToken(ctx); ok {
		t.Fatal("tokens must not survive a failed identity write")
	}
	if manager.Authenticated(ctx) {
		t.Fatal("a partially written login must not authenticate the session")
	}
}

func TestLoginIdentityWriteFailureDoesNotKeepPriorIdentityAuthenticated(t *testing.T) {
	ctx := context.Background()
	inner := memorykeyring.NewAdapter()
	ring := &failingKeyring{Keyring: inner}
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}

	manager, err := session.NewManager(session.ManagerConfig{
		Keyring: ring,
		Auth:    auth,
		Logger:  logr.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	// The second user's identity write fails; their tokens must not end up
	// paired with the first user's identity.
	ring.failKey = keyring.KeyIdentity
	auth.loginResult = session.LoginResult{
		Tokens: session.Tokens{Access: "access-2", Refresh: "refresh-2"},
		User: session.UserPayload{
			Username: "meena",
			Role:     session.RoleCustomer,
			Customer: &session.CustomerPayload{ID: 12},
		},
	}

	if _, err := manager.Login(ctx, session.Credentials{Username: "meena", Password: "secret"}); err == nil {
		t.Fatal("expected login to fail on the identity write")
	}

	if manager.Authenticated(ctx) {
		t.Fatal("mismatched token/identity pair must not authenticate")
	}
	if _, ok := manager.AccessToken(ctx); ok {
		t.Fatal("the failed login's tokens must be discarded")
	}
	if manager.IdentityStore().Username() != "ravi" {
		t.Fatalf("unexpected in-memory identity %q", manager.IdentityStore().Username())
	}
}

func TestLoginFailurePreservesExistingSession(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}
	manager, _ := newManager(t, auth)

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	auth.loginErr = errors.New("upstream down")
	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err == nil {
		t.Fatal("expected login error")
	}

	if !manager.Authenticated(ctx) {
		t.Fatal("failed re-login must leave the prior session intact")
	}
}

func TestLogoutClearsSessionAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}
	manager, ring := newManager(t, auth)

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := manager.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if manager.Authenticated(ctx) {
		t.Fatal("expected unauthenticated session after logout")
	}
	for _, key := range []string{keyring.KeyAccessToken, keyring.KeyRefreshToken, keyring.KeyIdentity} {
		if _, ok, _ := ring.Get(ctx, key); ok {
			t.Fatalf("expected %q entry removed after logout", key)
		}
	}

	if err := manager.Logout(ctx); err != nil {
		t.Fatalf("second logout must succeed: %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{
		loginResult:   providerLoginResult(),
		refreshTokens: session.Tokens{Access: "access-2", Refresh: "refresh-2"},
	}
	manager, _ := newManager(t, auth)

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	manager.Refresh(ctx)

	if auth.refreshCalls != 1 {
		t.Fatalf("expected one refresh exchange, got %d", auth.refreshCalls)
	}
	if auth.refreshSeen != "refresh-1" {
		t.Fatalf("expected stored refresh token to be exchanged, got %q", auth.refreshSeen)
	}

	token, ok := manager.AccessToken(ctx)
	if !ok || token != "access-2" {
		t.Fatalf("expected rotated access token, got %q ok=%v", token, ok)
	}
	refresh, ok := manager.RefreshToken(ctx)
	if !ok || refresh != "refresh-2" {
		t.Fatalf("expected rotated refresh token, got %q ok=%v", refresh, ok)
	}
}

func TestRefreshFailureKeepsStoredTokens(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{
		loginResult: providerLoginResult(),
		refreshErr:  errors.New("refresh rejected"),
	}
	manager, _ := newManager(t, auth)

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	manager.Refresh(ctx)

	token, ok := manager.AccessToken(ctx)
	if !ok || token != "access-1" {
		t.Fatalf("failed refresh must keep the stored access token, got %q ok=%v", token, ok)
	}
}

func TestRefreshWithoutStoredTokenSkipsExchange(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{}
	manager, _ := newManager(t, auth)

	manager.Refresh(ctx)

	if auth.refreshCalls != 0 {
		t.Fatalf("expected no refresh exchange without a stored token, got %d", auth.refreshCalls)
	}
}

func TestSetIdentityClearsStaleSubject(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}
	manager, _ := newManager(t, auth)

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	err := manager.IdentityStore().SetIdentity(ctx, session.UserPayload{
		Username: "meena",
		Role:     session.RoleCustomer,
		Customer: &session.CustomerPayload{ID: 12, IsBlocked: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("failed to switch identity: %v", err)
	}

	identity := manager.IdentityStore().Identity()
	if identity.Provider.ID != nil {
		t.Fatalf("expected provider subject cleared after role change, got %+v", identity.Provider)
	}
	if identity.Customer.ID == nil || *identity.Customer.ID != 12 {
		t.Fatalf("expected customer subject id 12, got %+v", identity.Customer)
	}
}

func TestIdentitySurvivesReload(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuthenticator{loginResult: providerLoginResult()}
	manager, ring := newManager(t, auth)

	if _, err := manager.Login(ctx, session.Credentials{Username: "ravi", Password: "secret"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	reloaded, err := session.NewManager(session.ManagerConfig{
		Keyring: ring,
		Auth:    auth,
		Logger:  logr.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := reloaded.IdentityStore().Load(ctx); err != nil {
		t.Fatalf("failed to load identity: %v", err)
	}

	if !reloaded.Authenticated(ctx) {
		t.Fatal("expected session to survive reload from the same keyring")
	}
	if reloaded.IdentityStore().Username() != "ravi" {
		t.Fatalf("unexpected reloaded username %q", reloaded.IdentityStore().Username())
	}
}

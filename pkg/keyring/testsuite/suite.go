// Package testsuite holds a conformance suite run against every keyring
// adapter. Adapter packages call Run from their own tests.
package testsuite

import (
	"context"
	"testing"

	"github.com/urbanaid/urbanaid-go/pkg/keyring"
)

func Run(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		_, ok, err := ring.Get(ctx, "testsuite-absent")
		if err != nil {
			t.Fatalf("get absent key failed: %v", err)
		}
		if ok {
			t.Fatal("expected absent key to report not found")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := ring.Set(ctx, keyring.KeyAccessToken, `"token-a"`); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		value, ok, err := ring.Get(ctx, keyring.KeyAccessToken)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected key to be present after set")
		}
		if value != `"token-a"` {
			t.Fatalf("unexpected value %q", value)
		}
	})

	t.Run("overwrite is last-write-wins", func(t *testing.T) {
		if err := ring.Set(ctx, keyring.KeyRefreshToken, `"one"`); err != nil {
			t.Fatalf("first set failed: %v", err)
		}
		if err := ring.Set(ctx, keyring.KeyRefreshToken, `"two"`); err != nil {
			t.Fatalf("second set failed: %v", err)
		}

		value, ok, err := ring.Get(ctx, keyring.KeyRefreshToken)
		if err != nil || !ok {
			t.Fatalf("get after overwrite failed: value=%q ok=%v err=%v", value, ok, err)
		}
		if value != `"two"` {
			t.Fatalf("expected last write to win, got %q", value)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := ring.Set(ctx, keyring.KeyIdentity, `{}`); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := ring.Delete(ctx, keyring.KeyIdentity); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		_, ok, err := ring.Get(ctx, keyring.KeyIdentity)
		if err != nil {
			t.Fatalf("get after delete failed: %v", err)
		}
		if ok {
			t.Fatal("expected key to be absent after delete")
		}
	})

	t.Run("delete absent key is not an error", func(t *testing.T) {
		if err := ring.Delete(ctx, "testsuite-never-set"); err != nil {
			t.Fatalf("delete of absent key failed: %v", err)
		}
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		if err := ring.Set(ctx, "", "value"); err == nil {
			t.Fatal("expected empty key set to fail")
		}
		if _, _, err := ring.Get(ctx, ""); err == nil {
			t.Fatal("expected empty key get to fail")
		}
		if err := ring.Delete(ctx, ""); err == nil {
			t.Fatal("expected empty key delete to fail")
		}
	})
}

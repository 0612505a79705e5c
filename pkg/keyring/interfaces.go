// Package keyring defines the durable key-value persistence boundary used
// for session material. Entries are JSON-encoded strings under fixed
// logical keys; adapters provide the actual storage.
package keyring

import (
	"context"
)

// Logical entry names. These are stable identifiers shared by every
// adapter; session state written under them survives process restarts.
const (
	KeyAccessToken  = "auth-token"
	KeyRefreshToken = "refresh-token"
	KeyIdentity     = "user"
)

type Keyring interface {
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error

	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

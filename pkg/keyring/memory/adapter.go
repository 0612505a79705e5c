package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/urbanaid/urbanaid-go/pkg/keyring"
)

var ErrEmptyKey = errors.New("memory keyring: key is required")

type Adapter struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ keyring.Keyring = (*Adapter)(nil)

func NewAdapter() *Adapter {
	return &Adapter{
		entries: map[string]string{},
	}
}

func (a *Adapter) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	a.mu.Lock()
	a.entries[key] = value
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	a.mu.RLock()
	value, ok := a.entries[key]
	a.mu.RUnlock()
	return value, ok, nil
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

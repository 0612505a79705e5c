package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/urbanaid/urbanaid-go/pkg/keyring"
)

type Config struct {
	Address     string
	Username    string
	Password    string
	Database    int
	Namespace   string
	DialTimeout time.Duration
}

type Adapter struct {
	client    *goredis.Client
	namespace string
}

var _ keyring.Keyring = (*Adapter)(nil)

func NewAdapter(config Config) *Adapter {
	client := goredis.NewClient(&goredis.Options{
		Addr:        config.Address,
		Username:    config.Username,
		Password:    config.Password,
		DB:          config.Database,
		DialTimeout: config.DialTimeout,
	})

	return &Adapter{
		client:    client,
		namespace: config.Namespace,
	}
}

// NewAdapterWithClient wraps an existing client, for callers that manage
// connection lifecycle themselves.
func NewAdapterWithClient(client *goredis.Client, namespace string) *Adapter {
	return &Adapter{
		client:    client,
		namespace: namespace,
	}
}

func (a *Adapter) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return errors.New("redis keyring: key is required")
	}

	// Session entries have no TTL; they are cleared explicitly on logout.
	if err := a.client.Set(ctx, a.qualify(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis keyring: failed to set %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("redis keyring: key is required")
	}

	value, err := a.client.Get(ctx, a.qualify(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis keyring: failed to get %q: %w", key, err)
	}
	return value, true, nil
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("redis keyring: key is required")
	}

	if err := a.client.Del(ctx, a.qualify(key)).Err(); err != nil {
		return fmt.Errorf("redis keyring: failed to delete %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.client.Close()
}

func (a *Adapter) qualify(key string) string {
	if a.namespace == "" {
		return key
	}
	return a.namespace + ":" + key
}

package urbanaid

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	memorykeyring "github.com/urbanaid/urbanaid-go/pkg/keyring/memory"
	postgreskeyring "github.com/urbanaid/urbanaid-go/pkg/keyring/postgres"
	rediskeyring "github.com/urbanaid/urbanaid-go/pkg/keyring/redis"
)

type KeyringBackend string

const (
	KeyringBackendMemory   KeyringBackend = "memory"
	KeyringBackendRedis    KeyringBackend = "redis"
	KeyringBackendPostgres KeyringBackend = "postgres"
)

type RuntimeConfig struct {
	Keyring KeyringConfig
}

type KeyringConfig struct {
	Backend  KeyringBackend
	Redis    RedisKeyringConfig
	Postgres PostgresKeyringConfig
}

type RedisKeyringConfig struct {
	Address     string
	Username    string
	Password    string
	Database    int
	Namespace   string
	DialTimeout time.Duration
}

type PostgresKeyringConfig struct {
	DriverName      string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	OpenDB          func(driverName string, dsn string) (*sql.DB, error)
}

func (c Config) initialize(ctx context.Context) (func() error, Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	config := c
	config.Logger = resolveLogger(config.Logger)

	if config.BaseURL == "" {
		return nil, Config{}, fmt.Errorf("urbanaid config: base URL is required")
	}

	closeKeyring, config, err := initializeKeyring(ctx, config)
	if err != nil {
		return nil, Config{}, err
	}

	return closeKeyring, config, nil
}

func initializeKeyring(ctx context.Context, config Config) (func() error, Config, error) {
	if config.Keyring != nil {
		return noopCloser, config, nil
	}

	backend := config.Runtime.Keyring.Backend
	if backend == "" {
		backend = KeyringBackendMemory
	}

	switch backend {
	case KeyringBackendMemory:
		config.Keyring = memorykeyring.NewAdapter()
		config.Logger.V(1).Info("initialized memory keyring backend")
		return noopCloser, config, nil
	case KeyringBackendRedis:
		return initializeRedisKeyring(config)
	case KeyringBackendPostgres:
		return initializePostgresKeyring(ctx, config)
	default:
		return nil, Config{}, fmt.Errorf("urbanaid config: unsupported runtime.keyring.backend %q", backend)
	}
}

func initializeRedisKeyring(config Config) (func() error, Config, error) {
	redisConfig := config.Runtime.Keyring.Redis
	if redisConfig.Address == "" {
		return nil, Config{}, fmt.Errorf("urbanaid config: runtime.keyring.redis.address is required")
	}
	if redisConfig.DialTimeout <= 0 {
		redisConfig.DialTimeout = 5 * time.Second
	}

	adapter := rediskeyring.NewAdapter(rediskeyring.Config{
		Address:     redisConfig.Address,
		Username:    redisConfig.Username,
		Password:    redisConfig.Password,
		Database:    redisConfig.Database,
		Namespace:   redisConfig.Namespace,
		DialTimeout: redisConfig.DialTimeout,
	})

	config.Keyring = adapter
	config.Runtime.Keyring.Redis = redisConfig
	config.Logger.V(1).Info("initialized redis keyring backend", "address", redisConfig.Address, "database", redisConfig.Database, "namespace", redisConfig.Namespace)
	return adapter.Close, config, nil
}

func initializePostgresKeyring(ctx context.Context, config Config) (func() error, Config, error) {
	pgConfig := config.Runtime.Keyring.Postgres
	if pgConfig.DSN == "" {
		return nil, Config{}, fmt.Errorf("urbanaid config: runtime.keyring.postgres.dsn is required")
	}

	if pgConfig.DriverName == "" {
		pgConfig.DriverName = "pgx"
	}
	if pgConfig.PingTimeout <= 0 {
		pgConfig.PingTimeout = 5 * time.Second
	}
	if pgConfig.OpenDB == nil {
		pgConfig.OpenDB = sql.Open
	}

	db, err := pgConfig.OpenDB(pgConfig.DriverName, pgConfig.DSN)
	if err != nil {
		return nil, Config{}, fmt.Errorf("urbanaid config: failed to open postgres database: %w", err)
	}

	if pgConfig.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pgConfig.MaxOpenConns)
	}
	if pgConfig.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pgConfig.MaxIdleConns)
	}
	if pgConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pgConfig.ConnMaxLifetime)
	}
	if pgConfig.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pgConfig.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pgConfig.PingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, Config{}, fmt.Errorf("urbanaid config: failed to ping postgres database: %w", err)
	}

	adapter, err := postgreskeyring.NewAdapter(db)
	if err != nil {
		_ = db.Close()
		return nil, Config{}, fmt.Errorf("urbanaid config: failed to initialize postgres keyring: %w", err)
	}

	config.Keyring = adapter
	config.Runtime.Keyring.Postgres = pgConfig
	config.Logger.V(1).Info("initialized postgres keyring backend", "driver", pgConfig.DriverName, "max_open_conns", pgConfig.MaxOpenConns, "max_idle_conns", pgConfig.MaxIdleConns)
	return joinClosers(db.Close, adapter.Close), config, nil
}

func joinClosers(closers ...func() error) func() error {
	return func() error {
		var errs []error

		for i := len(closers) - 1; i >= 0; i-- {
			if closers[i] == nil {
				continue
			}
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}

		return stderrors.Join(errs...)
	}
}

func noopCloser() error {
	return nil
}

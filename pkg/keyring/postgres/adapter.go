package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/urbanaid/urbanaid-go/pkg/keyring"
)

const (
	setEntryQuery = `
INSERT INTO urbanaid.keyring (
  key, value, date_modified
) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE
SET
  value = EXCLUDED.value,
  date_modified = EXCLUDED.date_modified
`

	getEntryQuery = `
SELECT
  value
FROM urbanaid.keyring
WHERE key = $1
`

	deleteEntryQuery = `DELETE FROM urbanaid.keyring WHERE key = $1`
)

var (
	ErrNilDB                 = errors.New("postgres keyring: db is nil")
	ErrAdapterNotInitialized = errors.New("postgres keyring: adapter not initialized")
)

type Adapter struct {
	db *sql.DB

	stmts preparedStatements
}

type preparedStatements struct {
	setEntry    *sql.Stmt
	getEntry    *sql.Stmt
	deleteEntry *sql.Stmt
}

type prepareStatementSpec struct {
	label  string
	query  string
	assign func(*preparedStatements, *sql.Stmt)
}

var prepareStatementSpecs = []prepareStatementSpec{
	{
		label: "set entry",
		query: setEntryQuery,
		assign: func(ps *preparedStatements, stmt *sql.Stmt) {
			ps.setEntry = stmt
		},
	},
	{
		label: "get entry",
		query: getEntryQuery,
		assign: func(ps *preparedStatements, stmt *sql.Stmt) {
			ps.getEntry = stmt
		},
	},
	{
		label: "delete entry",
		query: deleteEntryQuery,
		assign: func(ps *preparedStatements, stmt *sql.Stmt) {
			ps.deleteEntry = stmt
		},
	},
}

var _ keyring.Keyring = (*Adapter)(nil)

func NewAdapter(db *sql.DB) (*Adapter, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	adapter := &Adapter{db: db}
	if err := adapter.prepareStatements(); err != nil {
		_ = adapter.Close()
		return nil, err
	}

	return adapter, nil
}

func (a *Adapter) prepareStatements() error {
	for _, spec := range prepareStatementSpecs {
		stmt, err := a.db.Prepare(spec.query)
		if err != nil {
			return fmt.Errorf("postgres keyring: failed to prepare %s statement: %w", spec.label, err)
		}
		spec.assign(&a.stmts, stmt)
	}
	return nil
}

func (a *Adapter) Close() error {
	if a == nil {
		return nil
	}

	var errs []error
	for _, stmt := range []*sql.Stmt{
		a.stmts.setEntry,
		a.stmts.getEntry,
		a.stmts.deleteEntry,
	} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.stmts = preparedStatements{}

	return errors.Join(errs...)
}

func (a *Adapter) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return errors.New("postgres keyring: key is required")
	}
	if a.stmts.setEntry == nil {
		return ErrAdapterNotInitialized
	}

	if _, err := a.stmts.setEntry.ExecContext(ctx, key, value); err != nil {
		return fmt.Errorf("postgres keyring: failed to set %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("postgres keyring: key is required")
	}
	if a.stmts.getEntry == nil {
		return "", false, ErrAdapterNotInitialized
	}

	var value string
	err := a.stmts.getEntry.QueryRowContext(ctx, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres keyring: failed to get %q: %w", key, err)
	}
	return value, true, nil
}

func (a *Adapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("postgres keyring: key is required")
	}
	if a.stmts.deleteEntry == nil {
		return ErrAdapterNotInitialized
	}

	if _, err := a.stmts.deleteEntry.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("postgres keyring: failed to delete %q: %w", key, err)
	}
	return nil
}

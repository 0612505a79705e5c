package postgres_test

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	postgreskeyring "github.com/urbanaid/urbanaid-go/pkg/keyring/postgres"
	"github.com/urbanaid/urbanaid-go/pkg/keyring/testsuite"
)

// Requires a database with the keyring migrations applied.
func TestAdapterConformance(t *testing.T) {
	dsn := os.Getenv("URBANAID_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set URBANAID_TEST_POSTGRES_DSN to run postgres keyring tests")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	adapter, err := postgreskeyring.NewAdapter(db)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			t.Errorf("failed to close adapter: %v", err)
		}
	}()

	testsuite.Run(t, adapter)
}

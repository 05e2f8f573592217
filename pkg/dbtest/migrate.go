package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(ctx context.Context, db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}

// DSN returns the database used by integration tests and skips the test when
// PG_TEST_DSN is not set.
func DSN(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	return dsn
}

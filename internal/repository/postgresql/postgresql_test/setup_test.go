package postgresql_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var (
	testDB      *database.DB
	testDBErr   error
	testDBOnce  sync.Once
	testTables  = []string{"payroll_entries", "payroll_runs", "attendances", "shift_assignments", "shifts", "leave_requests", "leave_balances", "salary_records", "employees"}
	migrationUp = filepath.Join("..", "..", "..", "..", "migrations", "0001_init.up.sql")
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema once and
// empties every table. Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping PostgreSQL integration test")
	}

	testDBOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
		if testDBErr != nil {
			return
		}

		var schema []byte
		schema, testDBErr = os.ReadFile(migrationUp)
		if testDBErr != nil {
			return
		}

		conn, err := testDB.Acquire(ctx)
		if err != nil {
			testDBErr = err
			return
		}
		defer conn.Release()
		_, testDBErr = conn.Conn().PgConn().Exec(ctx, string(schema)).ReadAll()
	})
	require.NoError(t, testDBErr)

	ctx := context.Background()
	for _, table := range testTables {
		_, err := testDB.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}
	return testDB
}

func createTestEmployee(t *testing.T, ctx context.Context, code, role string) string {
	t.Helper()
	var id string
	err := testDB.QueryRow(ctx, `
		INSERT INTO employees (employee_code, full_name, role, employment_status, hire_date)
		VALUES ($1, $2, $3, 'active', '2023-01-01')
		RETURNING id::text
	`, code, "Employee "+code, role).Scan(&id)
	require.NoError(t, err)
	return id
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

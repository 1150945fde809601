package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/postgresql"
)

// TestDatabaseSetup holds a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// calling test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to truncate: %v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row, keeping schema_migrations.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"salary_complaints",
		"salary_slips",
		"overtime_requests",
		"leave_requests",
		"attendances",
		"user_roles",
		"employees",
		"positions",
		"departments",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

// SeedDepartment inserts a department and returns its id.
func (t *TestDatabaseSetup) SeedDepartment(ctx context.Context, name string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `INSERT INTO departments (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}

// SeedPosition inserts a position with the given tag and returns its id.
func (t *TestDatabaseSetup) SeedPosition(ctx context.Context, name, tag string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `INSERT INTO positions (name, tag) VALUES ($1, $2) RETURNING id`, name, tag).Scan(&id)
	return id, err
}

// SeedEmployee inserts an employee linked to userID and returns the employee id.
func (t *TestDatabaseSetup) SeedEmployee(ctx context.Context, userID, code, name string, departmentID, positionID *string, baseSalary string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO employees (user_id, employee_code, full_name, department_id, position_id, base_salary)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
		RETURNING id
	`, userID, code, name, departmentID, positionID, baseSalary).Scan(&id)
	return id, err
}

package migrations_test

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-crm/migrations"
)

func TestMigrationsApplyToSQLite(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	for _, fsys := range migrations.Filesystems() {
		if err := applyFilesystem(ctx, db, fsys); err != nil {
			t.Fatalf("failed to apply migrations: %v", err)
		}
	}

	var tableName string
	if err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='crm_companies'").Scan(&tableName); err != nil {
		t.Fatalf("failed to verify crm_companies table: %v", err)
	}
	if tableName != "crm_companies" {
		t.Fatalf("expected crm_companies table, got %q", tableName)
	}

	if err := migrations.ValidateSchema(ctx, db, "sqlite"); err != nil {
		t.Fatalf("schema validation failed: %v", err)
	}
}

func TestTenantRemovalCascadesToScopedRows(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	for _, fsys := range migrations.Filesystems() {
		if err := applyFilesystem(ctx, db, fsys); err != nil {
			t.Fatalf("failed to apply migrations: %v", err)
		}
	}

	seed := []string{
		"INSERT INTO tenants (id, name) VALUES ('t1', 'Acme')",
		"INSERT INTO crm_companies (id, tenant_id, name) VALUES ('c1', 't1', 'Alfa')",
		"INSERT INTO crm_contacts (id, tenant_id, first_name) VALUES ('p1', 't1', 'Maria')",
		"INSERT INTO crm_deals (id, tenant_id, name) VALUES ('d1', 't1', 'Renewal')",
		"INSERT INTO crm_audit_log (id, entity_type, entity_id, tenant_id, kind) VALUES ('a1', 'company', 'c1', 't1', 'creation')",
		"INSERT INTO crm_companies (id, name) VALUES ('c2', 'Shared')",
	}
	for _, stmt := range seed {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to seed row: %v", err)
		}
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM tenants WHERE id = 't1'"); err != nil {
		t.Fatalf("failed to delete tenant: %v", err)
	}

	counts := map[string]int{
		"SELECT count(*) FROM crm_companies WHERE tenant_id = 't1'": 0,
		"SELECT count(*) FROM crm_contacts":                         0,
		"SELECT count(*) FROM crm_deals":                            0,
		"SELECT count(*) FROM crm_audit_log":                        0,
		"SELECT count(*) FROM crm_companies WHERE id = 'c2'":        1,
	}
	for query, want := range counts {
		var got int
		if err := db.QueryRowContext(ctx, query).Scan(&got); err != nil {
			t.Fatalf("count query failed: %v", err)
		}
		if got != want {
			t.Fatalf("%s: got %d rows, want %d", query, got, want)
		}
	}
}

func TestValidateSchemaReportsMissingTables(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	err = migrations.ValidateSchema(context.Background(), db, "sqlite")
	if err == nil {
		t.Fatal("expected validation error against empty database")
	}
	var schemaErr *migrations.SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError, got %T", err)
	}
	if len(schemaErr.MissingTables) == 0 {
		t.Fatal("expected missing tables to be reported")
	}
}

func applyFilesystem(ctx context.Context, db *sql.DB, filesystem fs.FS) error {
	entries, err := fs.Glob(filesystem, "sqlite/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)
	for _, entry := range entries {
		sqlBytes, err := fs.ReadFile(filesystem, entry)
		if err != nil {
			return err
		}
		statements := splitStatements(string(sqlBytes))
		for _, stmt := range statements {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

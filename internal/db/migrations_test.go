// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "modernc.org/sqlite"
)

func TestRunMigrationsSqlite(t *testing.T) {
	dsn := "file:test_migrations?mode=memory&cache=shared"
	dbConn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	// Second run is a no-op.
	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}

	rows, err := dbConn.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("query schema_migrations failed: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan version failed: %v", err)
		}
		versions = append(versions, v)
	}
	want := []string{"000001_create_vehicles", "000002_index_vehicles_updated_at"}
	if len(versions) != len(want) {
		t.Fatalf("expected %v, got %v", want, versions)
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, versions)
		}
	}

	pending, err := PendingMigrations(dbConn, "sqlite")
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending migrations, got %v %v", pending, err)
	}
}

func TestMigrationFiles_AllDialects(t *testing.T) {
	for _, typ := range SupportedTypes {
		files, err := migrationFiles(typ)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if len(files) != 2 {
			t.Fatalf("%s: expected 2 migrations, got %v", typ, files)
		}
	}
}

func TestRunMigrations_FailedStatementRollsBack(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = dbMock.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM schema_migrations").WithArgs("000001_create_vehicles").WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("SELECT 1 FROM schema_migrations").WithArgs("000002_index_vehicles_updated_at").WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS vehicles").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := RunMigrations(dbMock, "sqlite"); err == nil {
		t.Fatalf("expected migration failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunMigrations_PostgresPlaceholders(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = dbMock.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM schema_migrations WHERE version = \$1`).WithArgs("000001_create_vehicles").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM schema_migrations WHERE version = \$1`).WithArgs("000002_index_vehicles_updated_at").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	if err := RunMigrations(dbMock, "postgres"); err != nil {
		t.Fatalf("expected all migrations to be skipped, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewStoreFromDSN_MigrationFailureClosesDB(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) { return dbMock, nil }
	defer func() { sqlOpenFunc = orig }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnError(errors.New("permission denied"))
	mock.ExpectClose()

	if _, err := NewStoreFromDSN("sqlite", "whatever"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_Sqlite_WithMock_Success(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) { return dbMock, nil }
	defer func() { sqlOpenFunc = orig }()

	mock.ExpectExec("PRAGMA optimize").WillReturnError(errors.New("optimize unsupported"))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`PRAGMA wal_checkpoint\(`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("ok"))
	mock.ExpectClose()

	if err := RunDBMaintenance(context.Background(), "sqlite", "whatever"); err != nil {
		t.Fatalf("expected RunDBMaintenance success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_Sqlite_IntegrityFailure(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) { return dbMock, nil }
	defer func() { sqlOpenFunc = orig }()

	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`PRAGMA wal_checkpoint\(`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("row 3 missing"))

	if err := RunDBMaintenance(context.Background(), "sqlite", "whatever"); err == nil {
		t.Fatalf("expected integrity failure")
	}
}

func TestRunDBMaintenance_Postgres_WithMock(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("expected pgx driver, got %s", driverName)
		}
		return dbMock, nil
	}
	defer func() { sqlOpenFunc = orig }()

	mock.ExpectExec("VACUUM ANALYZE").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := RunDBMaintenance(context.Background(), "postgres", "dsn"); err != nil {
		t.Fatalf("expected postgres maintenance to succeed, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_MySQL_WithMock(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) { return dbMock, nil }
	defer func() { sqlOpenFunc = orig }()

	mock.ExpectExec("OPTIMIZE TABLE vehicles").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := RunDBMaintenance(context.Background(), "mysql", "dsn"); err != nil {
		t.Fatalf("expected mysql maintenance to succeed, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

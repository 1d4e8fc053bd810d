package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// ConnectionError creates an error for a failed PostgreSQL connection
// with remediation steps.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `<title>Database Connection Failed</title>

<warning>Could not connect to PostgreSQL at <em>%s:%d</em>.</warning>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify the <em>%s</em> database exists and <em>%s</em> can reach it:
     <em>psql -h %s -U %s -l</em>

  3. Review connection settings:
     <em>~/.config/guilddb/config.yaml</em>`

	vars := []any{
		host, port,
		host, port,
		database, user,
		host, user,
	}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted
// before Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError creates an error for when checking database
// state fails.
func TableCheckError(err error) error {
	msg := "Could not verify database state"

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// EmptyDatabaseError creates an error for an unpopulated database.
func EmptyDatabaseError(host, database string) error {
	msg := `<title>Database Not Ready</title>

<warning>The database appears to be empty or not populated.</warning>

<em>Required steps:</em>
  1. Create the database schema:
     <em>guilddb create</em>

  2. Import the dataset snapshots:
     <em>guilddb import</em>

  3. Build organism profiles:
     <em>guilddb profiles</em>

<em>Current database state:</em>
  Host: %s
  Database: %s
  Status: No tables found`

	vars := []any{host, database}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"database has no tables - run 'guilddb create' and 'guilddb import' first"),
	}
}

// TableExistsCheckError creates an error for a failed table
// existence check.
func TableExistsCheckError(tableName string, err error) error {
	msg := "Could not check if table <em>%s</em> exists"
	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to check table %s: %w",
			tableName, err),
	}
}

// QueryTablesError creates an error for a failed table listing.
func QueryTablesError(err error) error {
	msg := "Could not list database tables"

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError creates an error for a failed table name scan.
func ScanTableError(err error) error {
	msg := "Could not read table names"

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError creates an error for a failed table drop.
func DropTableError(tableName string, err error) error {
	msg := "Could not drop table <em>%s</em>"
	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to drop table %s: %w",
			tableName, err),
	}
}

// QueryViewsError creates an error for a failed materialized view
// listing.
func QueryViewsError(err error) error {
	msg := "Could not list materialized views"

	return &gn.Error{
		Code: errcode.DBQueryViewsError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to query materialized views: %w", err),
	}
}

// ScanViewError creates an error for a failed view name scan.
func ScanViewError(err error) error {
	msg := "Could not read materialized view names"

	return &gn.Error{
		Code: errcode.DBScanViewError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to scan view name: %w", err),
	}
}

// DropViewError creates an error for a failed materialized view drop.
func DropViewError(viewName string, err error) error {
	msg := "Could not drop materialized view <em>%s</em>"
	vars := []any{viewName}

	return &gn.Error{
		Code: errcode.DBDropViewError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to drop view %s: %w",
			viewName, err),
	}
}

// CreateViewError creates an error for a failed materialized view
// creation.
func CreateViewError(viewName string, err error) error {
	msg := "Could not create materialized view <em>%s</em>"
	vars := []any{viewName}

	return &gn.Error{
		Code: errcode.DBCreateViewError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to create view %s: %w",
			viewName, err),
	}
}

// CreateViewIndexError creates an error for a failed index creation
// on a materialized view.
func CreateViewIndexError(viewName string, err error) error {
	msg := "Could not create index on materialized view <em>%s</em>"
	vars := []any{viewName}

	return &gn.Error{
		Code: errcode.DBCreateViewIndexError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to create index on view %s: %w",
			viewName, err),
	}
}

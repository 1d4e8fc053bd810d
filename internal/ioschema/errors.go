package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot open a GORM session on the connection pool

<em>Possible causes:</em>
  - Connection pool closed before schema work started
  - PostgreSQL refused the session
  - GORM postgres driver problem

<em>How to fix:</em>
  1. Check the database section of the configuration file
  2. Retry <em>'guilddb create'</em> once PostgreSQL is reachable
  3. Check PostgreSQL logs for refused connections`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create the guild database schema

<em>Possible causes:</em>
  - Database user lacks CREATE permission
  - Leftover tables from an aborted run conflict with the models
  - PostgreSQL constraint violations

<em>How to fix:</em>
  1. Grant CREATE on the database to the configured user
  2. Run <em>'guilddb create --force'</em> to drop leftovers first
  3. Check PostgreSQL logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate the guild database schema

<em>Possible causes:</em>
  - Existing rows violate a tightened column constraint
  - Database user lacks ALTER permission
  - Schema drifted outside AutoMigrate's reach

<em>How to fix:</em>
  1. Check which table blocks the migration in PostgreSQL logs
  2. Grant ALTER on the affected tables to the configured user
  3. As a last resort rebuild with <em>'guilddb create --force'</em>
     and re-import`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// CollationError creates an error for collation
// setting failures.
func CollationError(table, column string, err error) error {
	msg := `Cannot set "C" collation on <em>%s.%s</em>

Plant ids and organism names must sort bytewise, otherwise the
distance matrix roster order depends on the server locale.

<em>Possible causes:</em>
  - Table was not created in this run
  - Database user lacks ALTER permission
  - A view still depends on the column

<em>How to fix:</em>
  1. Run <em>'guilddb create'</em> so all tables exist first
  2. Grant ALTER on the table to the configured user
  3. Check PostgreSQL logs for the blocking dependency`

	vars := []any{table, column}

	return &gn.Error{
		Code: errcode.SchemaCollationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to set collation on %s.%s: %w",
			table, column, err),
	}
}

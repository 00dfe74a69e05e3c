// Package schema reads table and relationship metadata out of a SQLite
// database through the database.DB contract.
package schema

import "context"

// Reader is the interface for introspecting a database schema
type Reader interface {
	// ListTables returns all user tables, sorted by name
	ListTables(ctx context.Context) ([]string, error)

	// TableExists checks whether a table exists
	TableExists(ctx context.Context, table string) (bool, error)

	// InspectTable returns full column info for a table
	InspectTable(ctx context.Context, table string) (*TableInfo, error)

	// ListForeignKeys returns every foreign key of every user table
	ListForeignKeys(ctx context.Context) ([]ForeignKey, error)

	// InspectSchema returns the full schema (all tables + foreign keys)
	InspectSchema(ctx context.Context) (*SchemaInfo, error)
}

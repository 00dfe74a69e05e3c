package database

import "context"

// DB is the central contract for all wrapper operations.
// Layers above this package (schema introspection, the CLI) talk only to
// this interface; they never import the sqlite package's internals.
//
// Every call opens the connection on entry and closes it before returning;
// ExecuteTransaction keeps it open across all of its statements.
// Implementations are not safe for concurrent use.
type DB interface {
	// ExecuteNonQuery runs a statement that mutates state and returns the
	// number of affected rows. Parameters bind to @0, @1, … by position.
	ExecuteNonQuery(ctx context.Context, commandText string, params ...any) (int64, error)

	// ExecuteReader runs a statement that produces rows and materializes
	// all of them into a Table.
	ExecuteReader(ctx context.Context, commandText string, params ...any) (*Table, error)

	// ExecuteScalar returns the first column of the first row, or nil when
	// the statement produced no rows. Use Scalar for a typed result.
	ExecuteScalar(ctx context.Context, commandText string, params ...any) (any, error)

	// ExecuteTransaction applies every query in one transaction. Either all
	// of them are committed or none are.
	ExecuteTransaction(ctx context.Context, queries ...Query) error

	// ExecuteTransactionCommand is ExecuteTransaction for a single command.
	ExecuteTransactionCommand(ctx context.Context, commandText string, params ...any) error

	// TestConnection opens and closes the connection, reporting the
	// failure message when it cannot be opened.
	TestConnection(ctx context.Context) (bool, string)

	// Close releases the transaction and connection handles. It is safe to
	// call more than once.
	Close() error
}

// Rows is an abstraction over a database result set.
// *sql.Rows satisfies it.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set in cursor order.
	Columns() ([]string, error)

	// Close releases resources held by the result set.
	Close() error

	// Err returns any error encountered during iteration.
	Err() error
}

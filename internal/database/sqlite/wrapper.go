// Package sqlite implements database.DB on top of an embedded SQLite file.
//
// A Wrapper owns one configuration, one connection handle and at most one
// transaction. Every public operation opens the connection, runs, and closes
// it again before returning; ExecuteTransaction keeps the connection open
// across its statements and closes it after commit or rollback.
//
// Usage:
//
//	w, err := sqlite.New(ctx, "/var/lib/app/test.db", "3")
//	if err != nil { ... }
//	defer w.Close()
//
//	n, err := w.ExecuteNonQuery(ctx, "INSERT INTO test (id, value) VALUES (@0, @1)", 7, "seven")
//
// A Wrapper is not safe for concurrent use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/koustreak/litedb/internal/database"
	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/logger"
)

const msgUnableToConnect = "unable to connect to database"

// Wrapper is the SQLite implementation of database.DB.
type Wrapper struct {
	cfg    Configuration
	driver Driver
	log    *logger.Logger

	db   *sql.DB   // single physical connection, never pooled while idle
	conn *sql.Conn // non-nil only while an operation holds the connection
	tx   *sql.Tx   // non-nil only between begin and commit/rollback

	closed bool
}

var _ database.DB = (*Wrapper)(nil)

// New connects to the database file at databasePath. The configuration is
// kept in memory only, unless WithPersist is given, in which case it is
// written (to WithConfigurationPath or the well-known location) before
// connecting. The database must be reachable: on failure an
// ErrKindConnectionFailed error is returned and no Wrapper is created.
func New(ctx context.Context, databasePath, databaseVersion string, opts ...Option) (*Wrapper, error) {
	o := buildOptions(opts)

	cfg := &Configuration{file: o.configurationPath}
	if o.persist {
		var err error
		if cfg, err = NewConfiguration(o.configurationPath); err != nil {
			return nil, err
		}
	}
	cfg.DatabasePath = databasePath
	cfg.DatabaseVersion = databaseVersion
	cfg.Password = o.password

	if o.persist {
		if err := cfg.Write(); err != nil {
			return nil, err
		}
		o.log.InfoWith("configuration persisted", map[string]interface{}{"file": cfg.File()})
	}

	return open(ctx, cfg, o)
}

// NewFromConfiguration loads the configuration file at configurationPath
// (the well-known location when empty) and connects with it. A missing or
// malformed file is an ErrKindConfigLoad error; an unreachable database is
// an ErrKindConnectionFailed error.
func NewFromConfiguration(ctx context.Context, configurationPath string, opts ...Option) (*Wrapper, error) {
	o := buildOptions(opts)

	cfg, err := NewConfiguration(configurationPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Read(); err != nil {
		return nil, err
	}

	return open(ctx, cfg, o)
}

// open builds the handle from the configuration and validates reachability before handing the Wrapper out.
func open(ctx context.Context, cfg *Configuration, o *options) (*Wrapper, error) {
	source, err := dsn(o.driver, cfg, o.busyTimeout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(o.driver), source)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, msgUnableToConnect, err)
	}

	// One connection, closed for real whenever it is released.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	w := &Wrapper{
		cfg:    *cfg,
		driver: o.driver,
		log: o.log.With().
			Str("component", "sqlite").
			Str("path", cfg.DatabasePath).
			Int("busy_timeout_ms", int(o.busyTimeout.Milliseconds())).
			Bool("encrypted", cfg.Password != "").
			Logger(),
		db: db,
	}

	if err := w.testConnection(ctx); err != nil {
		_ = db.Close()
		w.log.ErrorWith("database not reachable", err, nil)
		return nil, err
	}

	w.log.InfoWith("database reachable", map[string]interface{}{
		"driver":  string(o.driver),
		"version": cfg.DatabaseVersion,
	})
	return w, nil
}

// Configuration returns a copy of the wrapper's configuration.
func (w *Wrapper) Configuration() Configuration {
	return w.cfg
}

// Path returns the database file path.
func (w *Wrapper) Path() string {
	return w.cfg.DatabasePath
}

// --- database.DB implementation ---

// ExecuteNonQuery runs a statement that mutates state and returns the
// number of affected rows.
func (w *Wrapper) ExecuteNonQuery(ctx context.Context, commandText string, params ...any) (int64, error) {
	if err := w.openConnection(ctx); err != nil {
		return 0, err
	}
	defer w.closeConnection()

	return w.execNonQuery(ctx, commandText, params)
}

// ExecuteReader runs a statement and materializes every row into a Table.
func (w *Wrapper) ExecuteReader(ctx context.Context, commandText string, params ...any) (*database.Table, error) {
	if err := w.openConnection(ctx); err != nil {
		return nil, err
	}
	defer w.closeConnection()

	stmt, err := w.prepare(ctx, commandText)
	if err != nil {
		return nil, err
	}
	defer stmt.Close() //nolint:errcheck // statement is finalized with the connection

	rows, err := stmt.QueryContext(ctx, params...)
	if err != nil {
		return nil, mapError(err, "failed to execute query")
	}

	table, err := database.ScanTable(rows)
	if err != nil {
		return nil, mapError(err, "failed to read result")
	}
	return table, nil
}

// ExecuteScalar returns the first column of the first row, or nil when
// the statement produced no rows.
func (w *Wrapper) ExecuteScalar(ctx context.Context, commandText string, params ...any) (any, error) {
	if err := w.openConnection(ctx); err != nil {
		return nil, err
	}
	defer w.closeConnection()

	stmt, err := w.prepare(ctx, commandText)
	if err != nil {
		return nil, err
	}
	defer stmt.Close() //nolint:errcheck // statement is finalized with the connection

	var v any
	if err := stmt.QueryRowContext(ctx, params...).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "failed to execute scalar query")
	}
	return v, nil
}

// ExecuteTransaction runs every query inside one transaction. If any of
// them fails the transaction is rolled back and the failure is returned as
// an ErrKindTransaction error wrapping the statement's error.
func (w *Wrapper) ExecuteTransaction(ctx context.Context, queries ...database.Query) error {
	if err := w.startTransaction(ctx); err != nil {
		return errs.Wrap(errs.ErrKindTransaction, "failed to start transaction", err)
	}
	defer func() {
		// only reached with a live transaction if a statement panicked
		if w.tx != nil {
			_ = w.rollbackTransaction()
		}
	}()

	for i, q := range queries {
		if _, err := w.execNonQuery(ctx, q.CommandText, q.Parameters); err != nil {
			if rbErr := w.rollbackTransaction(); rbErr != nil {
				w.log.ErrorWith("rollback failed", rbErr, nil)
			}
			w.log.WarnWith("transaction rolled back", err, map[string]interface{}{
				"statement":  i,
				"statements": len(queries),
			})
			return errs.Wrap(errs.ErrKindTransaction,
				fmt.Sprintf("transaction rolled back: statement %d of %d failed", i+1, len(queries)), err)
		}
	}

	if err := w.commitTransaction(); err != nil {
		return errs.Wrap(errs.ErrKindTransaction, "transaction not committed", err)
	}

	w.log.DebugWith("transaction committed", map[string]interface{}{"statements": len(queries)})
	return nil
}

// ExecuteTransactionCommand runs a single command as a transaction.
func (w *Wrapper) ExecuteTransactionCommand(ctx context.Context, commandText string, params ...any) error {
	return w.ExecuteTransaction(ctx, database.NewQuery(commandText, params...))
}

// TestConnection opens and closes the connection. On failure it returns
// false and the failure message.
func (w *Wrapper) TestConnection(ctx context.Context) (bool, string) {
	if err := w.testConnection(ctx); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Close releases the transaction (rolling it back) and the connection.
// Calling it again is a no-op.
func (w *Wrapper) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			firstErr = mapError(err, "failed to roll back transaction on close")
		}
		w.tx = nil
	}
	w.closeConnection()

	if w.db != nil {
		if err := w.db.Close(); err != nil && firstErr == nil {
			firstErr = mapError(err, "failed to close database handle")
		}
		w.db = nil
	}

	w.log.Debug("wrapper closed")
	return firstErr
}

// --- connection lifecycle ---

func (w *Wrapper) testConnection(ctx context.Context) error {
	if err := w.openConnection(ctx); err != nil {
		return err
	}
	defer w.closeConnection()

	// Reading the schema forces SQLite to touch the file, which surfaces
	// "file is not a database" and wrong keys.
	var n int64
	if err := w.conn.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, msgUnableToConnect, err)
	}
	return nil
}

// openConnection acquires the connection. Only startTransaction checks
// whether it is already open; everywhere else an open connection at entry
// is a misuse and fails.
func (w *Wrapper) openConnection(ctx context.Context) error {
	if w.closed {
		return errs.New(errs.ErrKindClosed, "wrapper is closed")
	}
	if w.conn != nil {
		return errs.New(errs.ErrKindConnectionFailed, "connection is already open")
	}

	conn, err := w.db.Conn(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, msgUnableToConnect, err)
	}

	if w.cfg.Password != "" {
		if _, err := conn.ExecContext(ctx, "PRAGMA key = "+quoteLiteral(w.cfg.Password)); err != nil {
			_ = conn.Close()
			return errs.Wrap(errs.ErrKindConnectionFailed, msgUnableToConnect, err)
		}
	}

	w.conn = conn
	w.log.Debug("connection opened")
	return nil
}

func (w *Wrapper) closeConnection() {
	if w.conn == nil {
		return
	}
	if err := w.conn.Close(); err != nil {
		w.log.WarnWith("failed to close connection", err, nil)
	}
	w.conn = nil
	w.log.Debug("connection closed")
}

// --- transaction state machine: idle -> started -> committed | rolled back -> idle ---

func (w *Wrapper) startTransaction(ctx context.Context) error {
	if w.conn == nil {
		if err := w.openConnection(ctx); err != nil {
			return err
		}
	}

	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		w.tx = nil
		w.closeConnection()
		return mapError(err, "failed to begin transaction")
	}

	w.tx = tx
	w.log.Debug("transaction started")
	return nil
}

func (w *Wrapper) commitTransaction() error {
	defer w.endTransaction()

	if err := w.tx.Commit(); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	return nil
}

func (w *Wrapper) rollbackTransaction() error {
	defer w.endTransaction()

	if err := w.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return mapError(err, "failed to roll back transaction")
	}
	return nil
}

// endTransaction runs after commit and rollback whether or not they failed.
func (w *Wrapper) endTransaction() {
	w.closeConnection()
	w.tx = nil
}

// --- command preparation ---

// prepare binds the command to the current transaction if there is one,
// otherwise to the open connection, and compiles it.
func (w *Wrapper) prepare(ctx context.Context, commandText string) (*sql.Stmt, error) {
	query := database.BindPlaceholders(commandText)

	var (
		stmt *sql.Stmt
		err  error
	)
	if w.tx != nil {
		stmt, err = w.tx.PrepareContext(ctx, query)
	} else {
		stmt, err = w.conn.PrepareContext(ctx, query)
	}
	if err != nil {
		return nil, mapError(err, "failed to prepare statement")
	}

	w.log.DebugWith("statement prepared", map[string]interface{}{"command": commandText})
	return stmt, nil
}

func (w *Wrapper) execNonQuery(ctx context.Context, commandText string, params []any) (int64, error) {
	stmt, err := w.prepare(ctx, commandText)
	if err != nil {
		return 0, err
	}
	defer stmt.Close() //nolint:errcheck // statement is finalized with the connection

	res, err := stmt.ExecContext(ctx, params...)
	if err != nil {
		return 0, mapError(err, "failed to execute statement")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err, "failed to read affected rows")
	}
	return n, nil
}

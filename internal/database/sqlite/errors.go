package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/koustreak/litedb/internal/errs"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// codeExtractors pull the SQLite result code out of a driver error. The
// cgo build adds the mattn/go-sqlite3 extractor.
var codeExtractors = []func(error) (int, bool){moderncCode}

func moderncCode(err error) (int, bool) {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code(), true
	}
	return 0, false
}

// mapError translates SQLite driver errors into *errs.Error. The driver
// error is kept as Cause so its message reaches the caller verbatim.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	for _, extract := range codeExtractors {
		if code, ok := extract(err); ok {
			return errs.Wrap(classifyCode(code), msg, err)
		}
	}

	// Bind mismatches and other database/sql level failures
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// classifyCode maps a (possibly extended) SQLite result code to ErrKind.
// Full list: https://www.sqlite.org/rescode.html
func classifyCode(code int) errs.ErrKind {
	switch code & 0xff {
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_IOERR:
		return errs.ErrKindConnectionFailed
	case sqlite3.SQLITE_PERM, sqlite3.SQLITE_READONLY:
		return errs.ErrKindPermissionDenied
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_INTERRUPT:
		return errs.ErrKindTimeout
	default:
		// SQLITE_ERROR, SQLITE_CONSTRAINT, SQLITE_MISMATCH, SQLITE_RANGE, …
		return errs.ErrKindQueryFailed
	}
}

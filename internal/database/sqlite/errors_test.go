package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/stretchr/testify/assert"
	sqlite3 "modernc.org/sqlite/lib"
)

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		code int
		want errs.ErrKind
	}{
		{sqlite3.SQLITE_CANTOPEN, errs.ErrKindConnectionFailed},
		{sqlite3.SQLITE_NOTADB, errs.ErrKindConnectionFailed},
		{sqlite3.SQLITE_READONLY, errs.ErrKindPermissionDenied},
		{sqlite3.SQLITE_BUSY, errs.ErrKindTimeout},
		{sqlite3.SQLITE_CONSTRAINT, errs.ErrKindQueryFailed},
		{sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, errs.ErrKindQueryFailed},
		{sqlite3.SQLITE_IOERR_READ, errs.ErrKindConnectionFailed},
		{sqlite3.SQLITE_ERROR, errs.ErrKindQueryFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyCode(tt.code), "code %d", tt.code)
	}
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil, "x"))

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"deadline", context.DeadlineExceeded, errs.IsTimeout},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), errs.IsTimeout},
		{"canceled while scanning", fmt.Errorf("scan row: %w", context.Canceled), errs.IsTimeout},
		{"no rows", sql.ErrNoRows, errs.IsNotFound},
		{"conn done", sql.ErrConnDone, errs.IsConnectionFailed},
		{"other", errors.New("sql: expected 2 arguments, got 1"), errs.IsQueryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "failed")
			assert.True(t, tt.check(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("unable to open database file")

	assert.Equal(t, "[connection_failed] unable to connect to database: unable to open database file",
		Wrap(ErrKindConnectionFailed, "unable to connect to database", cause).Error())
	assert.Equal(t, "[closed] wrapper is closed", New(ErrKindClosed, "wrapper is closed").Error())
	assert.Equal(t, "[invalid_input] row 3 out of range", Newf(ErrKindInvalidInput, "row %d out of range", 3).Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrKindQueryFailed, "statement failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("outer: %w", err), cause)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", New(ErrKindNotFound, "x"), IsNotFound},
		{"timeout", New(ErrKindTimeout, "x"), IsTimeout},
		{"connection", New(ErrKindConnectionFailed, "x"), IsConnectionFailed},
		{"query", New(ErrKindQueryFailed, "x"), IsQueryFailed},
		{"invalid input", New(ErrKindInvalidInput, "x"), IsInvalidInput},
		{"permission", New(ErrKindPermissionDenied, "x"), IsPermissionDenied},
		{"config load", New(ErrKindConfigLoad, "x"), IsConfigLoad},
		{"type cast", New(ErrKindTypeCast, "x"), IsTypeCast},
		{"transaction", New(ErrKindTransaction, "x"), IsTransaction},
		{"closed", New(ErrKindClosed, "x"), IsClosed},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrKindConfigLoad, "x")), IsConfigLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicates_NestedKinds(t *testing.T) {
	stmt := Wrap(ErrKindQueryFailed, "statement failed", errors.New("UNIQUE constraint failed: test.id"))
	tx := Wrap(ErrKindTransaction, "transaction rolled back", stmt)

	assert.True(t, IsTransaction(tx))
	assert.True(t, IsQueryFailed(tx))
	assert.False(t, IsConnectionFailed(tx))
	assert.Equal(t, ErrKindTransaction, KindOf(tx))
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
}

func TestErrKind_String(t *testing.T) {
	assert.Equal(t, "unknown", ErrKindUnknown.String())
	assert.Equal(t, "config_load_failed", ErrKindConfigLoad.String())
	assert.Equal(t, "transaction_failed", ErrKindTransaction.String())
	assert.Equal(t, "unknown", ErrKind(99).String())
}

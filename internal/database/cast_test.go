package database

import (
	"context"
	"errors"
	"testing"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scalarDB answers ExecuteScalar with a canned value; the other methods are
// never reached by Scalar.
type scalarDB struct {
	DB
	value   any
	err     error
	gotCmd  string
	gotArgs []any
}

func (s *scalarDB) ExecuteScalar(_ context.Context, commandText string, params ...any) (any, error) {
	s.gotCmd, s.gotArgs = commandText, params
	return s.value, s.err
}

func TestCast(t *testing.T) {
	s, err := Cast[string]("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", s)

	s, err = Cast[string]([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", s)

	n, err := Cast[int64](int64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	a, err := Cast[any](3.5)
	require.NoError(t, err)
	assert.Equal(t, 3.5, a)
}

func TestCast_Failures(t *testing.T) {
	_, err := Cast[int](int64(42))
	require.Error(t, err)
	assert.True(t, errs.IsTypeCast(err))
	assert.Contains(t, err.Error(), "cannot cast int64 to int")

	_, err = Cast[string](nil)
	assert.True(t, errs.IsTypeCast(err))

	_, err = Cast[int64]("12")
	assert.True(t, errs.IsTypeCast(err))
}

func TestCast_NilIntoNilable(t *testing.T) {
	a, err := Cast[any](nil)
	require.NoError(t, err)
	assert.Nil(t, a)

	p, err := Cast[*string](nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	b, err := Cast[[]byte](nil)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestScalar(t *testing.T) {
	db := &scalarDB{value: "Hello World"}

	got, err := Scalar[string](context.Background(), db, "SELECT value FROM test WHERE id = @0", 2)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)
	assert.Equal(t, "SELECT value FROM test WHERE id = @0", db.gotCmd)
	assert.Equal(t, []any{2}, db.gotArgs)

	_, err = Scalar[int64](context.Background(), db, "SELECT value FROM test")
	assert.True(t, errs.IsTypeCast(err))
}

func TestScalar_PropagatesExecutionError(t *testing.T) {
	cause := errs.Wrap(errs.ErrKindQueryFailed, "statement failed", errors.New("no such table: nope"))
	db := &scalarDB{err: cause}

	_, err := Scalar[string](context.Background(), db, "SELECT x FROM nope")
	assert.Same(t, cause, err)
}

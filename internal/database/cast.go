package database

import (
	"context"
	"reflect"

	"github.com/koustreak/litedb/internal/errs"
)

// Scalar runs commandText through db.ExecuteScalar and casts the result
// to T. NULL or an empty result is only accepted when T can hold nil.
//
//	value, err := database.Scalar[string](ctx, db, "SELECT value FROM test WHERE id = @0", 2)
func Scalar[T any](ctx context.Context, db DB, commandText string, params ...any) (T, error) {
	v, err := db.ExecuteScalar(ctx, commandText, params...)
	if err != nil {
		var zero T
		return zero, err
	}
	return Cast[T](v)
}

// Cast converts a value read from the engine to T. The conversion is a
// plain type assertion; the only coercion applied is []byte to string.
func Cast[T any](v any) (T, error) {
	var zero T
	target := reflect.TypeOf((*T)(nil)).Elem()

	if v == nil {
		if nilable(target) {
			return zero, nil
		}
		return zero, errs.Newf(errs.ErrKindTypeCast, "cannot cast NULL to %s", target)
	}

	if out, ok := v.(T); ok {
		return out, nil
	}
	if b, ok := v.([]byte); ok {
		if out, ok := any(string(b)).(T); ok {
			return out, nil
		}
	}

	return zero, errs.Newf(errs.ErrKindTypeCast, "cannot cast %T to %s", v, target)
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

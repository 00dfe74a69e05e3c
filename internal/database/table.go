package database

import (
	"reflect"

	"github.com/koustreak/litedb/internal/errs"
)

// Column is one named value inside a Row.
type Column struct {
	Name  string
	Value any
}

// Row holds the values of one result row in cursor order.
type Row struct {
	Columns []Column
}

// Get returns the value of the first column called name.
func (r Row) Get(name string) (any, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Values returns the row's values in cursor order.
func (r Row) Values() []any {
	out := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Value
	}
	return out
}

// ColumnInfo describes a result column as reported by the driver.
type ColumnInfo struct {
	Name string

	// DatabaseType is the declared type (INTEGER, TEXT, …); empty for
	// expressions and when the driver does not report it.
	DatabaseType string

	Nullable bool
}

// Table is a fully materialized result set. It is never modified after
// it has been returned to the caller.
type Table struct {
	Schema []ColumnInfo
	Rows   []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Value returns the value stored at row / column.
func (t *Table) Value(row int, column string) (any, error) {
	if row < 0 || row >= t.Len() {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "row %d out of range (table has %d rows)", row, t.Len())
	}
	v, ok := t.Rows[row].Get(column)
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown column %q", column)
	}
	return v, nil
}

// GetValue returns the value at row / column cast to T.
func GetValue[T any](t *Table, row int, column string) (T, error) {
	v, err := t.Value(row, column)
	if err != nil {
		var zero T
		return zero, err
	}
	return Cast[T](v)
}

// Equal reports whether both tables hold the same values in the same
// order. Schema metadata is not compared.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	for i := range t.Rows {
		a, b := t.Rows[i].Columns, other.Rows[i].Columns
		if len(a) != len(b) {
			return false
		}
		for c := range a {
			if a[c].Name != b[c].Name || !reflect.DeepEqual(a[c].Value, b[c].Value) {
				return false
			}
		}
	}
	return true
}

// Maps returns each row as a column-name keyed map, the shape used for
// JSON output.
func (t *Table) Maps() []map[string]any {
	out := make([]map[string]any, 0, t.Len())
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		m := make(map[string]any, len(r.Columns))
		for _, c := range r.Columns {
			m[c.Name] = c.Value
		}
		out = append(out, m)
	}
	return out
}

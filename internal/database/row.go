package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// columnTyper is implemented by *sql.Rows.
type columnTyper interface {
	ColumnTypes() ([]*sql.ColumnType, error)
}

// ScanTable reads every row of the result set into a Table. Column order
// inside each row is the cursor order.
//
// The returned table always has a non-nil Rows slice (empty on zero rows).
// ScanTable always closes the Rows, callers do not need to call Close().
// Driver errors are returned wrapped but unclassified; the engine package
// maps them to an ErrKind.
func ScanTable(rows Rows) (*Table, error) {
	defer rows.Close() //nolint:errcheck // iteration errors are reported via Err

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read column names: %w", err)
	}

	schema := make([]ColumnInfo, len(columns))
	for i, name := range columns {
		schema[i].Name = name
	}
	if ct, ok := rows.(columnTyper); ok {
		if types, err := ct.ColumnTypes(); err == nil && len(types) == len(columns) {
			for i, typ := range types {
				schema[i].DatabaseType = typ.DatabaseTypeName()
				schema[i].Nullable, _ = typ.Nullable()
			}
		}
	}

	table := &Table{Schema: schema, Rows: make([]Row, 0)}

	for rows.Next() {
		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := Row{Columns: make([]Column, len(columns))}
		for i, col := range columns {
			row.Columns[i] = Column{Name: col, Value: normalize(dest[i], schema[i].DatabaseType)}
		}
		table.Rows = append(table.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return table, nil
}

// normalize turns driver []byte values of text-affinity columns into
// strings so that stored text compares equal to Go strings.
func normalize(v any, declType string) any {
	b, ok := v.([]byte)
	if !ok || !hasTextAffinity(declType) {
		return v
	}
	return string(b)
}

// hasTextAffinity applies SQLite's affinity rule 2 to a declared type.
func hasTextAffinity(declType string) bool {
	t := strings.ToUpper(declType)
	if strings.Contains(t, "INT") {
		return false
	}
	return strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") || strings.Contains(t, "TEXT")
}

package schema

import (
	"context"
	"fmt"
	"strconv"

	"github.com/koustreak/litedb/internal/database"
	"github.com/koustreak/litedb/internal/errs"
)

// mainSchema is the name SQLite gives the primary database file.
const mainSchema = "main"

// Introspector implements Reader for SQLite using sqlite_master and the
// table-valued pragma functions.
type Introspector struct {
	db database.DB
}

var _ Reader = (*Introspector)(nil)

// NewIntrospector creates a new SQLite schema introspector
func NewIntrospector(db database.DB) *Introspector {
	return &Introspector{db: db}
}

// ListTables returns all user-defined table names
func (s *Introspector) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`

	rows, err := s.db.ExecuteReader(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	tables := make([]string, 0, rows.Len())
	for _, r := range rows.Rows {
		name, _ := r.Get("name")
		tables = append(tables, text(name))
	}
	return tables, nil
}

// TableExists checks whether a specific table exists
func (s *Introspector) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = @0`

	n, err := database.Scalar[int64](ctx, s.db, q, table)
	if err != nil {
		return false, fmt.Errorf("table exists check: %w", err)
	}
	return n > 0, nil
}

// InspectTable returns column details for a single table
func (s *Introspector) InspectTable(ctx context.Context, table string) (*TableInfo, error) {
	const q = `
		SELECT name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(@0)
		ORDER BY cid`

	rows, err := s.db.ExecuteReader(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	if rows.Len() == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %s not found or has no columns", table)
	}

	unique, err := s.uniqueColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	info := &TableInfo{Schema: mainSchema, Name: table, Columns: make([]ColumnInfo, 0, rows.Len())}
	for _, r := range rows.Rows {
		v := r.Values()
		col := ColumnInfo{
			Name:         text(v[0]),
			DataType:     text(v[1]),
			IsNullable:   integer(v[2]) == 0,
			IsPrimaryKey: integer(v[4]) > 0,
		}
		if v[3] != nil {
			def := text(v[3])
			col.DefaultValue = &def
		}
		col.IsUnique = col.IsPrimaryKey || unique[col.Name]
		info.Columns = append(info.Columns, col)
	}
	return info, nil
}

// uniqueColumns returns the columns covered on their own by a UNIQUE
// index. A composite unique index does not make its columns unique.
func (s *Introspector) uniqueColumns(ctx context.Context, table string) (map[string]bool, error) {
	const q = `
		SELECT il.name, ii.name
		FROM pragma_index_list(@0) AS il
		JOIN pragma_index_info(il.name) AS ii
		WHERE il."unique" = 1
		ORDER BY il.seq, ii.seqno`

	rows, err := s.db.ExecuteReader(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("list indexes of %s: %w", table, err)
	}

	byIndex := make(map[string][]string)
	for _, r := range rows.Rows {
		v := r.Values()
		idx := text(v[0])
		byIndex[idx] = append(byIndex[idx], text(v[1]))
	}

	unique := make(map[string]bool)
	for _, cols := range byIndex {
		if len(cols) == 1 {
			unique[cols[0]] = true
		}
	}
	return unique, nil
}

// ListForeignKeys returns all FK relationships in the database
func (s *Introspector) ListForeignKeys(ctx context.Context) ([]ForeignKey, error) {
	const q = `
		SELECT m.name, fk.id, fk."from", fk."table", fk."to"
		FROM sqlite_master AS m
		JOIN pragma_foreign_key_list(m.name) AS fk
		WHERE m.type = 'table'
		ORDER BY m.name, fk.id, fk.seq`

	rows, err := s.db.ExecuteReader(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list foreign keys: %w", err)
	}

	fks := make([]ForeignKey, 0, rows.Len())
	for _, r := range rows.Rows {
		v := r.Values()
		from := text(v[0])
		fks = append(fks, ForeignKey{
			// SQLite keeps no constraint names; build a stable one
			Name:       "fk_" + from + "_" + strconv.FormatInt(integer(v[1]), 10),
			FromTable:  from,
			FromColumn: text(v[2]),
			ToTable:    text(v[3]),
			ToColumn:   text(v[4]),
		})
	}
	return fks, nil
}

// InspectSchema returns all tables and foreign keys
func (s *Introspector) InspectSchema(ctx context.Context) (*SchemaInfo, error) {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	info := &SchemaInfo{Tables: make([]TableInfo, 0, len(tables))}
	for _, table := range tables {
		ti, err := s.InspectTable(ctx, table)
		if err != nil {
			return nil, err
		}
		info.Tables = append(info.Tables, *ti)
	}

	fks, err := s.ListForeignKeys(ctx)
	if err != nil {
		return nil, err
	}
	info.ForeignKeys = fks

	return info, nil
}

// text reads a pragma value that the engine may hand back as string,
// []byte or NULL.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func integer(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

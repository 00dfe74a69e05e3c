package database

import (
	"fmt"
	"strings"

	"github.com/koustreak/litedb/internal/errs"
)

// Query is one command plus its positional parameters: the indivisible
// unit a transaction is built from. Parameter i binds to placeholder @i.
type Query struct {
	CommandText string
	Parameters  []any
}

// NewQuery builds a Query. The parameter slice is copied so later changes
// to the caller's slice do not leak into the query.
func NewQuery(commandText string, params ...any) Query {
	p := make([]any, len(params))
	copy(p, params)
	return Query{CommandText: commandText, Parameters: p}
}

// validOps is the allowlist of comparison operators for WHERE clauses.
// Any operator not in this list is rejected to prevent SQL injection
// through the operator position (which cannot be parameterized).
var validOps = map[string]bool{
	"=":    true,
	"==":   true,
	"!=":   true,
	"<>":   true,
	"<":    true,
	">":    true,
	"<=":   true,
	">=":   true,
	"LIKE": true,
	"GLOB": true,
}

// SelectBuilder constructs a parameterized SELECT query using a fluent API.
// Values are never interpolated into the SQL string; they are always passed as
// parameters bound to @0, @1, ….
//
// Usage:
//
//	q, err := Select("test").
//	    Columns("id", "value").
//	    Where("id", ">", 1).
//	    OrderBy("id", Desc).
//	    Limit(20).
//	    Build()
//	table, err := db.ExecuteReader(ctx, q.CommandText, q.Parameters...)
type SelectBuilder struct {
	table   string
	columns []string
	where   []whereClause
	orderBy []orderClause
	limit   *int
	offset  *int
}

// SortDirection controls the ORDER BY direction.
type SortDirection bool

const (
	Asc  SortDirection = false
	Desc SortDirection = true
)

type whereClause struct {
	column string
	op     string
	value  any
}

type orderClause struct {
	column string
	dir    SortDirection
}

// Select starts a new SelectBuilder for the given table.
func Select(table string) *SelectBuilder {
	return &SelectBuilder{table: table}
}

// Columns restricts the SELECT to the specified columns.
// If not called, SELECT * is used.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = cols
	return b
}

// Where adds a WHERE condition. Multiple calls are combined with AND.
func (b *SelectBuilder) Where(column, op string, value any) *SelectBuilder {
	b.where = append(b.where, whereClause{column, op, value})
	return b
}

// OrderBy appends an ORDER BY clause for the given column and direction.
func (b *SelectBuilder) OrderBy(column string, dir SortDirection) *SelectBuilder {
	b.orderBy = append(b.orderBy, orderClause{column, dir})
	return b
}

// Limit sets the maximum number of rows to return.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = &n
	return b
}

// Offset sets the number of rows to skip. SQLite only accepts OFFSET
// together with LIMIT, so Build emits LIMIT -1 when no limit was set.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = &n
	return b
}

// Build produces the final Query.
// Returns an error if any WHERE operator is not in the allowlist.
func (b *SelectBuilder) Build() (Query, error) {
	if b.table == "" {
		return Query{}, errs.New(errs.ErrKindInvalidInput, "select: table name is empty")
	}

	cols := "*"
	if len(b.columns) > 0 {
		quoted := make([]string, len(b.columns))
		for i, c := range b.columns {
			quoted[i] = QuoteIdent(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(QuoteIdent(b.table))

	var args []any

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		for _, w := range b.where {
			op := strings.ToUpper(strings.TrimSpace(w.op))
			if !validOps[op] {
				return Query{}, errs.Newf(errs.ErrKindInvalidInput, "unsupported WHERE operator: %q", w.op)
			}
			parts = append(parts, fmt.Sprintf("%s %s @%d", QuoteIdent(w.column), op, len(args)))
			args = append(args, w.value)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderBy) > 0 {
		parts := make([]string, len(b.orderBy))
		for i, o := range b.orderBy {
			dir := "ASC"
			if o.dir == Desc {
				dir = "DESC"
			}
			parts[i] = fmt.Sprintf("%s %s", QuoteIdent(o.column), dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if b.limit != nil || b.offset != nil {
		limit := -1
		if b.limit != nil {
			limit = *b.limit
		}
		fmt.Fprintf(&sb, " LIMIT @%d", len(args))
		args = append(args, limit)
	}

	if b.offset != nil {
		fmt.Fprintf(&sb, " OFFSET @%d", len(args))
		args = append(args, *b.offset)
	}

	return Query{CommandText: sb.String(), Parameters: args}, nil
}

// QuoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
// This safely handles reserved words and mixed-case names.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

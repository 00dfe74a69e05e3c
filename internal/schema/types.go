package schema

// ColumnInfo describes a single column in a table
type ColumnInfo struct {
	Name         string  `json:"name"`
	DataType     string  `json:"data_type"` // declared type: INTEGER, TEXT, VARCHAR(20), or empty
	IsNullable   bool    `json:"nullable"`
	IsPrimaryKey bool    `json:"primary_key"`
	IsUnique     bool    `json:"unique"`
	DefaultValue *string `json:"default,omitempty"` // nil if no default
}

// TableInfo describes a table and its columns
type TableInfo struct {
	Schema  string       `json:"schema"`
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ForeignKey describes a relationship between two tables
type ForeignKey struct {
	Name       string `json:"name"`
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"` // empty when the parent's primary key is implied
}

// SchemaInfo is the full introspected database schema
type SchemaInfo struct {
	Tables      []TableInfo  `json:"tables"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

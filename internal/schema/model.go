package schema

// ColumnSnapshot is one column as declared by the database, in the
// engine's native type text.
type ColumnSnapshot struct {
	Name          string
	DeclaredType  string // dialect-native type text, e.g. "varchar(255)"
	Nullable      bool
	DefaultRaw    *string // nil when the column has no default
	AutoIncrement bool
}

// IndexSnapshot is one secondary index. Indexes are surface-reported only;
// the synthesizer never reconciles them with executable DDL.
type IndexSnapshot struct {
	Name    string
	Columns []string
	Unique  bool
}

// TableSnapshot is an immutable point-in-time description of one table.
// Columns keep the table's native declaration order, and PrimaryKeyColumns
// keep key order. A snapshot belongs to the comparison run that produced it.
type TableSnapshot struct {
	Name              string
	Columns           []*ColumnSnapshot
	PrimaryKeyColumns []string
	Indexes           []*IndexSnapshot
}

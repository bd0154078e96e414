package dialect

// QuoteStyle is the identifier-quoting convention a database engine expects.
type QuoteStyle int

const (
	QuoteBacktick QuoteStyle = iota // `name`
	QuoteDouble                     // "name"
	QuoteBracket                    // [name]
	QuoteNone                       // name
)

// Dialect abstracts database-specific operations: schema introspection
// queries and the syntax fragments needed to produce DDL the engine will
// actually accept.
type Dialect interface {
	Name() string

	// Identifier handling
	QuoteStyle() QuoteStyle
	QuoteIdent(name string) string
	SupportsSchemaQualifiedNames() bool
	GetSchemaName(input string) string

	// Metadata Queries (Schema Introspection)
	// Each returns a statement using the driver's native placeholders
	// together with its bind arguments.
	TablesQuery(schema string) (string, []any)
	ColumnsQuery(schema, table string) (string, []any)
	PrimaryKeyQuery(schema, table string) (string, []any)
	IndexesQuery(schema, table string) (string, []any)

	// DDL Generation
	// AutoIncrementKeyword is appended after the column type in CREATE
	// TABLE for auto-increment columns; empty when the engine has no
	// column-level keyword for it.
	AutoIncrementKeyword() string
	// AddColumnSQL wraps a rendered column definition in the engine's
	// ALTER TABLE ... ADD form ("ADD COLUMN", bare "ADD", or "ADD (...)").
	AddColumnSQL(table, columnDef string) string
	// AlterColumnStatements rewrites an existing column to the given type
	// and nullability. The table name arrives quoted (and qualified when
	// applicable); the column name arrives raw. Statements starting with
	// "--" are advisory comments for engines that cannot alter a column
	// in place.
	AlterColumnStatements(table, column, declaredType string, nullable, typeChanged, nullabilityChanged bool) []string
}

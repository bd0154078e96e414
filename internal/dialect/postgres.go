package dialect

import (
	"fmt"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) QuoteStyle() QuoteStyle { return QuoteDouble }

func (d *PostgresDialect) QuoteIdent(name string) string {
	return quoteWith(QuoteDouble, name)
}

func (d *PostgresDialect) SupportsSchemaQualifiedNames() bool { return true }

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`,
		[]any{schema}
}

func (d *PostgresDialect) ColumnsQuery(schema, table string) (string, []any) {
	// udt_name gives the short native type name ("varchar", "int4");
	// re-attach the length so declared types survive a round trip.
	return `SELECT c.column_name,
       CASE WHEN c.character_maximum_length IS NOT NULL
            THEN c.udt_name || '(' || c.character_maximum_length || ')'
            ELSE c.udt_name END,
       c.is_nullable,
       c.column_default,
       CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%' THEN 'identity' ELSE '' END
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`, []any{schema, table}
}

func (d *PostgresDialect) PrimaryKeyQuery(schema, table string) (string, []any) {
	return `SELECT kcu.column_name
FROM information_schema.key_column_usage kcu
JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name
WHERE kcu.table_schema = $1 AND kcu.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`, []any{schema, table}
}

func (d *PostgresDialect) IndexesQuery(schema, table string) (string, []any) {
	return `SELECT i.relname, a.attname, ix.indisunique::int
FROM pg_class t
JOIN pg_namespace n ON n.oid = t.relnamespace
JOIN pg_index ix ON ix.indrelid = t.oid
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
WHERE n.nspname = $1 AND t.relname = $2 AND NOT ix.indisprimary
ORDER BY i.relname, array_position(ix.indkey, a.attnum)`, []any{schema, table}
}

func (d *PostgresDialect) AutoIncrementKeyword() string {
	return "GENERATED BY DEFAULT AS IDENTITY"
}

func (d *PostgresDialect) AddColumnSQL(table, columnDef string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef)
}

func (d *PostgresDialect) AlterColumnStatements(table, column, declaredType string, nullable, typeChanged, nullabilityChanged bool) []string {
	var stmts []string
	col := d.QuoteIdent(column)
	if typeChanged {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", table, col, declaredType))
	}
	if nullabilityChanged {
		if nullable {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", table, col))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", table, col))
		}
	}
	return stmts
}

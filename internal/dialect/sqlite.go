package dialect

import (
	"fmt"
)

type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteStyle() QuoteStyle { return QuoteNone }

func (d *SQLiteDialect) QuoteIdent(name string) string {
	return quoteWith(QuoteNone, name)
}

func (d *SQLiteDialect) SupportsSchemaQualifiedNames() bool { return false }

func (d *SQLiteDialect) GetSchemaName(input string) string { return "" }

func (d *SQLiteDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`, nil
}

func (d *SQLiteDialect) ColumnsQuery(schema, table string) (string, []any) {
	// pragma_table_info has no auto-increment flag; AUTOINCREMENT only
	// applies to INTEGER PRIMARY KEY and shows up in the stored CREATE
	// TABLE text, so sniff sqlite_master for it.
	return `SELECT ti.name, ti.type,
       CASE WHEN ti."notnull" = 0 THEN 'YES' ELSE 'NO' END,
       ti.dflt_value,
       CASE WHEN ti.pk = 1 AND UPPER(ti.type) = 'INTEGER' AND EXISTS (
              SELECT 1 FROM sqlite_master m WHERE m.name = ?1 AND m.sql LIKE '%AUTOINCREMENT%')
            THEN 'identity' ELSE '' END
FROM pragma_table_info(?1) AS ti
ORDER BY ti.cid`, []any{table}
}

func (d *SQLiteDialect) PrimaryKeyQuery(schema, table string) (string, []any) {
	return `SELECT name FROM pragma_table_info(?1) WHERE pk > 0 ORDER BY pk`, []any{table}
}

func (d *SQLiteDialect) IndexesQuery(schema, table string) (string, []any) {
	return `SELECT il.name, ii.name, il."unique"
FROM pragma_index_list(?1) AS il, pragma_index_info(il.name) AS ii
WHERE il.origin <> 'pk'
ORDER BY il.name, ii.seqno`, []any{table}
}

// AUTOINCREMENT is implied by INTEGER PRIMARY KEY; synthesized CREATE TABLE
// never needs a separate keyword.
func (d *SQLiteDialect) AutoIncrementKeyword() string { return "" }

func (d *SQLiteDialect) AddColumnSQL(table, columnDef string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef)
}

func (d *SQLiteDialect) AlterColumnStatements(table, column, declaredType string, nullable, typeChanged, nullabilityChanged bool) []string {
	// SQLite's ALTER TABLE cannot change an existing column; a manual
	// table rebuild (new table, copy, rename) is required.
	return []string{fmt.Sprintf("-- WARNING: SQLite cannot alter column %s on %s in place; rebuild the table to change it to %s", column, table, declaredType)}
}

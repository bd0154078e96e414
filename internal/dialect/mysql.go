package dialect

import (
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) QuoteStyle() QuoteStyle { return QuoteBacktick }

func (d *MysqlDialect) QuoteIdent(name string) string {
	return quoteWith(QuoteBacktick, name)
}

func (d *MysqlDialect) SupportsSchemaQualifiedNames() bool { return true }

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`,
		[]any{schema}
}

func (d *MysqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	// COLUMN_TYPE carries the full declared type ("varchar(255)"), not
	// just the base DATA_TYPE.
	return `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, EXTRA
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`, []any{schema, table}
}

func (d *MysqlDialect) PrimaryKeyQuery(schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY'
ORDER BY ORDINAL_POSITION`, []any{schema, table}
}

func (d *MysqlDialect) IndexesQuery(schema, table string) (string, []any) {
	return `SELECT INDEX_NAME, COLUMN_NAME, IF(NON_UNIQUE = 0, 1, 0)
FROM information_schema.STATISTICS
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND INDEX_NAME <> 'PRIMARY'
ORDER BY INDEX_NAME, SEQ_IN_INDEX`, []any{schema, table}
}

func (d *MysqlDialect) AutoIncrementKeyword() string { return "AUTO_INCREMENT" }

func (d *MysqlDialect) AddColumnSQL(table, columnDef string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef)
}

func (d *MysqlDialect) AlterColumnStatements(table, column, declaredType string, nullable, typeChanged, nullabilityChanged bool) []string {
	// MODIFY COLUMN replaces the whole definition, so a single statement
	// covers type and nullability at once.
	stmt := fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s", table, d.QuoteIdent(column), declaredType)
	if !nullable {
		stmt += " NOT NULL"
	}
	return []string{stmt}
}

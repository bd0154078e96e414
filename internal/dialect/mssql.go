package dialect

import (
	"fmt"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) QuoteStyle() QuoteStyle { return QuoteBracket }

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return quoteWith(QuoteBracket, name)
}

func (d *MSSQLDialect) SupportsSchemaQualifiedNames() bool { return true }

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`,
		[]any{schema}
}

func (d *MSSQLDialect) ColumnsQuery(schema, table string) (string, []any) {
	// CHARACTER_MAXIMUM_LENGTH is -1 for (max) types.
	return `SELECT c.COLUMN_NAME,
       CASE WHEN c.CHARACTER_MAXIMUM_LENGTH = -1 THEN c.DATA_TYPE + '(max)'
            WHEN c.CHARACTER_MAXIMUM_LENGTH IS NOT NULL
            THEN c.DATA_TYPE + '(' + CAST(c.CHARACTER_MAXIMUM_LENGTH AS VARCHAR(10)) + ')'
            ELSE c.DATA_TYPE END,
       c.IS_NULLABLE,
       c.COLUMN_DEFAULT,
       CASE WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'identity' ELSE '' END
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`, []any{schema, table}
}

func (d *MSSQLDialect) PrimaryKeyQuery(schema, table string) (string, []any) {
	return `SELECT kcu.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2
ORDER BY kcu.ORDINAL_POSITION`, []any{schema, table}
}

func (d *MSSQLDialect) IndexesQuery(schema, table string) (string, []any) {
	return `SELECT idx.name, col.name, CAST(idx.is_unique AS INT)
FROM sys.indexes idx
JOIN sys.index_columns ic ON idx.object_id = ic.object_id AND idx.index_id = ic.index_id
JOIN sys.columns col ON ic.object_id = col.object_id AND ic.column_id = col.column_id
JOIN sys.tables t ON idx.object_id = t.object_id
JOIN sys.schemas s ON t.schema_id = s.schema_id
WHERE s.name = @p1 AND t.name = @p2 AND idx.is_primary_key = 0 AND idx.name IS NOT NULL
ORDER BY idx.name, ic.key_ordinal`, []any{schema, table}
}

func (d *MSSQLDialect) AutoIncrementKeyword() string { return "IDENTITY(1,1)" }

// SQL Server takes ADD without the COLUMN keyword.
func (d *MSSQLDialect) AddColumnSQL(table, columnDef string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD %s", table, columnDef)
}

func (d *MSSQLDialect) AlterColumnStatements(table, column, declaredType string, nullable, typeChanged, nullabilityChanged bool) []string {
	// ALTER COLUMN restates the full definition, including nullability.
	null := "NULL"
	if !nullable {
		null = "NOT NULL"
	}
	return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s %s", table, d.QuoteIdent(column), declaredType, null)}
}

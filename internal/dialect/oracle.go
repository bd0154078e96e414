package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) QuoteStyle() QuoteStyle { return QuoteNone }

func (d *OracleDialect) QuoteIdent(name string) string {
	return quoteWith(QuoteNone, name)
}

// Introspection is scoped to the current user's objects (USER_* views), so
// generated DDL never schema-qualifies.
func (d *OracleDialect) SupportsSchemaQualifiedNames() bool { return false }

func (d *OracleDialect) GetSchemaName(input string) string { return "" }

func (d *OracleDialect) TablesQuery(schema string) (string, []any) {
	// USER_TABLES lists tables owned by the connected user; the schema
	// argument is ignored.
	return `SELECT TABLE_NAME FROM USER_TABLES ORDER BY TABLE_NAME`, nil
}

func (d *OracleDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `SELECT t.COLUMN_NAME,
       t.DATA_TYPE || CASE WHEN t.DATA_TYPE IN ('VARCHAR2', 'NVARCHAR2', 'CHAR', 'NCHAR', 'RAW')
                           THEN '(' || t.CHAR_LENGTH || ')' ELSE '' END,
       CASE WHEN t.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END,
       t.DATA_DEFAULT,
       CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 'identity' ELSE '' END
FROM USER_TAB_COLUMNS t
WHERE t.TABLE_NAME = :1
ORDER BY t.COLUMN_ID`, []any{table}
}

func (d *OracleDialect) PrimaryKeyQuery(schema, table string) (string, []any) {
	return `SELECT cc.COLUMN_NAME
FROM USER_CONS_COLUMNS cc
JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
WHERE uc.CONSTRAINT_TYPE = 'P' AND cc.TABLE_NAME = :1
ORDER BY cc.POSITION`, []any{table}
}

func (d *OracleDialect) IndexesQuery(schema, table string) (string, []any) {
	return `SELECT i.INDEX_NAME, c.COLUMN_NAME,
       CASE WHEN i.UNIQUENESS = 'UNIQUE' THEN 1 ELSE 0 END
FROM USER_INDEXES i
JOIN USER_IND_COLUMNS c ON i.INDEX_NAME = c.INDEX_NAME
WHERE i.TABLE_NAME = :1
ORDER BY i.INDEX_NAME, c.COLUMN_POSITION`, []any{table}
}

func (d *OracleDialect) AutoIncrementKeyword() string {
	return "GENERATED BY DEFAULT AS IDENTITY"
}

func (d *OracleDialect) AddColumnSQL(table, columnDef string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD (%s)", table, columnDef)
}

func (d *OracleDialect) AlterColumnStatements(table, column, declaredType string, nullable, typeChanged, nullabilityChanged bool) []string {
	var parts []string
	if typeChanged {
		parts = append(parts, declaredType)
	}
	if nullabilityChanged {
		// Oracle rejects MODIFY restating an unchanged nullability, so
		// the NULL clause is emitted only when it actually flips.
		if nullable {
			parts = append(parts, "NULL")
		} else {
			parts = append(parts, "NOT NULL")
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s MODIFY (%s %s)", table, d.QuoteIdent(column), strings.Join(parts, " "))}
}

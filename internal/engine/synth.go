package engine

import (
	"fmt"
	"strings"

	"schema-sync/internal/dialect"
	"schema-sync/internal/schema"
)

// MigrationAction is the synthesized DDL for one DiffEntry: a comment
// header plus an ordered list of statements. Statements starting with "--"
// are advisory comments, never meant for execution; executable statements
// each end with a semicolon and are never joined together.
type MigrationAction struct {
	TableName     string
	SQLStatements []string
	Comment       string
}

// Synthesize turns one diff entry into dialect-correct DDL against the
// target database. The schema qualification is applied only when the
// dialect supports it and a target schema name is given.
func Synthesize(e *schema.DiffEntry, d dialect.Dialect, targetSchemaName string) (*MigrationAction, error) {
	if d == nil {
		return nil, dialect.ErrUnsupportedDialect
	}

	switch e.Kind {
	case schema.DiffNewTable:
		return createTable(e, d, targetSchemaName), nil
	case schema.DiffRemovedTable:
		return dropTable(e, d, targetSchemaName), nil
	case schema.DiffModifiedTable:
		return alterTable(e, d, targetSchemaName), nil
	default:
		return nil, fmt.Errorf("unknown diff kind %d for table %s", e.Kind, e.TableName)
	}
}

func qualifiedTable(d dialect.Dialect, schemaName, table string) string {
	quoted := d.QuoteIdent(table)
	if d.SupportsSchemaQualifiedNames() && schemaName != "" {
		return d.QuoteIdent(schemaName) + "." + quoted
	}
	return quoted
}

func createTable(e *schema.DiffEntry, d dialect.Dialect, schemaName string) *MigrationAction {
	table := qualifiedTable(d, schemaName, e.TableName)

	defs := make([]string, 0, len(e.Table.Columns)+1)
	for _, col := range e.Table.Columns {
		defs = append(defs, columnDef(d, col))
	}
	if pk := e.Table.PrimaryKeyColumns; len(pk) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteJoin(d, pk)))
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", table, strings.Join(defs, ",\n  "))
	return &MigrationAction{
		TableName:     e.TableName,
		SQLStatements: []string{stmt},
		Comment:       fmt.Sprintf("-- Create table: %s", e.TableName),
	}
}

func dropTable(e *schema.DiffEntry, d dialect.Dialect, schemaName string) *MigrationAction {
	table := qualifiedTable(d, schemaName, e.TableName)
	return &MigrationAction{
		TableName:     e.TableName,
		SQLStatements: []string{fmt.Sprintf("DROP TABLE %s;", table)},
		Comment:       fmt.Sprintf("-- Drop table: %s (exists only in target)", e.TableName),
	}
}

// alterTable emits statements in a fixed order: additive column changes,
// advisory comments for destructive column drops, column alterations, index
// advisories, then the primary-key rebuild.
func alterTable(e *schema.DiffEntry, d dialect.Dialect, schemaName string) *MigrationAction {
	table := qualifiedTable(d, schemaName, e.TableName)
	var stmts []string

	for _, cd := range e.ColumnDiffs {
		if cd.Kind != schema.ColumnAdded {
			continue
		}
		stmts = append(stmts, d.AddColumnSQL(table, columnDef(d, cd.Column))+";")
	}

	// Dropping a column loses data; that decision stays with the
	// operator, so removals are only ever surfaced as comments.
	for _, cd := range e.ColumnDiffs {
		if cd.Kind != schema.ColumnRemoved {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("-- WARNING: column %s exists only in the target; drop it manually if the data is no longer needed", cd.Name))
	}

	for _, cd := range e.ColumnDiffs {
		if cd.Kind != schema.ColumnChanged {
			continue
		}
		typeChanged := cd.Changes.Has(schema.TypeChanged)
		nullChanged := cd.Changes.Has(schema.NullabilityChanged)
		if typeChanged || nullChanged {
			for _, s := range d.AlterColumnStatements(table, cd.Name, cd.New.DeclaredType, cd.New.Nullable, typeChanged, nullChanged) {
				stmts = append(stmts, terminate(s))
			}
		}
		if cd.Changes.Has(schema.DefaultChanged) {
			stmts = append(stmts, fmt.Sprintf("-- NOTE: default for column %s differs: %s -> %s (set it manually)",
				cd.Name, describeDefault(cd.Old), describeDefault(cd.New)))
		}
	}

	for _, id := range e.IndexDiffs {
		stmts = append(stmts, indexAdvisory(id))
	}

	if e.PrimaryKeyChanged {
		if len(e.OldPrimaryKey) > 0 {
			stmts = append(stmts, fmt.Sprintf("-- WARNING: existing primary key (%s) must be dropped manually before adding the new key",
				strings.Join(e.OldPrimaryKey, ", ")))
		}
		if len(e.NewPrimaryKey) > 0 {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s);", table, quoteJoin(d, e.NewPrimaryKey)))
		}
	}

	return &MigrationAction{
		TableName:     e.TableName,
		SQLStatements: stmts,
		Comment:       fmt.Sprintf("-- Alter table: %s", e.TableName),
	}
}

// columnDef renders one column definition: quoted name, declared type,
// NOT NULL, auto-increment keyword, default clause.
func columnDef(d dialect.Dialect, col *schema.ColumnSnapshot) string {
	var b strings.Builder
	b.WriteString(d.QuoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(col.DeclaredType)
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.AutoIncrement {
		if kw := d.AutoIncrementKeyword(); kw != "" {
			b.WriteString(" ")
			b.WriteString(kw)
		}
	}
	if clause := defaultClause(col); clause != "" {
		b.WriteString(clause)
	}
	return b.String()
}

// defaultClause quotes string defaults and leaves numeric and function
// defaults bare.
func defaultClause(col *schema.ColumnSnapshot) string {
	if col.DefaultRaw == nil {
		return ""
	}
	raw := strings.TrimSpace(*col.DefaultRaw)
	if raw == "" {
		return ""
	}
	if isFunctionDefault(raw) {
		return " DEFAULT " + raw
	}
	if schema.IsTextType(col.DeclaredType) {
		return " DEFAULT " + quoteStringLiteral(raw)
	}
	return " DEFAULT " + raw
}

func isFunctionDefault(raw string) bool {
	upper := strings.ToUpper(raw)
	switch upper {
	case "CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME", "NULL":
		return true
	}
	return strings.HasSuffix(upper, ")") && strings.Contains(upper, "(")
}

// quoteStringLiteral wraps a value in single quotes unless it is already
// quoted, escaping embedded quotes by doubling.
func quoteStringLiteral(raw string) string {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return raw
	}
	return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
}

func describeDefault(col *schema.ColumnSnapshot) string {
	if col == nil || col.DefaultRaw == nil {
		return "NULL"
	}
	return *col.DefaultRaw
}

func indexAdvisory(id schema.IndexDiff) string {
	switch id.Kind {
	case schema.IndexAdded:
		kind := "index"
		if id.Index.Unique {
			kind = "unique index"
		}
		return fmt.Sprintf("-- NOTE: %s %s (%s) exists only in the source; create it manually if wanted",
			kind, id.Name, strings.Join(id.Index.Columns, ", "))
	case schema.IndexRemoved:
		return fmt.Sprintf("-- NOTE: index %s exists only in the target", id.Name)
	default:
		return fmt.Sprintf("-- NOTE: index %s is defined differently on source and target", id.Name)
	}
}

// terminate appends the statement terminator to executable statements and
// leaves advisory comments alone.
func terminate(s string) string {
	if strings.HasPrefix(s, "--") {
		return s
	}
	return s + ";"
}

func quoteJoin(d dialect.Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

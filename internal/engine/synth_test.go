package engine_test

import (
	"errors"
	"strings"
	"testing"

	"schema-sync/internal/dialect"
	"schema-sync/internal/engine"
	"schema-sync/internal/schema"
)

func mustDialect(t *testing.T, driver string) dialect.Dialect {
	t.Helper()
	d, err := dialect.GetDialect(driver)
	if err != nil {
		t.Fatalf("GetDialect(%s): %v", driver, err)
	}
	return d
}

func TestSynthesize_CreateTable(t *testing.T) {
	e := &schema.DiffEntry{
		Kind:      schema.DiffNewTable,
		TableName: "users",
		Table: &schema.TableSnapshot{
			Name: "users",
			Columns: []*schema.ColumnSnapshot{
				{Name: "id", DeclaredType: "INT", Nullable: false},
				{Name: "name", DeclaredType: "VARCHAR(50)", Nullable: false},
			},
			PrimaryKeyColumns: []string{"id"},
		},
	}

	act, err := engine.Synthesize(e, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if act.Comment != "-- Create table: users" {
		t.Errorf("comment = %q", act.Comment)
	}
	if len(act.SQLStatements) != 1 {
		t.Fatalf("got %d statements, want 1", len(act.SQLStatements))
	}
	want := "CREATE TABLE `users` (\n  `id` INT NOT NULL,\n  `name` VARCHAR(50) NOT NULL,\n  PRIMARY KEY (`id`)\n);"
	if act.SQLStatements[0] != want {
		t.Errorf("statement mismatch\n got: %q\nwant: %q", act.SQLStatements[0], want)
	}
}

func TestSynthesize_CreateTable_DefaultsAndAutoIncrement(t *testing.T) {
	status := "active"
	created := "CURRENT_TIMESTAMP"
	retries := "0"
	e := &schema.DiffEntry{
		Kind:      schema.DiffNewTable,
		TableName: "jobs",
		Table: &schema.TableSnapshot{
			Name: "jobs",
			Columns: []*schema.ColumnSnapshot{
				{Name: "id", DeclaredType: "INT", Nullable: false, AutoIncrement: true},
				{Name: "status", DeclaredType: "VARCHAR(20)", Nullable: false, DefaultRaw: &status},
				{Name: "retries", DeclaredType: "INT", Nullable: false, DefaultRaw: &retries},
				{Name: "created_at", DeclaredType: "TIMESTAMP", Nullable: true, DefaultRaw: &created},
			},
			PrimaryKeyColumns: []string{"id"},
		},
	}

	act, err := engine.Synthesize(e, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	stmt := act.SQLStatements[0]
	for _, frag := range []string{
		"`id` INT NOT NULL AUTO_INCREMENT",
		"`status` VARCHAR(20) NOT NULL DEFAULT 'active'",
		"`retries` INT NOT NULL DEFAULT 0",
		"`created_at` TIMESTAMP DEFAULT CURRENT_TIMESTAMP",
	} {
		if !strings.Contains(stmt, frag) {
			t.Errorf("statement missing %q:\n%s", frag, stmt)
		}
	}
}

func TestSynthesize_DropTable(t *testing.T) {
	e := &schema.DiffEntry{Kind: schema.DiffRemovedTable, TableName: "legacy"}

	act, err := engine.Synthesize(e, mustDialect(t, "postgres"), "public")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if act.Comment != "-- Drop table: legacy (exists only in target)" {
		t.Errorf("comment = %q", act.Comment)
	}
	if got, want := act.SQLStatements[0], `DROP TABLE "public"."legacy";`; got != want {
		t.Errorf("statement = %q, want %q", got, want)
	}
}

func TestSynthesize_ColumnRemovalIsAdvisoryOnly(t *testing.T) {
	e := &schema.DiffEntry{
		Kind:      schema.DiffModifiedTable,
		TableName: "users",
		ColumnDiffs: []schema.ColumnDiff{
			{Kind: schema.ColumnRemoved, Name: "legacy_flag"},
		},
	}

	act, err := engine.Synthesize(e, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(act.SQLStatements) != 1 {
		t.Fatalf("got %d statements, want 1", len(act.SQLStatements))
	}
	s := act.SQLStatements[0]
	if !strings.HasPrefix(s, "-- WARNING:") || !strings.Contains(s, "legacy_flag") {
		t.Errorf("unexpected advisory %q", s)
	}
	if strings.Contains(strings.ToUpper(s), "DROP COLUMN") {
		t.Errorf("column removal must not produce executable DDL: %q", s)
	}
}

func TestSynthesize_PrimaryKeyRebuild(t *testing.T) {
	e := &schema.DiffEntry{
		Kind:              schema.DiffModifiedTable,
		TableName:         "orders",
		PrimaryKeyChanged: true,
		OldPrimaryKey:     []string{"id"},
		NewPrimaryKey:     []string{"id", "tenant_id"},
	}

	act, err := engine.Synthesize(e, mustDialect(t, "oracle"), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(act.SQLStatements) != 2 {
		t.Fatalf("got %d statements, want 2: %v", len(act.SQLStatements), act.SQLStatements)
	}
	if !strings.HasPrefix(act.SQLStatements[0], "-- WARNING:") || !strings.Contains(act.SQLStatements[0], "(id)") {
		t.Errorf("missing old-key advisory: %q", act.SQLStatements[0])
	}
	if got, want := act.SQLStatements[1], "ALTER TABLE orders ADD PRIMARY KEY (id, tenant_id);"; got != want {
		t.Errorf("statement = %q, want %q", got, want)
	}
}

func TestSynthesize_AlterStatementOrder(t *testing.T) {
	old := "1"
	now := "CURRENT_TIMESTAMP"
	e := &schema.DiffEntry{
		Kind:      schema.DiffModifiedTable,
		TableName: "t",
		ColumnDiffs: []schema.ColumnDiff{
			{
				Kind:    schema.ColumnChanged,
				Name:    "v",
				Changes: schema.TypeChanged | schema.DefaultChanged,
				Old:     &schema.ColumnSnapshot{Name: "v", DeclaredType: "INT", Nullable: true, DefaultRaw: &old},
				New:     &schema.ColumnSnapshot{Name: "v", DeclaredType: "BIGINT", Nullable: true, DefaultRaw: &now},
			},
			{Kind: schema.ColumnRemoved, Name: "gone"},
			{Kind: schema.ColumnAdded, Name: "added", Column: &schema.ColumnSnapshot{Name: "added", DeclaredType: "TEXT", Nullable: true}},
		},
		IndexDiffs: []schema.IndexDiff{
			{Kind: schema.IndexRemoved, Name: "idx_old"},
		},
		PrimaryKeyChanged: true,
		NewPrimaryKey:     []string{"v"},
	}

	act, err := engine.Synthesize(e, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	got := act.SQLStatements
	if len(got) != 6 {
		t.Fatalf("got %d statements, want 6: %v", len(got), got)
	}
	checks := []struct {
		prefix string
		has    string
	}{
		{"ALTER TABLE `t` ADD COLUMN", "added"},
		{"-- WARNING:", "gone"},
		{"ALTER TABLE `t` MODIFY COLUMN", "BIGINT"},
		{"-- NOTE: default for column v", "1 -> CURRENT_TIMESTAMP"},
		{"-- NOTE: index idx_old", "target"},
		{"ALTER TABLE `t` ADD PRIMARY KEY", "`v`"},
	}
	for i, c := range checks {
		if !strings.HasPrefix(got[i], c.prefix) || !strings.Contains(got[i], c.has) {
			t.Errorf("statement %d = %q, want prefix %q containing %q", i, got[i], c.prefix, c.has)
		}
	}
	for _, s := range got {
		if !strings.HasPrefix(s, "--") && !strings.HasSuffix(s, ";") {
			t.Errorf("executable statement lacks terminator: %q", s)
		}
	}
}

func TestSynthesize_SQLiteAlterIsAdvisory(t *testing.T) {
	e := &schema.DiffEntry{
		Kind:      schema.DiffModifiedTable,
		TableName: "t",
		ColumnDiffs: []schema.ColumnDiff{
			{
				Kind:    schema.ColumnChanged,
				Name:    "v",
				Changes: schema.TypeChanged,
				Old:     &schema.ColumnSnapshot{Name: "v", DeclaredType: "INTEGER", Nullable: true},
				New:     &schema.ColumnSnapshot{Name: "v", DeclaredType: "TEXT", Nullable: true},
			},
		},
	}

	act, err := engine.Synthesize(e, mustDialect(t, "sqlite"), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, s := range act.SQLStatements {
		if !strings.HasPrefix(s, "--") {
			t.Errorf("expected advisory only, got executable %q", s)
		}
	}
}

func TestSynthesize_SchemaQualification(t *testing.T) {
	e := &schema.DiffEntry{
		Kind:      schema.DiffNewTable,
		TableName: "events",
		Table: &schema.TableSnapshot{
			Name:    "events",
			Columns: []*schema.ColumnSnapshot{{Name: "id", DeclaredType: "INT", Nullable: false}},
		},
	}

	for _, tc := range []struct {
		driver string
		schema string
		want   string
	}{
		{"postgres", "analytics", `CREATE TABLE "analytics"."events"`},
		{"sqlserver", "dbo", "CREATE TABLE [dbo].[events]"},
		{"mysql", "", "CREATE TABLE `events`"},
		{"sqlite", "main", "CREATE TABLE events"},
	} {
		act, err := engine.Synthesize(e, mustDialect(t, tc.driver), tc.schema)
		if err != nil {
			t.Fatalf("%s: %v", tc.driver, err)
		}
		if !strings.HasPrefix(act.SQLStatements[0], tc.want) {
			t.Errorf("%s: statement %q, want prefix %q", tc.driver, act.SQLStatements[0], tc.want)
		}
	}
}

func TestSynthesize_NilDialect(t *testing.T) {
	e := &schema.DiffEntry{Kind: schema.DiffNewTable, TableName: "x"}
	if _, err := engine.Synthesize(e, nil, ""); !errors.Is(err, dialect.ErrUnsupportedDialect) {
		t.Errorf("err = %v, want ErrUnsupportedDialect", err)
	}
}

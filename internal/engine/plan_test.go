package engine_test

import (
	"strings"
	"testing"

	"schema-sync/internal/engine"
	"schema-sync/internal/schema"
)

func demoEntries() []schema.DiffEntry {
	return []schema.DiffEntry{
		{
			Kind:      schema.DiffNewTable,
			TableName: "accounts",
			Table: &schema.TableSnapshot{
				Name:              "accounts",
				Columns:           []*schema.ColumnSnapshot{{Name: "id", DeclaredType: "INT", Nullable: false}},
				PrimaryKeyColumns: []string{"id"},
			},
		},
		{Kind: schema.DiffRemovedTable, TableName: "legacy"},
		{
			Kind:      schema.DiffModifiedTable,
			TableName: "users",
			ColumnDiffs: []schema.ColumnDiff{
				{Kind: schema.ColumnAdded, Name: "email", Column: &schema.ColumnSnapshot{Name: "email", DeclaredType: "VARCHAR(255)", Nullable: true}},
			},
		},
	}
}

func TestAssemble_AllEntries(t *testing.T) {
	actions, err := engine.Assemble(demoEntries(), nil, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(actions) != 3 {
		t.Fatalf("got %d actions, want 3", len(actions))
	}
	for i, want := range []string{"accounts", "legacy", "users"} {
		if actions[i].TableName != want {
			t.Errorf("action %d table = %s, want %s", i, actions[i].TableName, want)
		}
	}
}

func TestAssemble_Selection(t *testing.T) {
	selection := map[string]bool{"users": true}
	actions, err := engine.Assemble(demoEntries(), selection, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(actions) != 1 || actions[0].TableName != "users" {
		t.Fatalf("got %+v, want single users action", actions)
	}
}

func TestAssemble_EmptySelection(t *testing.T) {
	actions, err := engine.Assemble(demoEntries(), map[string]bool{}, mustDialect(t, "mysql"), "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("got %d actions for empty selection, want 0", len(actions))
	}
}

func TestRenderScript(t *testing.T) {
	actions := []engine.MigrationAction{
		{
			TableName:     "a",
			Comment:       "-- Create table: a",
			SQLStatements: []string{"CREATE TABLE a (\n  id INT NOT NULL\n);"},
		},
		{
			TableName:     "b",
			Comment:       "-- Alter table: b",
			SQLStatements: []string{"ALTER TABLE b ADD COLUMN x INT;", "-- NOTE: index idx_x exists only in the target"},
		},
	}

	got := engine.RenderScript(actions)
	want := "-- Create table: a\n" +
		"CREATE TABLE a (\n  id INT NOT NULL\n);\n" +
		"\n" +
		"-- Alter table: b\n" +
		"ALTER TABLE b ADD COLUMN x INT;\n" +
		"-- NOTE: index idx_x exists only in the target\n"
	if got != want {
		t.Errorf("script mismatch\n got: %q\nwant: %q", got, want)
	}
	if strings.Count(got, "\n\n") != 1 {
		t.Errorf("expected exactly one blank separator, got %d", strings.Count(got, "\n\n"))
	}
}

func TestRenderScript_Empty(t *testing.T) {
	if got := engine.RenderScript(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

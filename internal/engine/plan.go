package engine

import (
	"strings"

	"schema-sync/internal/dialect"
	"schema-sync/internal/schema"
)

// Assemble filters the diff entries to the selected table names and
// synthesizes a MigrationAction for each, preserving the comparator's
// ordering contract. A nil selection means every entry is included.
func Assemble(entries []schema.DiffEntry, selection map[string]bool, d dialect.Dialect, targetSchemaName string) ([]MigrationAction, error) {
	var actions []MigrationAction
	for i := range entries {
		e := &entries[i]
		if selection != nil && !selection[e.TableName] {
			continue
		}
		act, err := Synthesize(e, d, targetSchemaName)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *act)
	}
	return actions, nil
}

// RenderScript joins actions into one displayable script: the comment
// header of each action, its statements one per line, and a blank line
// between actions. Pure string assembly, no further logic.
func RenderScript(actions []MigrationAction) string {
	var b strings.Builder
	for i, a := range actions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(a.Comment)
		b.WriteString("\n")
		for _, s := range a.SQLStatements {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

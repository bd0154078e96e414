package schema

import (
	"sort"
	"strings"
)

// DiffKind tags one DiffEntry.
type DiffKind int

const (
	DiffNewTable DiffKind = iota
	DiffRemovedTable
	DiffModifiedTable
)

func (k DiffKind) String() string {
	switch k {
	case DiffNewTable:
		return "new"
	case DiffRemovedTable:
		return "removed"
	case DiffModifiedTable:
		return "modified"
	default:
		return "unknown"
	}
}

// ChangeSet records which facets of a column differ. A column may carry
// several reasons at once.
type ChangeSet uint8

const (
	TypeChanged ChangeSet = 1 << iota
	NullabilityChanged
	DefaultChanged
)

func (c ChangeSet) Has(flag ChangeSet) bool { return c&flag != 0 }

func (c ChangeSet) String() string {
	var parts []string
	if c.Has(TypeChanged) {
		parts = append(parts, "type")
	}
	if c.Has(NullabilityChanged) {
		parts = append(parts, "nullability")
	}
	if c.Has(DefaultChanged) {
		parts = append(parts, "default")
	}
	return strings.Join(parts, ",")
}

// ColumnDiffKind tags one ColumnDiff.
type ColumnDiffKind int

const (
	ColumnAdded ColumnDiffKind = iota
	ColumnRemoved
	ColumnChanged
)

// ColumnDiff is one column-level difference inside a modified table.
type ColumnDiff struct {
	Kind    ColumnDiffKind
	Name    string
	Column  *ColumnSnapshot // ColumnAdded: the source-side column to add
	Changes ChangeSet       // ColumnChanged: the mismatched facets
	Old     *ColumnSnapshot // ColumnChanged: target-side (current) column
	New     *ColumnSnapshot // ColumnChanged: source-side (desired) column
}

// IndexDiffKind tags one IndexDiff.
type IndexDiffKind int

const (
	IndexAdded IndexDiffKind = iota
	IndexRemoved
	IndexChanged
)

// IndexDiff is surface reporting only; it never becomes executable DDL.
type IndexDiff struct {
	Kind  IndexDiffKind
	Name  string
	Index *IndexSnapshot // IndexAdded: the source-side index
	Old   *IndexSnapshot // IndexChanged: target side
	New   *IndexSnapshot // IndexChanged: source side
}

// DiffEntry is one unit of difference between two schemas. A table name
// appears in at most one entry.
type DiffEntry struct {
	Kind      DiffKind
	TableName string

	Table *TableSnapshot // DiffNewTable: the full source-side snapshot

	// DiffModifiedTable only
	ColumnDiffs       []ColumnDiff
	IndexDiffs        []IndexDiff
	PrimaryKeyChanged bool
	OldPrimaryKey     []string // target side, in key order
	NewPrimaryKey     []string // source side, in key order
}

// DiffSummary carries UI-ready counts for a diff run.
type DiffSummary struct {
	NewTables      int
	RemovedTables  int
	ModifiedTables int
}

// Summarize counts entries per kind.
func Summarize(entries []DiffEntry) DiffSummary {
	var s DiffSummary
	for i := range entries {
		switch entries[i].Kind {
		case DiffNewTable:
			s.NewTables++
		case DiffRemovedTable:
			s.RemovedTables++
		case DiffModifiedTable:
			s.ModifiedTables++
		}
	}
	return s
}

// Compare diffs the target schema against the source and returns what it
// would take to reconcile the target toward the source. Output order is a
// documented contract: NewTable entries sorted by name, then RemovedTable
// sorted, then ModifiedTable sorted. Tables identical on both sides are
// invisible to the caller, so comparing a schema against itself returns an
// empty slice.
func Compare(source, target map[string]*TableSnapshot) []DiffEntry {
	var entries []DiffEntry

	for _, name := range sortedKeys(source) {
		if _, ok := target[name]; !ok {
			entries = append(entries, DiffEntry{
				Kind:      DiffNewTable,
				TableName: name,
				Table:     source[name],
			})
		}
	}

	for _, name := range sortedKeys(target) {
		if _, ok := source[name]; !ok {
			entries = append(entries, DiffEntry{
				Kind:      DiffRemovedTable,
				TableName: name,
			})
		}
	}

	for _, name := range sortedKeys(source) {
		tgt, ok := target[name]
		if !ok {
			continue
		}
		if e, changed := compareTable(source[name], tgt); changed {
			entries = append(entries, e)
		}
	}

	return entries
}

func compareTable(src, tgt *TableSnapshot) (DiffEntry, bool) {
	e := DiffEntry{Kind: DiffModifiedTable, TableName: src.Name}

	srcCols := columnMap(src)
	tgtCols := columnMap(tgt)

	// Source-only columns, in declaration order.
	for _, c := range src.Columns {
		if _, ok := tgtCols[c.Name]; !ok {
			e.ColumnDiffs = append(e.ColumnDiffs, ColumnDiff{Kind: ColumnAdded, Name: c.Name, Column: c})
		}
	}

	// Target-only columns, in declaration order.
	for _, c := range tgt.Columns {
		if _, ok := srcCols[c.Name]; !ok {
			e.ColumnDiffs = append(e.ColumnDiffs, ColumnDiff{Kind: ColumnRemoved, Name: c.Name})
		}
	}

	// Columns on both sides.
	for _, sc := range src.Columns {
		tc, ok := tgtCols[sc.Name]
		if !ok {
			continue
		}
		var changes ChangeSet
		if !strings.EqualFold(sc.DeclaredType, tc.DeclaredType) {
			changes |= TypeChanged
		}
		if sc.Nullable != tc.Nullable {
			changes |= NullabilityChanged
		}
		if !SameDefault(sc, tc) {
			changes |= DefaultChanged
		}
		if changes != 0 {
			e.ColumnDiffs = append(e.ColumnDiffs, ColumnDiff{
				Kind:    ColumnChanged,
				Name:    sc.Name,
				Changes: changes,
				Old:     tc,
				New:     sc,
			})
		}
	}

	// Primary keys compare as unordered sets; both orderings are kept for
	// display and synthesis.
	if !sameStringSet(src.PrimaryKeyColumns, tgt.PrimaryKeyColumns) {
		e.PrimaryKeyChanged = true
		e.OldPrimaryKey = tgt.PrimaryKeyColumns
		e.NewPrimaryKey = src.PrimaryKeyColumns
	}

	e.IndexDiffs = compareIndexes(src.Indexes, tgt.Indexes)

	changed := len(e.ColumnDiffs) > 0 || e.PrimaryKeyChanged || len(e.IndexDiffs) > 0
	return e, changed
}

func compareIndexes(src, tgt []*IndexSnapshot) []IndexDiff {
	srcIdx := indexMap(src)
	tgtIdx := indexMap(tgt)

	var diffs []IndexDiff
	for _, ix := range src {
		old, ok := tgtIdx[ix.Name]
		if !ok {
			diffs = append(diffs, IndexDiff{Kind: IndexAdded, Name: ix.Name, Index: ix})
			continue
		}
		if ix.Unique != old.Unique || !sameStringSlice(ix.Columns, old.Columns) {
			diffs = append(diffs, IndexDiff{Kind: IndexChanged, Name: ix.Name, Old: old, New: ix})
		}
	}
	for _, ix := range tgt {
		if _, ok := srcIdx[ix.Name]; !ok {
			diffs = append(diffs, IndexDiff{Kind: IndexRemoved, Name: ix.Name})
		}
	}
	return diffs
}

func columnMap(t *TableSnapshot) map[string]*ColumnSnapshot {
	m := make(map[string]*ColumnSnapshot, len(t.Columns))
	for _, c := range t.Columns {
		m[c.Name] = c
	}
	return m
}

func indexMap(idxs []*IndexSnapshot) map[string]*IndexSnapshot {
	m := make(map[string]*IndexSnapshot, len(idxs))
	for _, ix := range idxs {
		m[ix.Name] = ix
	}
	return m
}

func sortedKeys(m map[string]*TableSnapshot) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sameStringSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}

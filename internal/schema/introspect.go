package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"schema-sync/internal/dialect"
)

// DefaultConcurrency bounds the per-table introspection fan-out. Kept
// small to respect database connection limits.
const DefaultConcurrency = 4

// TableError records a single table whose metadata could not be read. The
// comparator treats such a table as absent on that side; the run continues.
type TableError struct {
	Table string
	Err   error
}

func (e TableError) Error() string {
	return fmt.Sprintf("introspect table %s: %v", e.Table, e.Err)
}

func (e TableError) Unwrap() error { return e.Err }

// Introspector reads table metadata from one side of a comparison. It is
// read-only and holds no state besides the handles it was built with.
type Introspector struct {
	db       *sql.DB
	dialect  dialect.Dialect
	limit    int
	progress func(table string)
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithConcurrency sets the maximum number of concurrent per-table
// introspection queries.
func WithConcurrency(n int) Option {
	return func(in *Introspector) {
		if n > 0 {
			in.limit = n
		}
	}
}

// WithProgress registers a callback invoked once per completed table.
func WithProgress(fn func(table string)) Option {
	return func(in *Introspector) { in.progress = fn }
}

func NewIntrospector(db *sql.DB, d dialect.Dialect, opts ...Option) *Introspector {
	in := &Introspector{db: db, dialect: d, limit: DefaultConcurrency}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ListTables returns the base table names visible in the given schema. A
// failure here is fatal for the side: if the list cannot be read, nothing
// else can.
func (in *Introspector) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	target := in.dialect.GetSchemaName(schemaName)

	query, args := in.dialect.TablesQuery(target)
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// DescribeTable builds the snapshot for one table: columns in declaration
// order, primary key columns in key order, and the index list.
func (in *Introspector) DescribeTable(ctx context.Context, schemaName, table string) (*TableSnapshot, error) {
	target := in.dialect.GetSchemaName(schemaName)
	snap := &TableSnapshot{Name: table}

	query, args := in.dialect.ColumnsQuery(target, table)
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, declaredType string
		var isNullable, defaultRaw, extra sql.NullString
		if err := rows.Scan(&name, &declaredType, &isNullable, &defaultRaw, &extra); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		col := &ColumnSnapshot{
			Name:         name,
			DeclaredType: declaredType,
			Nullable:     isNullable.String == "YES",
		}
		if defaultRaw.Valid {
			if v := strings.TrimSpace(defaultRaw.String); v != "" {
				col.DefaultRaw = &v
			}
		}
		if extra.Valid {
			e := strings.ToLower(extra.String)
			col.AutoIncrement = strings.Contains(e, "auto_increment") ||
				strings.Contains(e, "identity") ||
				strings.Contains(e, "nextval")
		}
		snap.Columns = append(snap.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	if len(snap.Columns) == 0 {
		// The table was listed but yields no column metadata: dropped
		// mid-run or not readable with our privileges.
		return nil, fmt.Errorf("no column metadata")
	}

	if snap.PrimaryKeyColumns, err = in.primaryKey(ctx, target, table); err != nil {
		return nil, err
	}
	if snap.Indexes, err = in.indexes(ctx, target, table); err != nil {
		return nil, err
	}
	return snap, nil
}

func (in *Introspector) primaryKey(ctx context.Context, target, table string) ([]string, error) {
	query, args := in.dialect.PrimaryKeyQuery(target, table)
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query primary key: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan primary key column: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (in *Introspector) indexes(ctx context.Context, target, table string) ([]*IndexSnapshot, error) {
	query, args := in.dialect.IndexesQuery(target, table)
	rows, err := in.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query indexes: %w", err)
	}
	defer rows.Close()

	// Rows arrive ordered by index name then column position; group them
	// preserving first-seen order.
	byName := make(map[string]*IndexSnapshot)
	var idxs []*IndexSnapshot
	for rows.Next() {
		var idxName, colName string
		var unique int
		if err := rows.Scan(&idxName, &colName, &unique); err != nil {
			return nil, fmt.Errorf("scan index column: %w", err)
		}
		ix, ok := byName[idxName]
		if !ok {
			ix = &IndexSnapshot{Name: idxName, Unique: unique != 0}
			byName[idxName] = ix
			idxs = append(idxs, ix)
		}
		ix.Columns = append(ix.Columns, colName)
	}
	return idxs, rows.Err()
}

// Snapshot introspects every table in the schema with a bounded worker
// fan-out and collects the results into an immutable name-keyed map.
// Per-table failures land in the returned TableError slice instead of
// aborting the run. Cancellation stops dispatching new tables and discards
// all partial results.
func (in *Introspector) Snapshot(ctx context.Context, schemaName string) (map[string]*TableSnapshot, []TableError, error) {
	names, err := in.ListTables(ctx, schemaName)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu       sync.Mutex
		snaps    = make(map[string]*TableSnapshot, len(names))
		failures []TableError
	)

	g := errgroup.Group{}
	g.SetLimit(in.limit)

	for _, name := range names {
		// Deadline and cancellation are checked between dispatches.
		if ctx.Err() != nil {
			break
		}
		name := name
		g.Go(func() error {
			snap, err := in.DescribeTable(ctx, schemaName, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failures = append(failures, TableError{Table: name, Err: err})
				return nil
			}
			snaps[name] = snap
			if in.progress != nil {
				in.progress(name)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		// Already-completed snapshots are discarded, not partially
		// reported.
		return nil, nil, err
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].Table < failures[j].Table })
	return snaps, failures, nil
}

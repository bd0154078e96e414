package engine

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"schema-sync/internal/dialect"
	"schema-sync/internal/schema"
)

// Side identifies one database in a comparison run.
type Side struct {
	Name   string // "source" or "target", used in error messages
	Driver string
	DSN    string
	Schema string // optional schema/catalog scope
}

// ConnectionError means one side could not be reached at all. It is fatal:
// no partial diff is produced.
type ConnectionError struct {
	Side string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach %s database: %v", e.Side, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Options tune a comparison run.
type Options struct {
	// Concurrency bounds per-table introspection workers per side; zero
	// means schema.DefaultConcurrency.
	Concurrency int
	// Progress, when set, is invoked once per introspected table.
	Progress func(side, table string)
}

// Result is everything a caller needs to render a diff and assemble a
// migration script from it.
type Result struct {
	Entries        []schema.DiffEntry
	Summary        schema.DiffSummary
	SourceWarnings []schema.TableError
	TargetWarnings []schema.TableError

	// Synthesis runs against the target database, so its dialect and
	// schema scope travel with the result.
	TargetDialect dialect.Dialect
	TargetSchema  string
}

// driverName maps a configured driver alias to the name registered with
// database/sql.
func driverName(driver string) string {
	switch driver {
	case "mariadb":
		return "mysql"
	case "mssql":
		return "sqlserver"
	case "sqlite3":
		return "sqlite"
	default:
		return driver
	}
}

// Run introspects both sides, releases the connections, and compares the
// snapshots. Unknown dialects and unreachable sides abort the whole run;
// single-table introspection failures are collected as warnings and the
// affected table is treated as absent on that side.
func Run(ctx context.Context, source, target Side, opts Options) (*Result, error) {
	srcDialect, err := dialect.GetDialect(source.Driver)
	if err != nil {
		return nil, err
	}
	tgtDialect, err := dialect.GetDialect(target.Driver)
	if err != nil {
		return nil, err
	}

	srcDB, err := openSide(ctx, source)
	if err != nil {
		return nil, err
	}
	tgtDB, err := openSide(ctx, target)
	if err != nil {
		srcDB.Close()
		return nil, err
	}

	var (
		srcSnaps, tgtSnaps map[string]*schema.TableSnapshot
		srcWarn, tgtWarn   []schema.TableError
	)

	g := errgroup.Group{}
	g.Go(func() error {
		var err error
		srcSnaps, srcWarn, err = snapshotSide(ctx, srcDB, srcDialect, source, opts)
		return err
	})
	g.Go(func() error {
		var err error
		tgtSnaps, tgtWarn, err = snapshotSide(ctx, tgtDB, tgtDialect, target, opts)
		return err
	})
	waitErr := g.Wait()

	// Both snapshots are materialized (or the run failed); comparison and
	// synthesis need no database access, so release the connections now.
	srcDB.Close()
	tgtDB.Close()

	if waitErr != nil {
		return nil, waitErr
	}

	entries := schema.Compare(srcSnaps, tgtSnaps)
	return &Result{
		Entries:        entries,
		Summary:        schema.Summarize(entries),
		SourceWarnings: srcWarn,
		TargetWarnings: tgtWarn,
		TargetDialect:  tgtDialect,
		TargetSchema:   tgtDialect.GetSchemaName(target.Schema),
	}, nil
}

func openSide(ctx context.Context, side Side) (*sql.DB, error) {
	db, err := sql.Open(driverName(side.Driver), side.DSN)
	if err != nil {
		return nil, &ConnectionError{Side: side.Name, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Side: side.Name, Err: err}
	}
	return db, nil
}

func snapshotSide(ctx context.Context, db *sql.DB, d dialect.Dialect, side Side, opts Options) (map[string]*schema.TableSnapshot, []schema.TableError, error) {
	introOpts := []schema.Option{schema.WithConcurrency(opts.Concurrency)}
	if opts.Progress != nil {
		name := side.Name
		introOpts = append(introOpts, schema.WithProgress(func(table string) {
			opts.Progress(name, table)
		}))
	}
	in := schema.NewIntrospector(db, d, introOpts...)
	snaps, warns, err := in.Snapshot(ctx, side.Schema)
	if err != nil {
		return nil, nil, fmt.Errorf("introspect %s: %w", side.Name, err)
	}
	return snaps, warns, nil
}

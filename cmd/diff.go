package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"schema-sync/internal/engine"
	"schema-sync/internal/schema"
)

var (
	diffTimeout     time.Duration
	diffJSON        bool
	diffConcurrency int
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the source and target schemas and report differences",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := getSide("source")
		if err != nil {
			return err
		}
		target, err := getSide("target")
		if err != nil {
			return err
		}

		res, err := runComparison(source, target, diffTimeout, diffConcurrency, !diffJSON)
		if err != nil {
			return err
		}

		if diffJSON {
			return json.NewEncoder(os.Stdout).Encode(buildReport(res))
		}

		printDiff(res)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(diffCmd)

	diffCmd.Flags().DurationVar(&diffTimeout, "timeout", 0, "Overall deadline for the comparison (0 = none)")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Emit the diff as JSON instead of styled text")
	diffCmd.Flags().IntVar(&diffConcurrency, "concurrency", 0, "Max concurrent per-table introspection queries per side")
}

// runComparison wires cancellation, the optional deadline and the progress
// bar around engine.Run.
func runComparison(source, target engine.Side, timeout time.Duration, concurrency int, showProgress bool) (*engine.Result, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := engine.Options{Concurrency: concurrency}
	if showProgress {
		uiprogress.Start()
		bar := uiprogress.AddBar(100).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Introspecting: "
		})
		opts.Progress = func(side, table string) {
			bar.Incr()
		}
	}

	log.Printf("Comparing %s (%s) against %s (%s)", source.Name, source.Driver, target.Name, target.Driver)
	start := time.Now()
	res, err := engine.Run(ctx, source, target, opts)
	if showProgress {
		uiprogress.Stop()
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Comparison done in %s", time.Since(start))
	return res, nil
}

func printDiff(res *engine.Result) {
	s := res.Summary
	fmt.Println(styleHeader.Render(fmt.Sprintf("Schema diff: %d new, %d removed, %d modified", s.NewTables, s.RemovedTables, s.ModifiedTables)))

	for i := range res.Entries {
		e := &res.Entries[i]
		switch e.Kind {
		case schema.DiffNewTable:
			fmt.Println(styleNew.Render(fmt.Sprintf("  + %s (%d columns)", e.TableName, len(e.Table.Columns))))
		case schema.DiffRemovedTable:
			fmt.Println(styleRemoved.Render(fmt.Sprintf("  - %s", e.TableName)))
		case schema.DiffModifiedTable:
			fmt.Println(styleModified.Render(fmt.Sprintf("  ~ %s", e.TableName)))
			for _, cd := range e.ColumnDiffs {
				switch cd.Kind {
				case schema.ColumnAdded:
					fmt.Println(styleMuted.Render(fmt.Sprintf("      add column %s %s", cd.Name, cd.Column.DeclaredType)))
				case schema.ColumnRemoved:
					fmt.Println(styleMuted.Render(fmt.Sprintf("      remove column %s", cd.Name)))
				case schema.ColumnChanged:
					fmt.Println(styleMuted.Render(fmt.Sprintf("      change column %s (%s)", cd.Name, cd.Changes)))
				}
			}
			if e.PrimaryKeyChanged {
				fmt.Println(styleMuted.Render(fmt.Sprintf("      primary key: (%s) -> (%s)",
					strings.Join(e.OldPrimaryKey, ", "), strings.Join(e.NewPrimaryKey, ", "))))
			}
			for _, id := range e.IndexDiffs {
				fmt.Println(styleMuted.Render(fmt.Sprintf("      index %s differs", id.Name)))
			}
		}
	}

	printWarnings(res)
}

func printWarnings(res *engine.Result) {
	for _, w := range res.SourceWarnings {
		fmt.Println(styleWarning.Render(fmt.Sprintf("  ! source: %v", w)))
	}
	for _, w := range res.TargetWarnings {
		fmt.Println(styleWarning.Render(fmt.Sprintf("  ! target: %v", w)))
	}
}

// JSON report shapes: machine-readable change reasons, no SQL re-parsing
// needed by UI layers.

type columnReport struct {
	Name    string   `json:"name"`
	Change  string   `json:"change"`
	Reasons []string `json:"reasons,omitempty"`
}

type tableReport struct {
	Table             string         `json:"table"`
	Kind              string         `json:"kind"`
	Columns           []columnReport `json:"columns,omitempty"`
	PrimaryKeyChanged bool           `json:"primary_key_changed,omitempty"`
	OldPrimaryKey     []string       `json:"old_primary_key,omitempty"`
	NewPrimaryKey     []string       `json:"new_primary_key,omitempty"`
}

type diffReport struct {
	NewTables      int           `json:"new_tables"`
	RemovedTables  int           `json:"removed_tables"`
	ModifiedTables int           `json:"modified_tables"`
	Tables         []tableReport `json:"tables"`
	Warnings       []string      `json:"warnings,omitempty"`
}

func buildReport(res *engine.Result) diffReport {
	r := diffReport{
		NewTables:      res.Summary.NewTables,
		RemovedTables:  res.Summary.RemovedTables,
		ModifiedTables: res.Summary.ModifiedTables,
	}

	for i := range res.Entries {
		e := &res.Entries[i]
		tr := tableReport{Table: e.TableName, Kind: e.Kind.String()}
		if e.Kind == schema.DiffModifiedTable {
			for _, cd := range e.ColumnDiffs {
				cr := columnReport{Name: cd.Name}
				switch cd.Kind {
				case schema.ColumnAdded:
					cr.Change = "added"
				case schema.ColumnRemoved:
					cr.Change = "removed"
				case schema.ColumnChanged:
					cr.Change = "changed"
					if s := cd.Changes.String(); s != "" {
						cr.Reasons = strings.Split(s, ",")
					}
				}
				tr.Columns = append(tr.Columns, cr)
			}
			tr.PrimaryKeyChanged = e.PrimaryKeyChanged
			tr.OldPrimaryKey = e.OldPrimaryKey
			tr.NewPrimaryKey = e.NewPrimaryKey
		}
		r.Tables = append(r.Tables, tr)
	}

	for _, w := range res.SourceWarnings {
		r.Warnings = append(r.Warnings, "source: "+w.Error())
	}
	for _, w := range res.TargetWarnings {
		r.Warnings = append(r.Warnings, "target: "+w.Error())
	}
	return r
}

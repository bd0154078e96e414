package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"schema-sync/internal/engine"
)

var (
	syncTables      []string
	syncOutput      string
	syncTimeout     time.Duration
	syncConcurrency int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Generate the migration script that reconciles the target toward the source",
	Long: `Computes the schema diff and emits the DDL script for the selected
tables. The script is never executed: review it and run it yourself.
Destructive operations (column drops, primary key drops) appear only as
advisory comments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := getSide("source")
		if err != nil {
			return err
		}
		target, err := getSide("target")
		if err != nil {
			return err
		}

		res, err := runComparison(source, target, syncTimeout, syncConcurrency, syncOutput != "")
		if err != nil {
			return err
		}

		if len(res.Entries) == 0 {
			fmt.Println("Schemas are identical; nothing to do.")
			printWarnings(res)
			return nil
		}

		// The --tables flag is the selection; without it every differing
		// table is included.
		var selection map[string]bool
		if len(syncTables) > 0 {
			selection = make(map[string]bool, len(syncTables))
			for _, t := range syncTables {
				selection[strings.TrimSpace(t)] = true
			}
		}

		actions, err := engine.Assemble(res.Entries, selection, res.TargetDialect, res.TargetSchema)
		if err != nil {
			return err
		}
		if len(actions) == 0 {
			return fmt.Errorf("no matching tables found for inputs: %v", syncTables)
		}

		script := engine.RenderScript(actions)
		if syncOutput != "" {
			if err := os.WriteFile(syncOutput, []byte(script), 0o644); err != nil {
				return fmt.Errorf("write script: %w", err)
			}
			fmt.Printf("Wrote %d migration action(s) to %s\n", len(actions), syncOutput)
		} else {
			fmt.Print(script)
		}

		printWarnings(res)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceVarP(&syncTables, "tables", "t", []string{}, "Specific tables to include in the script (comma-separated)")
	syncCmd.Flags().StringVarP(&syncOutput, "output", "o", "", "Write the script to a file instead of stdout")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0, "Overall deadline for the comparison (0 = none)")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Max concurrent per-table introspection queries per side")
}

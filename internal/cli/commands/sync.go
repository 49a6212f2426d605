package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/tablesync/pkg/frame"
	"github.com/leapstack-labs/tablesync/pkg/schema"
	"github.com/leapstack-labs/tablesync/pkg/sync"
	"github.com/spf13/cobra"
)

// syncOptions carries the sync command's flag values.
type syncOptions struct {
	table       string
	op          string
	keys        []string
	index       string
	schemaNS    string
	commitBatch int
	parallel    bool
	workers     int
	normalize   bool
	hashKey     string
	hashLength  int
}

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync <csv-file>",
		Short: "Reconcile a CSV dataset into a database table",
		Long: `Load a CSV file and reconcile it into the target table.

The table is created from the dataset's inferred schema when it does not
exist. Rows are applied according to the operation:

  append   insert rows whose keys are absent, skip the rest
  upsert   insert absent rows, update present ones (requires --keys)
  replace  clear the table, then insert every row

Row-level failures never abort the run; they are reported at the end and
the surviving rows are committed.`,
		Example: `  # Append new customers, keyed by id
  tablesync sync customers.csv --table customers --keys id

  # Upsert with a unique index on the key columns
  tablesync sync customers.csv --table customers --op upsert --keys id --index unique

  # Full reload with parallel row processing
  tablesync sync events.csv --table events --op replace --parallel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.table, "table", "", "Target table name (required)")
	cmd.Flags().StringVar(&opts.op, "op", string(sync.Append), "Operation (append|upsert|replace)")
	cmd.Flags().StringSliceVar(&opts.keys, "keys", nil, "Key columns for existence checks")
	cmd.Flags().StringVar(&opts.index, "index", string(schema.IndexUnique), "Index to build on key columns at table creation (standard|unique|primary)")
	cmd.Flags().StringVar(&opts.schemaNS, "schema", "", "Schema namespace for the target table")
	cmd.Flags().IntVar(&opts.commitBatch, "commit-batch", 0, "Rows per commit (0 uses the configured default)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Process rows concurrently")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Worker pool size for --parallel (0 derives from CPU count)")
	cmd.Flags().BoolVar(&opts.normalize, "normalize-columns", false, "Normalize column names before syncing")
	cmd.Flags().StringVar(&opts.hashKey, "hash-key", "", "Prepend a surrogate key column with this name, hashed from the key columns")
	cmd.Flags().IntVar(&opts.hashLength, "hash-length", frame.DefaultHashLength, "Surrogate key hash length")
	_ = cmd.MarkFlagRequired("table")

	_ = cmd.RegisterFlagCompletionFunc("op", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"append", "upsert", "replace"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("index", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"standard", "unique", "primary"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runSync(cmd *cobra.Command, csvPath string, opts *syncOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := loadFrame(csvPath, opts.normalize)
	if err != nil {
		return err
	}

	keys := opts.keys
	if opts.hashKey != "" {
		f, err = f.AddHashColumn(opts.hashKey, opts.hashLength, opts.keys)
		if err != nil {
			return err
		}
		keys = []string{opts.hashKey}
	}

	commitBatch := opts.commitBatch
	if commitBatch == 0 && cc.Cfg.Sync != nil {
		commitBatch = cc.Cfg.Sync.CommitBatch
	}
	parallel := opts.parallel
	workers := opts.workers
	if cc.Cfg.Sync != nil {
		parallel = parallel || cc.Cfg.Sync.Parallel
		if workers == 0 {
			workers = cc.Cfg.Sync.Workers
		}
	}
	schemaNS := opts.schemaNS
	if schemaNS == "" && cc.Cfg.Target != nil {
		schemaNS = cc.Cfg.Target.Schema
	}

	start := time.Now()
	result, err := cc.Engine.Reconcile(cmd.Context(), sync.Operation(opts.op), f, opts.table, sync.Options{
		Schema:      schemaNS,
		Keys:        keys,
		IndexKind:   schema.IndexKind(opts.index),
		CommitBatch: commitBatch,
		Parallel:    parallel,
		MaxWorkers:  workers,
	})
	if err != nil {
		return err
	}

	printResult(cmd, result, time.Since(start))
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d rows failed", len(result.Failures), f.Len())
	}
	return nil
}

// loadFrame reads the CSV file and optionally normalizes its column names.
func loadFrame(path string, normalize bool) (*frame.Frame, error) {
	f, err := frame.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if normalize {
		return f.NormalizeColumnNames()
	}
	return f, nil
}

// printResult writes the run summary and any per-row failures.
func printResult(cmd *cobra.Command, result *sync.Result, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %s %s\n", result.RunID, result.Operation, result.Table)
	fmt.Fprintf(out, "  insertions: %d\n", result.Insertions)
	fmt.Fprintf(out, "  updates:    %d\n", result.Updates)
	fmt.Fprintf(out, "  skips:      %d\n", result.Skips)
	fmt.Fprintf(out, "  failures:   %d\n", len(result.Failures))
	fmt.Fprintf(out, "Completed in %s\n", elapsed.Round(time.Millisecond))

	if len(result.Failures) == 0 {
		return
	}
	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, "Failures:")
	for _, fail := range result.Failures {
		loc := "table"
		if fail.Row != nil {
			loc = fmt.Sprintf("row %d (%s)", fail.Row.Index, fail.Row.Values)
		}
		fmt.Fprintf(errOut, "  [%s] %s: %s\n", fail.Step, loc, strings.TrimSpace(fail.Error))
	}
}

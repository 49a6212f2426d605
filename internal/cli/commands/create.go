package commands

import (
	"fmt"

	"github.com/leapstack-labs/tablesync/pkg/schema"
	"github.com/leapstack-labs/tablesync/pkg/sync"
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		table    string
		keys     []string
		index    string
		schemaNS string
	)

	cmd := &cobra.Command{
		Use:   "create <csv-file>",
		Short: "Create a table from a CSV dataset's inferred schema",
		Long: `Infer a relational schema from a CSV file and create the target table
without loading any rows. Key columns get an index of the chosen kind;
primary marks them as the table's primary key instead.`,
		Example: `  # Create with a unique index on id
  tablesync create customers.csv --table customers --keys id --index unique

  # Create with a composite primary key
  tablesync create orders.csv --table orders --keys customer_id,order_id --index primary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			f, err := loadFrame(args[0], false)
			if err != nil {
				return err
			}

			if schemaNS == "" && cc.Cfg.Target != nil {
				schemaNS = cc.Cfg.Target.Schema
			}

			if err := cc.Engine.CreateTable(cmd.Context(), f, table, sync.Options{
				Schema:    schemaNS,
				Keys:      keys,
				IndexKind: schema.IndexKind(index),
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created table %s (%d columns)\n", table, f.NumColumns())
			return nil
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table name (required)")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Key columns to index")
	cmd.Flags().StringVar(&index, "index", string(schema.IndexUnique), "Index kind (standard|unique|primary)")
	cmd.Flags().StringVar(&schemaNS, "schema", "", "Schema namespace for the table")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

package commands

import (
	"github.com/leapstack-labs/tablesync/pkg/render"
	"github.com/spf13/cobra"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var (
		align     string
		maxRows   int
		normalize bool
	)

	cmd := &cobra.Command{
		Use:   "render <csv-file>",
		Short: "Render a CSV dataset as an ASCII table",
		Long: `Load a CSV file and print it as an ASCII table. Useful for inspecting a
dataset and its inferred null handling before syncing it.`,
		Example: `  # Preview the first 20 rows, right-aligned
  tablesync render metrics.csv --align right --max-rows 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(args[0], normalize)
			if err != nil {
				return err
			}
			return render.Frame(cmd.OutOrStdout(), f, render.Options{
				Alignment: render.Alignment(align),
				MaxRows:   maxRows,
			})
		},
	}

	cmd.Flags().StringVar(&align, "align", string(render.AlignLeft), "Cell alignment (left|right|center)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum rows to render (0 renders all)")
	cmd.Flags().BoolVar(&normalize, "normalize-columns", false, "Normalize column names before rendering")

	_ = cmd.RegisterFlagCompletionFunc("align", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"left", "right", "center"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

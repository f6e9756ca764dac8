package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/compare"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [<id>] [<id>]",
	Short: "Compare 2-4 shafts field by field",
	Long: `Compare shafts side by side. Numeric rows carry a DELTA column with the
spread (max minus min) over the records that have the field.

Example:
  shaftdb compare sf-1a2b3c4d5e sf-9f8e7d6c5b`,
	Args: cobra.RangeArgs(2, 4),
	Run: func(cmd *cobra.Command, args []string) {
		runCompare(args)
	},
}

func runCompare(ids []string) {
	result, err := compare.ByIDs(rootCtx, store, ids...)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}

	if jsonOutput {
		outputJSON(result)
		return
	}

	headers := make([]string, 0, len(result.Shafts)+2)
	headers = append(headers, "FIELD")
	for _, ref := range result.Shafts {
		headers = append(headers, ref.DisplayName)
	}
	headers = append(headers, "DELTA")

	table := ui.NewTable(headers...)
	table.AlignRight(len(headers) - 1)

	for _, row := range result.Rows {
		cells := make([]string, 0, len(headers))
		cells = append(cells, row.Label)
		for _, v := range row.Values {
			if v.Absent {
				cells = append(cells, ui.AbsentCell)
				continue
			}
			cells = append(cells, v.Text)
		}
		if row.Delta != nil {
			cells = append(cells, formatNumber(*row.Delta))
		} else {
			cells = append(cells, "")
		}
		table.AddRow(cells...)
	}
	fmt.Println(table.Render())
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

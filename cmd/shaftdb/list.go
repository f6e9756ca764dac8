package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/ui"
)

var listFilter filterFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List shafts matching the given filters",
	Long: `List catalog records, optionally narrowed by filters.

All filters combine with AND. Repeatable filters (--flex, --club-type,
--launch, --spin, --kickpoint, --tip-stiffness) match any of their values.
Range filters drop records missing the field unless --include-missing is set.

Examples:
  shaftdb list
  shaftdb list --manufacturer Fujikura --club-type woods
  shaftdb list --flex Stiff --flex X-Stiff --weight-min 60 --weight-max 75
  shaftdb list --search ventus --limit 10`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd)
	},
}

func runList(cmd *cobra.Command) {
	filter, err := listFilter.build(cmd)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}

	specs, err := store.Query(rootCtx, filter)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("list failed: %v", err)
	}

	if jsonOutput {
		outputJSON(map[string]any{
			"total": len(specs),
			"items": shaftItems(specs),
		})
		return
	}

	if len(specs) == 0 {
		fmt.Println(ui.RenderMuted("no shafts match"))
		return
	}

	table := ui.NewTable("ID", "MANUFACTURER", "MODEL", "GEN", "CLUB", "FLEX", "WEIGHT", "TORQUE", "LAUNCH")
	table.AlignRight(6, 7)
	for _, spec := range specs {
		table.AddRow(
			spec.ID(),
			spec.Manufacturer,
			spec.Model,
			orAbsent(spec.Generation),
			string(spec.ClubType),
			string(spec.Flex),
			formatNumber(spec.WeightGrams),
			formatOptNumber(spec.TorqueDegrees),
			orAbsent(string(spec.Launch)),
		)
	}
	fmt.Println(table.Render())

	noun := "shafts"
	if len(specs) == 1 {
		noun = "shaft"
	}
	fmt.Println(ui.RenderMuted(fmt.Sprintf("%d %s", len(specs), noun)))
}

func init() {
	listFilter.register(listCmd)
	rootCmd.AddCommand(listCmd)
}

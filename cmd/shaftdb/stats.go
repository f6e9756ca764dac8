package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Catalog statistics",
	Long:  `Print catalog totals, per-club-type and per-flex counts, and the weight spread.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runStats()
	},
}

func runStats() {
	stats, err := store.Stats(rootCtx)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("stats failed: %v", err)
	}

	if jsonOutput {
		outputJSON(stats)
		return
	}

	fmt.Println(ui.RenderTitle("catalog"))

	var fields ui.FieldList
	fields.Add("Shafts", strconv.Itoa(stats.TotalShafts))
	fields.Add("Manufacturers", strconv.Itoa(stats.Manufacturers))
	fields.Add("Models", strconv.Itoa(stats.Models))
	if stats.TotalShafts > 0 {
		fields.Add("Weight", fmt.Sprintf("%s-%s g (mean %.1f)",
			formatNumber(stats.WeightMin), formatNumber(stats.WeightMax), stats.WeightMean))
	}
	fmt.Println(fields.Render())

	if stats.TotalShafts == 0 {
		return
	}

	// Enum order, not map order, so runs are comparable.
	clubTable := ui.NewTable("CLUB TYPE", "COUNT")
	clubTable.AlignRight(1)
	for _, ct := range types.ClubTypes() {
		if n := stats.ByClubType[ct]; n > 0 {
			clubTable.AddRow(string(ct), strconv.Itoa(n))
		}
	}
	fmt.Println()
	fmt.Println(clubTable.Render())

	flexTable := ui.NewTable("FLEX", "COUNT")
	flexTable.AlignRight(1)
	for _, fx := range types.Flexes() {
		if n := stats.ByFlex[fx]; n > 0 {
			flexTable.AddRow(string(fx), strconv.Itoa(n))
		}
	}
	fmt.Println()
	fmt.Println(flexTable.Render())
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/compare"
	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var (
	progManufacturer string
	progModel        string
	progGeneration   string
	progClubType     string
)

var progressionCmd = &cobra.Command{
	Use:   "progression",
	Short: "Weight-by-flex progression for one model",
	Long: `Show how weight tracks flex across one model's run, softest flex first.
The STEP column is the weight change from the previous flex.

Example:
  shaftdb progression --manufacturer Fujikura --model "Ventus Blue" --generation TR`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runProgression()
	},
}

func runProgression() {
	var clubType types.ClubType
	if progClubType != "" {
		parsed, err := types.ParseClubType(progClubType)
		if err != nil {
			if jsonOutput {
				outputJSONError(err)
			}
			FatalError("%v", err)
		}
		clubType = parsed
	}

	points, err := compare.WeightProgression(rootCtx, store, progManufacturer, progModel, progGeneration, clubType)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}

	if jsonOutput {
		outputJSON(map[string]any{
			"manufacturer": progManufacturer,
			"model":        progModel,
			"generation":   progGeneration,
			"points":       points,
		})
		return
	}

	if len(points) == 0 {
		fmt.Println(ui.RenderMuted("no records match"))
		return
	}

	title := progManufacturer + " " + progModel
	if progGeneration != "" {
		title += " " + progGeneration
	}
	fmt.Println(ui.RenderTitle(title))

	table := ui.NewTable("FLEX", "WEIGHT (G)", "STEP", "ID")
	table.AlignRight(1, 2)
	for i, p := range points {
		step := ui.AbsentCell
		if i > 0 {
			step = formatSigned(p.WeightGrams - points[i-1].WeightGrams)
		}
		table.AddRow(string(p.Flex), formatNumber(p.WeightGrams), step, p.ID)
	}
	fmt.Println(table.Render())
}

// formatSigned keeps the sign on positive steps so weight jumps read as +5.
func formatSigned(v float64) string {
	s := formatNumber(v)
	if v > 0 {
		return "+" + s
	}
	return s
}

func init() {
	progressionCmd.Flags().StringVar(&progManufacturer, "manufacturer", "", "Manufacturer (required)")
	progressionCmd.Flags().StringVar(&progModel, "model", "", "Model name (required)")
	progressionCmd.Flags().StringVar(&progGeneration, "generation", "", "Generation (empty matches records without one)")
	progressionCmd.Flags().StringVar(&progClubType, "club-type", "", "Limit to one club type")
	_ = progressionCmd.MarkFlagRequired("manufacturer")
	_ = progressionCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(progressionCmd)
}

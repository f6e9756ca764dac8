package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var (
	showManufacturer string
	showModel        string
	showGeneration   string
	showClubType     string
	showFlex         string
)

var showCmd = &cobra.Command{
	Use:   "show [<id>]",
	Short: "Show one shaft record in full",
	Long: `Show a single record, either by ID or by its identity key fields.

Examples:
  shaftdb show sf-1a2b3c4d5e
  shaftdb show --manufacturer Fujikura --model "Ventus Blue" --generation TR \
    --club-type woods --flex Stiff`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runShow(args)
	},
}

func runShow(args []string) {
	spec := lookupShaft(args)

	if jsonOutput {
		outputJSON(newShaftItem(spec))
		return
	}

	fmt.Println(ui.RenderTitle(spec.DisplayName()))

	var fields ui.FieldList
	fields.Add("ID", spec.ID())
	fields.Add("Manufacturer", spec.Manufacturer)
	fields.Add("Model", spec.Model)
	fields.Add("Generation", orAbsent(spec.Generation))
	fields.Add("Club type", string(spec.ClubType))
	fields.Add("Flex", fmt.Sprintf("%s (rank %d)", spec.Flex, spec.Flex.Rank()))
	fields.Add("Weight", formatNumber(spec.WeightGrams)+" g")
	fields.Add("Torque", suffixIfPresent(spec.TorqueDegrees, "°"))
	fields.Add("Length", suffixIfPresent(spec.LengthInches, " in"))
	fields.Add("Launch", orAbsent(string(spec.Launch)))
	fields.Add("Spin", orAbsent(string(spec.Spin)))
	fields.Add("Kickpoint", orAbsent(string(spec.Kickpoint)))
	fields.Add("Tip stiffness", orAbsent(string(spec.TipStiffness)))
	fields.Add("Butt diameter", suffixIfPresent(spec.ButtDiameterInches, " in"))
	fields.Add("Tip diameter", suffixIfPresent(spec.TipDiameterInches, " in"))
	fields.Add("Material", orAbsent(spec.Material))
	fields.Add("MSRP", prefixIfPresent(spec.MSRPUSD, "$"))
	fmt.Println(fields.Render())
}

// lookupShaft resolves the record by ID when one is given, otherwise by the
// identity key flags.
func lookupShaft(args []string) *types.ShaftSpec {
	if len(args) == 1 {
		spec, err := store.GetByID(rootCtx, args[0])
		if err != nil {
			if jsonOutput {
				outputJSONError(err)
			}
			FatalError("%v", err)
		}
		return spec
	}

	if showManufacturer == "" || showModel == "" || showClubType == "" || showFlex == "" {
		FatalErrorWithHint("pass an ID or the full identity key",
			"--manufacturer, --model, --club-type and --flex identify a record (--generation when the model has one)")
	}
	clubType, err := types.ParseClubType(showClubType)
	if err != nil {
		FatalError("%v", err)
	}
	flex, err := types.ParseFlex(showFlex)
	if err != nil {
		FatalError("%v", err)
	}

	key := types.Key{
		Manufacturer: showManufacturer,
		Model:        showModel,
		Generation:   showGeneration,
		ClubType:     clubType,
		Flex:         flex,
	}
	spec, err := store.Get(rootCtx, key)
	if err != nil {
		if jsonOutput {
			outputJSONError(err)
		}
		FatalError("%v", err)
	}
	return spec
}

func suffixIfPresent(v *float64, unit string) string {
	if v == nil {
		return ui.AbsentCell
	}
	return formatNumber(*v) + unit
}

func prefixIfPresent(v *float64, unit string) string {
	if v == nil {
		return ui.AbsentCell
	}
	return unit + formatNumber(*v)
}

func init() {
	showCmd.Flags().StringVar(&showManufacturer, "manufacturer", "", "Manufacturer (with --model, --club-type, --flex)")
	showCmd.Flags().StringVar(&showModel, "model", "", "Model name")
	showCmd.Flags().StringVar(&showGeneration, "generation", "", "Generation, if the model has one")
	showCmd.Flags().StringVar(&showClubType, "club-type", "", "Club type (woods, fairway, hybrid, iron, wedge, putter)")
	showCmd.Flags().StringVar(&showFlex, "flex", "", "Flex (Ladies, Senior, Regular, Stiff, X-Stiff, TX)")
	rootCmd.AddCommand(showCmd)
}

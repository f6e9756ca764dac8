package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/ui"
)

var addReplace bool

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a shaft through an interactive form",
	Long: `Add a single shaft record using an interactive terminal form. Values are
entered in canonical spelling and units (grams, inches, degrees), so no
vocabulary pack is consulted.

Keyboard navigation:
  - Tab/Shift+Tab: Move between fields
  - Enter: Submit the form (on the last field or submit button)
  - Ctrl+C: Cancel and exit
  - Arrow keys: Navigate within select fields`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runAddForm()
	},
}

func runAddForm() {
	var (
		manufacturer string
		model        string
		generation   string
		clubTypeStr  string
		flexStr      string
		weightStr    string
		torqueStr    string
		lengthStr    string
		launchStr    string
		spinStr      string
		kickpointStr string
		tipStiffStr  string
		buttDiaStr   string
		tipDiaStr    string
		material     string
		msrpStr      string
		confirmed    bool
	)

	clubOptions := make([]huh.Option[string], 0, len(types.ClubTypes()))
	for _, ct := range types.ClubTypes() {
		clubOptions = append(clubOptions, huh.NewOption(string(ct), string(ct)))
	}
	flexOptions := make([]huh.Option[string], 0, len(types.Flexes()))
	for _, fx := range types.Flexes() {
		flexOptions = append(flexOptions, huh.NewOption(string(fx), string(fx)))
	}
	profileOptions := func() []huh.Option[string] {
		opts := []huh.Option[string]{huh.NewOption("(skip)", "")}
		for _, p := range types.Profiles() {
			opts = append(opts, huh.NewOption(string(p), string(p)))
		}
		return opts
	}
	tipStiffOptions := []huh.Option[string]{huh.NewOption("(skip)", "")}
	for _, ts := range types.TipStiffnesses() {
		tipStiffOptions = append(tipStiffOptions, huh.NewOption(string(ts), string(ts)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Manufacturer").
				Description("Canonical manufacturer name (required)").
				Placeholder("e.g., Fujikura").
				Value(&manufacturer).
				Validate(requiredText("manufacturer")),

			huh.NewInput().
				Title("Model").
				Description("Model name without generation (required)").
				Placeholder("e.g., Ventus Blue").
				Value(&model).
				Validate(requiredText("model")),

			huh.NewInput().
				Title("Generation").
				Description("Generation or revision marker (optional)").
				Placeholder("e.g., TR, 2024, Velocore+").
				Value(&generation),

			huh.NewSelect[string]().
				Title("Club type").
				Description("Which club family the shaft is built for").
				Options(clubOptions...).
				Value(&clubTypeStr),

			huh.NewSelect[string]().
				Title("Flex").
				Description("Canonical flex rating").
				Options(flexOptions...).
				Value(&flexStr),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Weight").
				Description("Weight in grams (required)").
				Placeholder("e.g., 65").
				Value(&weightStr).
				Validate(requiredPositiveNumber("weight")),

			huh.NewInput().
				Title("Torque").
				Description("Torque in degrees (optional)").
				Placeholder("e.g., 3.2").
				Value(&torqueStr).
				Validate(optionalPositiveNumber("torque")),

			huh.NewInput().
				Title("Length").
				Description("Raw length in inches (optional)").
				Placeholder("e.g., 46").
				Value(&lengthStr).
				Validate(optionalPositiveNumber("length")),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Launch").
				Description("Launch profile").
				Options(profileOptions()...).
				Value(&launchStr),

			huh.NewSelect[string]().
				Title("Spin").
				Description("Spin profile").
				Options(profileOptions()...).
				Value(&spinStr),

			huh.NewSelect[string]().
				Title("Kickpoint").
				Description("Bend point").
				Options(profileOptions()...).
				Value(&kickpointStr),

			huh.NewSelect[string]().
				Title("Tip stiffness").
				Description("Tip section rating").
				Options(tipStiffOptions...).
				Value(&tipStiffStr),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Butt diameter").
				Description("Butt diameter in inches (optional)").
				Placeholder("e.g., 0.600").
				Value(&buttDiaStr).
				Validate(optionalPositiveNumber("butt diameter")),

			huh.NewInput().
				Title("Tip diameter").
				Description("Tip diameter in inches (optional)").
				Placeholder("e.g., 0.335").
				Value(&tipDiaStr).
				Validate(optionalTipDiameter),

			huh.NewInput().
				Title("Material").
				Description("Shaft material (optional)").
				Placeholder("e.g., graphite, steel").
				Value(&material),

			huh.NewInput().
				Title("MSRP").
				Description("List price in USD (optional)").
				Placeholder("e.g., 350").
				Value(&msrpStr).
				Validate(optionalNonNegativeNumber("msrp")),

			huh.NewConfirm().
				Title("Add this shaft?").
				Affirmative("Add").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, "Add cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	if !confirmed {
		fmt.Fprintln(os.Stderr, "Add cancelled.")
		os.Exit(0)
	}

	spec := &types.ShaftSpec{
		Manufacturer: strings.TrimSpace(manufacturer),
		Model:        strings.TrimSpace(model),
		Generation:   strings.TrimSpace(generation),
		ClubType:     types.ClubType(clubTypeStr),
		Flex:         types.Flex(flexStr),
		Launch:       types.Profile(launchStr),
		Spin:         types.Profile(spinStr),
		Kickpoint:    types.Profile(kickpointStr),
		TipStiffness: types.TipStiffness(tipStiffStr),
		Material:     strings.TrimSpace(material),
	}
	spec.WeightGrams = mustParseNumber(weightStr)
	spec.TorqueDegrees = parseOptNumber(torqueStr)
	spec.LengthInches = parseOptNumber(lengthStr)
	spec.ButtDiameterInches = parseOptNumber(buttDiaStr)
	spec.TipDiameterInches = parseOptNumber(tipDiaStr)
	spec.MSRPUSD = parseOptNumber(msrpStr)

	if err := spec.Validate(); err != nil {
		FatalError("%v", err)
	}

	replaced := false
	err := store.Insert(rootCtx, spec)
	if errors.Is(err, catalog.ErrDuplicateKey) && addReplace {
		err = store.Replace(rootCtx, spec)
		replaced = err == nil
	}
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateKey) {
			FatalErrorWithHint(err.Error(), "pass --replace to correct the existing record")
		}
		FatalError("%v", err)
	}
	markWrite()

	if jsonOutput {
		outputJSON(map[string]any{
			"id":           spec.ID(),
			"display_name": spec.DisplayName(),
			"replaced":     replaced,
			"shaft":        spec,
		})
		return
	}
	verb := "Added"
	if replaced {
		verb = "Replaced"
	}
	fmt.Printf("\n%s %s %s\n", ui.RenderPass(ui.IconPass), verb, spec.DisplayName())
	var fields ui.FieldList
	fields.Add("ID", spec.ID())
	fields.Add("Club type", string(spec.ClubType))
	fields.Add("Weight", formatNumber(spec.WeightGrams)+" g")
	fmt.Println(fields.Render())
}

func requiredText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func requiredPositiveNumber(field string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
		return nil
	}
}

func optionalPositiveNumber(field string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
		return nil
	}
}

func optionalNonNegativeNumber(field string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", field)
		}
		return nil
	}
}

func optionalTipDiameter(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("tip diameter must be a number")
	}
	if !types.IsKnownTipDiameter(v) {
		return fmt.Errorf("%v is not a known tip size (.335, .350, .355, .370, .380, .390, .400)", v)
	}
	return nil
}

// mustParseNumber follows a validated form field, so a parse error cannot
// happen on user input.
func mustParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		FatalError("parse number %q: %v", s, err)
	}
	return v
}

func parseOptNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func init() {
	addCmd.Flags().BoolVar(&addReplace, "replace", false, "Replace the record when the identity key already exists")
	rootCmd.AddCommand(addCmd)
}

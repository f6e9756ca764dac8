package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/types"
)

// filterFlags collects the query constraint flags shared by list and
// export. Each command owns its own instance so flag state never leaks
// between commands.
type filterFlags struct {
	manufacturer string
	model        string
	generation   string
	material     string

	clubTypes    []string
	flexes       []string
	launches     []string
	spins        []string
	kickpoints   []string
	tipStiffness []string

	weightMin, weightMax float64
	torqueMin, torqueMax float64
	lengthMin, lengthMax float64
	buttMin, buttMax     float64
	tipMin, tipMax       float64
	msrpMin, msrpMax     float64
	includeMissing       bool

	search string
	limit  int
	offset int
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&ff.manufacturer, "manufacturer", "", "Exact manufacturer (case-insensitive)")
	flags.StringVar(&ff.model, "model", "", "Exact model (case-insensitive)")
	flags.StringVar(&ff.generation, "generation", "", "Exact generation; pass '' for records without one")
	flags.StringVar(&ff.material, "material", "", "Exact material (case-insensitive)")

	flags.StringSliceVar(&ff.clubTypes, "club-type", nil, "Club types to match (repeat or comma-separate)")
	flags.StringSliceVar(&ff.flexes, "flex", nil, "Flexes to match")
	flags.StringSliceVar(&ff.launches, "launch", nil, "Launch profiles to match")
	flags.StringSliceVar(&ff.spins, "spin", nil, "Spin profiles to match")
	flags.StringSliceVar(&ff.kickpoints, "kickpoint", nil, "Kickpoints to match")
	flags.StringSliceVar(&ff.tipStiffness, "tip-stiffness", nil, "Tip stiffness values to match")

	flags.Float64Var(&ff.weightMin, "weight-min", 0, "Minimum weight in grams")
	flags.Float64Var(&ff.weightMax, "weight-max", 0, "Maximum weight in grams")
	flags.Float64Var(&ff.torqueMin, "torque-min", 0, "Minimum torque in degrees")
	flags.Float64Var(&ff.torqueMax, "torque-max", 0, "Maximum torque in degrees")
	flags.Float64Var(&ff.lengthMin, "length-min", 0, "Minimum length in inches")
	flags.Float64Var(&ff.lengthMax, "length-max", 0, "Maximum length in inches")
	flags.Float64Var(&ff.buttMin, "butt-min", 0, "Minimum butt diameter in inches")
	flags.Float64Var(&ff.buttMax, "butt-max", 0, "Maximum butt diameter in inches")
	flags.Float64Var(&ff.tipMin, "tip-min", 0, "Minimum tip diameter in inches")
	flags.Float64Var(&ff.tipMax, "tip-max", 0, "Maximum tip diameter in inches")
	flags.Float64Var(&ff.msrpMin, "msrp-min", 0, "Minimum MSRP in USD")
	flags.Float64Var(&ff.msrpMax, "msrp-max", 0, "Maximum MSRP in USD")
	flags.BoolVar(&ff.includeMissing, "include-missing", false, "Let records missing a ranged field pass range filters")

	flags.StringVar(&ff.search, "search", "", "Substring match over manufacturer, model and material")
	flags.IntVar(&ff.limit, "limit", 0, "Max records to return (0 = all)")
	flags.IntVar(&ff.offset, "offset", 0, "Records to skip")
}

// build assembles the catalog filter from whatever flags were actually set.
// Exact-match flags distinguish unset from empty via Changed, mirroring the
// REST layer's present-but-empty generation handling.
func (ff *filterFlags) build(cmd *cobra.Command) (types.Filter, error) {
	var filter types.Filter
	flags := cmd.Flags()

	if flags.Changed("manufacturer") {
		filter.Manufacturer = &ff.manufacturer
	}
	if flags.Changed("model") {
		filter.Model = &ff.model
	}
	if flags.Changed("generation") {
		filter.Generation = &ff.generation
	}
	if flags.Changed("material") {
		filter.Material = &ff.material
	}

	for _, raw := range ff.clubTypes {
		ct, err := types.ParseClubType(raw)
		if err != nil {
			return filter, err
		}
		filter.ClubTypes = append(filter.ClubTypes, ct)
	}
	for _, raw := range ff.flexes {
		fx, err := types.ParseFlex(raw)
		if err != nil {
			return filter, err
		}
		filter.Flexes = append(filter.Flexes, fx)
	}
	for _, raw := range ff.launches {
		p, err := types.ParseProfile(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid launch: %q", raw)
		}
		filter.Launches = append(filter.Launches, p)
	}
	for _, raw := range ff.spins {
		p, err := types.ParseProfile(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid spin: %q", raw)
		}
		filter.Spins = append(filter.Spins, p)
	}
	for _, raw := range ff.kickpoints {
		p, err := types.ParseProfile(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid kickpoint: %q", raw)
		}
		filter.Kickpoints = append(filter.Kickpoints, p)
	}
	for _, raw := range ff.tipStiffness {
		ts, err := types.ParseTipStiffness(raw)
		if err != nil {
			return filter, err
		}
		filter.TipStiffnesses = append(filter.TipStiffnesses, ts)
	}

	ranges := []struct {
		name     string
		min, max float64
		dest     *types.FloatRange
	}{
		{"weight", ff.weightMin, ff.weightMax, &filter.Weight},
		{"torque", ff.torqueMin, ff.torqueMax, &filter.Torque},
		{"length", ff.lengthMin, ff.lengthMax, &filter.Length},
		{"butt", ff.buttMin, ff.buttMax, &filter.ButtDiameter},
		{"tip", ff.tipMin, ff.tipMax, &filter.TipDiameter},
		{"msrp", ff.msrpMin, ff.msrpMax, &filter.MSRP},
	}
	for _, r := range ranges {
		if flags.Changed(r.name + "-min") {
			v := r.min
			r.dest.Min = &v
		}
		if flags.Changed(r.name + "-max") {
			v := r.max
			r.dest.Max = &v
		}
		if !r.dest.IsZero() {
			r.dest.IncludeMissing = ff.includeMissing
		}
	}

	filter.SearchText = strings.TrimSpace(ff.search)
	filter.Limit = ff.limit
	filter.Offset = ff.offset

	if err := filter.Validate(); err != nil {
		return filter, err
	}
	return filter, nil
}

// filterFlagNames covers every flag register adds, pagination included.
// Export uses it to mark a manifest as a partial snapshot.
var filterFlagNames = []string{
	"manufacturer", "model", "generation", "material",
	"club-type", "flex", "launch", "spin", "kickpoint", "tip-stiffness",
	"weight-min", "weight-max", "torque-min", "torque-max",
	"length-min", "length-max", "butt-min", "butt-max",
	"tip-min", "tip-max", "msrp-min", "msrp-max",
	"include-missing", "search", "limit", "offset",
}

func (ff *filterFlags) changed(cmd *cobra.Command) bool {
	flags := cmd.Flags()
	for _, name := range filterFlagNames {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

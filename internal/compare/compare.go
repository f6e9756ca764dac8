// Package compare builds side-by-side shaft comparisons and flex-run
// analyses. Comparison is presentation: records keep the caller's requested
// order and are never re-sorted.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/types"
)

// Comparison size limits. Below two there is nothing to compare; above four
// the side-by-side table stops being readable.
const (
	MinShafts = 2
	MaxShafts = 4
)

// ErrInvalidComparisonSize indicates a comparison outside the 2..4 range.
var ErrInvalidComparisonSize = errors.New("comparison requires 2 to 4 shafts")

// Value is one record's entry in a comparison row.
type Value struct {
	Text     string   `json:"text"`               // display form, canonical spelling
	Number   *float64 `json:"number,omitempty"`   // set on numeric rows
	FlexRank *int     `json:"flexRank,omitempty"` // set on the flex row
	Absent   bool     `json:"absent"`             // record does not carry this field
}

// Row aligns one field across the compared records.
type Row struct {
	Field   string   `json:"field"`           // canonical field name
	Label   string   `json:"label"`           // human heading
	Numeric bool     `json:"numeric"`         // row carries numbers and a delta
	Values  []Value  `json:"values"`          // one per record, caller order
	Delta   *float64 `json:"delta,omitempty"` // max - min over present values
}

// Result is a field-aligned comparison of 2 to 4 records.
type Result struct {
	Shafts []ShaftRef `json:"shafts"` // compared records, caller order
	Rows   []Row      `json:"rows"`   // one row per canonical field
}

// ShaftRef identifies one compared record.
type ShaftRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ByIDs fetches each record ID and compares them in the given order.
func ByIDs(ctx context.Context, store catalog.Store, ids ...string) (*Result, error) {
	if len(ids) < MinShafts || len(ids) > MaxShafts {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidComparisonSize, len(ids))
	}
	specs := make([]*types.ShaftSpec, 0, len(ids))
	for _, id := range ids {
		spec, err := store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return New(specs...)
}

// ByKeys fetches each identity key and compares them in the given order.
func ByKeys(ctx context.Context, store catalog.Store, keys ...types.Key) (*Result, error) {
	if len(keys) < MinShafts || len(keys) > MaxShafts {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidComparisonSize, len(keys))
	}
	specs := make([]*types.ShaftSpec, 0, len(keys))
	for _, key := range keys {
		spec, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return New(specs...)
}

// New compares already-fetched records, preserving their order.
func New(specs ...*types.ShaftSpec) (*Result, error) {
	if len(specs) < MinShafts || len(specs) > MaxShafts {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidComparisonSize, len(specs))
	}

	result := &Result{
		Shafts: make([]ShaftRef, len(specs)),
	}
	for i, spec := range specs {
		result.Shafts[i] = ShaftRef{ID: spec.ID(), DisplayName: spec.DisplayName()}
	}

	result.Rows = []Row{
		textRow(specs, types.FieldManufacturer, "Manufacturer", func(s *types.ShaftSpec) string { return s.Manufacturer }),
		textRow(specs, types.FieldModel, "Model", func(s *types.ShaftSpec) string { return s.Model }),
		textRow(specs, types.FieldGeneration, "Generation", func(s *types.ShaftSpec) string { return s.Generation }),
		textRow(specs, types.FieldClubType, "Club Type", func(s *types.ShaftSpec) string { return string(s.ClubType) }),
		flexRow(specs),
		numericRow(specs, types.FieldWeight, "Weight (g)", func(s *types.ShaftSpec) *float64 { return &s.WeightGrams }),
		numericRow(specs, types.FieldTorque, "Torque (deg)", func(s *types.ShaftSpec) *float64 { return s.TorqueDegrees }),
		numericRow(specs, types.FieldLength, "Length (in)", func(s *types.ShaftSpec) *float64 { return s.LengthInches }),
		textRow(specs, types.FieldKickpoint, "Kickpoint", func(s *types.ShaftSpec) string { return string(s.Kickpoint) }),
		textRow(specs, types.FieldLaunch, "Launch", func(s *types.ShaftSpec) string { return string(s.Launch) }),
		textRow(specs, types.FieldSpin, "Spin", func(s *types.ShaftSpec) string { return string(s.Spin) }),
		textRow(specs, types.FieldTipStiffness, "Tip Stiffness", func(s *types.ShaftSpec) string { return string(s.TipStiffness) }),
		numericRow(specs, types.FieldButtDiameter, "Butt (in)", func(s *types.ShaftSpec) *float64 { return s.ButtDiameterInches }),
		numericRow(specs, types.FieldTipDiameter, "Tip (in)", func(s *types.ShaftSpec) *float64 { return s.TipDiameterInches }),
		textRow(specs, types.FieldMaterial, "Material", func(s *types.ShaftSpec) string { return s.Material }),
		numericRow(specs, types.FieldMSRP, "MSRP (USD)", func(s *types.ShaftSpec) *float64 { return s.MSRPUSD }),
	}
	return result, nil
}

func textRow(specs []*types.ShaftSpec, field, label string, get func(*types.ShaftSpec) string) Row {
	row := Row{Field: field, Label: label, Values: make([]Value, len(specs))}
	for i, spec := range specs {
		text := get(spec)
		row.Values[i] = Value{Text: text, Absent: text == ""}
	}
	return row
}

func flexRow(specs []*types.ShaftSpec) Row {
	row := Row{Field: types.FieldFlex, Label: "Flex", Values: make([]Value, len(specs))}
	for i, spec := range specs {
		rank := spec.Flex.Rank()
		row.Values[i] = Value{Text: string(spec.Flex), FlexRank: &rank}
	}
	return row
}

func numericRow(specs []*types.ShaftSpec, field, label string, get func(*types.ShaftSpec) *float64) Row {
	row := Row{Field: field, Label: label, Numeric: true, Values: make([]Value, len(specs))}

	var present int
	var min, max float64
	for i, spec := range specs {
		v := get(spec)
		if v == nil {
			row.Values[i] = Value{Absent: true}
			continue
		}
		row.Values[i] = Value{Text: formatFloat(*v), Number: v}
		if present == 0 || *v < min {
			min = *v
		}
		if present == 0 || *v > max {
			max = *v
		}
		present++
	}
	if present > 0 {
		delta := max - min
		row.Delta = &delta
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ProgressionPoint is one flex step in a model's weight run.
type ProgressionPoint struct {
	ID          string     `json:"id"`
	Flex        types.Flex `json:"flex"`
	FlexRank    int        `json:"flexRank"`
	WeightGrams float64    `json:"weightGrams"`
}

// WeightProgression returns the weight-by-flex series for one model, softest
// flex first, so callers can see how mass tracks stiffness across the run.
func WeightProgression(ctx context.Context, store catalog.Store, manufacturer, model, generation string, clubType types.ClubType) ([]ProgressionPoint, error) {
	filter := types.Filter{
		Manufacturer: &manufacturer,
		Model:        &model,
		Generation:   &generation,
	}
	if clubType != "" {
		filter.ClubTypes = []types.ClubType{clubType}
	}
	specs, err := store.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("weight progression: %w", err)
	}

	points := make([]ProgressionPoint, 0, len(specs))
	for _, spec := range specs {
		points = append(points, ProgressionPoint{
			ID:          spec.ID(),
			Flex:        spec.Flex,
			FlexRank:    spec.Flex.Rank(),
			WeightGrams: spec.WeightGrams,
		})
	}
	return points, nil
}

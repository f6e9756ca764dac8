package normalize

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/vocab"
)

func testRegistry(t *testing.T) *vocab.Registry {
	t.Helper()
	projectX, err := vocab.Compile(vocab.Pack{
		Manufacturer: "Project X",
		Flex: map[string]string{
			"5.5": "Regular",
			"6.0": "Stiff",
			"6.5": "X-Stiff",
		},
		ClubType: map[string]string{
			"driver": "woods",
			"wood":   "woods",
			"iron":   "iron",
		},
		Launch: map[string]string{
			"low":     "Low",
			"low/mid": "Low-Mid",
		},
		Spin: map[string]string{
			"low": "Low",
		},
		Kickpoint: map[string]string{
			"rear": "High",
		},
		TipStiffness: map[string]string{
			"extra firm": "Very Firm",
		},
	}, "test")
	if err != nil {
		t.Fatalf("compile pack: %v", err)
	}
	reg, err := vocab.NewRegistry(projectX)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func baseRaw() RawRecord {
	return RawRecord{
		FieldManufacturer: "Project X",
		FieldModel:        "HZRDUS Black",
		FieldClubType:     "driver",
		FieldFlex:         "6.0",
		FieldWeight:       "65g",
	}
}

func TestNormalizeMapsVendorVocabulary(t *testing.T) {
	n := New(testRegistry(t))

	got, err := n.Normalize(baseRaw())
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	want := &types.ShaftSpec{
		Manufacturer: "Project X",
		Model:        "HZRDUS Black",
		ClubType:     types.ClubWoods,
		Flex:         types.FlexStiff,
		WeightGrams:  65,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	n := New(testRegistry(t))

	raw := baseRaw()
	raw[FieldGeneration] = "Gen 2"
	raw[FieldTorque] = "3.5deg"
	raw[FieldLength] = "46in"
	raw[FieldKickpoint] = "rear"
	raw[FieldLaunch] = "Low/Mid"
	raw[FieldSpin] = "LOW"
	raw[FieldTipStiffness] = "Extra Firm"
	raw[FieldButtDiameter] = "0.600"
	raw[FieldTipDiameter] = "0.335"
	raw[FieldMaterial] = "graphite"
	raw[FieldMSRP] = "$350"

	got, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if got.Generation != "Gen 2" {
		t.Errorf("Generation = %q", got.Generation)
	}
	if got.TorqueDegrees == nil || *got.TorqueDegrees != 3.5 {
		t.Errorf("TorqueDegrees = %v", got.TorqueDegrees)
	}
	if got.LengthInches == nil || *got.LengthInches != 46 {
		t.Errorf("LengthInches = %v", got.LengthInches)
	}
	if got.Kickpoint != types.ProfileHigh {
		t.Errorf("Kickpoint = %q, want High", got.Kickpoint)
	}
	if got.Launch != types.ProfileLowMid {
		t.Errorf("Launch = %q, want Low-Mid", got.Launch)
	}
	if got.Spin != types.ProfileLow {
		t.Errorf("Spin = %q, want Low", got.Spin)
	}
	if got.TipStiffness != types.TipVeryFirm {
		t.Errorf("TipStiffness = %q, want Very Firm", got.TipStiffness)
	}
	if got.MSRPUSD == nil || *got.MSRPUSD != 350 {
		t.Errorf("MSRPUSD = %v", got.MSRPUSD)
	}
}

func TestNormalizeUnitConversion(t *testing.T) {
	n := New(testRegistry(t))

	tests := []struct {
		name  string
		field string
		raw   string
		check func(*types.ShaftSpec) float64
		want  float64
	}{
		{
			name:  "ounces to grams",
			field: FieldWeight,
			raw:   "2.3oz",
			check: func(s *types.ShaftSpec) float64 { return s.WeightGrams },
			want:  2.3 * 28.349523125,
		},
		{
			name:  "kilograms to grams",
			field: FieldWeight,
			raw:   "0.065 kg",
			check: func(s *types.ShaftSpec) float64 { return s.WeightGrams },
			want:  65,
		},
		{
			name:  "centimeters to inches",
			field: FieldLength,
			raw:   "117cm",
			check: func(s *types.ShaftSpec) float64 { return *s.LengthInches },
			want:  117 / 2.54,
		},
		{
			name:  "millimeters to inches",
			field: FieldTipDiameter,
			raw:   "8.509mm",
			check: func(s *types.ShaftSpec) float64 { return *s.TipDiameterInches },
			want:  8.509 / 25.4, // rounds to .335
		},
		{
			name:  "degree sign",
			field: FieldTorque,
			raw:   "3.5°",
			check: func(s *types.ShaftSpec) float64 { return *s.TorqueDegrees },
			want:  3.5,
		},
		{
			name:  "bare number is already canonical",
			field: FieldTorque,
			raw:   "4.2",
			check: func(s *types.ShaftSpec) float64 { return *s.TorqueDegrees },
			want:  4.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := baseRaw()
			raw[tt.field] = tt.raw
			got, err := n.Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if v := tt.check(got); math.Abs(v-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.field, v, tt.want)
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	n := New(testRegistry(t))

	tests := []struct {
		name     string
		mutate   func(RawRecord)
		code     Code
		field    string
		errMsg   string
	}{
		{
			name:   "missing manufacturer",
			mutate: func(r RawRecord) { delete(r, FieldManufacturer) },
			code:   CodeMissingRequiredField,
			field:  FieldManufacturer,
		},
		{
			name:   "manufacturer without pack",
			mutate: func(r RawRecord) { r[FieldManufacturer] = "Mystery Golf" },
			code:   CodeUnmappedVocabularyValue,
			field:  FieldManufacturer,
			errMsg: "no vocabulary pack",
		},
		{
			name:   "missing model",
			mutate: func(r RawRecord) { r[FieldModel] = "   " },
			code:   CodeMissingRequiredField,
			field:  FieldModel,
		},
		{
			name:   "missing club type",
			mutate: func(r RawRecord) { delete(r, FieldClubType) },
			code:   CodeMissingRequiredField,
			field:  FieldClubType,
		},
		{
			name:   "unmapped club type",
			mutate: func(r RawRecord) { r[FieldClubType] = "longiron" },
			code:   CodeUnmappedVocabularyValue,
			field:  FieldClubType,
		},
		{
			name:   "missing flex",
			mutate: func(r RawRecord) { delete(r, FieldFlex) },
			code:   CodeMissingRequiredField,
			field:  FieldFlex,
		},
		{
			name:   "unmapped flex",
			mutate: func(r RawRecord) { r[FieldFlex] = "7.5" },
			code:   CodeUnmappedVocabularyValue,
			field:  FieldFlex,
			errMsg: `unmapped vocabulary value "7.5"`,
		},
		{
			name:   "missing weight",
			mutate: func(r RawRecord) { delete(r, FieldWeight) },
			code:   CodeMissingRequiredField,
			field:  FieldWeight,
		},
		{
			name:   "weight in inches",
			mutate: func(r RawRecord) { r[FieldWeight] = "65in" },
			code:   CodeUnitMismatch,
			field:  FieldWeight,
		},
		{
			name:   "weight with unknown unit",
			mutate: func(r RawRecord) { r[FieldWeight] = "65 stone" },
			code:   CodeUnitMismatch,
			field:  FieldWeight,
		},
		{
			name:   "weight not a number",
			mutate: func(r RawRecord) { r[FieldWeight] = "heavy" },
			code:   CodeOutOfRangeValue,
			field:  FieldWeight,
		},
		{
			name:   "zero weight",
			mutate: func(r RawRecord) { r[FieldWeight] = "0" },
			code:   CodeOutOfRangeValue,
			field:  FieldWeight,
		},
		{
			name:   "negative torque",
			mutate: func(r RawRecord) { r[FieldTorque] = "-3.5" },
			code:   CodeOutOfRangeValue,
			field:  FieldTorque,
		},
		{
			name:   "unmapped launch",
			mutate: func(r RawRecord) { r[FieldLaunch] = "penetrating" },
			code:   CodeUnmappedVocabularyValue,
			field:  FieldLaunch,
		},
		{
			name:   "unknown tip size",
			mutate: func(r RawRecord) { r[FieldTipDiameter] = "0.340" },
			code:   CodeOutOfRangeValue,
			field:  FieldTipDiameter,
		},
		{
			name:   "torque given in grams",
			mutate: func(r RawRecord) { r[FieldTorque] = "3.5g" },
			code:   CodeUnitMismatch,
			field:  FieldTorque,
		},
		{
			name:   "msrp in grams",
			mutate: func(r RawRecord) { r[FieldMSRP] = "350g" },
			code:   CodeUnitMismatch,
			field:  FieldMSRP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := baseRaw()
			tt.mutate(raw)

			_, err := n.Normalize(raw)
			if err == nil {
				t.Fatal("Normalize() expected error, got nil")
			}
			var nerr *Error
			if !errors.As(err, &nerr) {
				t.Fatalf("Normalize() error %v is not a *normalize.Error", err)
			}
			if nerr.Code != tt.code {
				t.Errorf("error code = %s, want %s", nerr.Code, tt.code)
			}
			if nerr.Field != tt.field {
				t.Errorf("error field = %s, want %s", nerr.Field, tt.field)
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want message containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestNormalizeFirstErrorWins(t *testing.T) {
	n := New(testRegistry(t))

	// Two bad fields: flex reports before weight because schema order is
	// the reporting order.
	raw := baseRaw()
	raw[FieldFlex] = "7.5"
	raw[FieldWeight] = "heavy"

	_, err := n.Normalize(raw)
	var nerr *Error
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *normalize.Error, got %v", err)
	}
	if nerr.Field != FieldFlex {
		t.Errorf("first error field = %s, want flex", nerr.Field)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New(testRegistry(t))

	raw := baseRaw()
	raw[FieldTorque] = "3.5deg"
	raw[FieldMSRP] = "350"

	a, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	b, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same raw record produced different canonical records:\n%s", diff)
	}
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	n := New(testRegistry(t))

	raw := RawRecord{
		FieldManufacturer: "  Project X  ",
		FieldModel:        " HZRDUS Black ",
		FieldClubType:     " Driver ",
		FieldFlex:         " 6.0 ",
		FieldWeight:       " 65 g ",
	}
	got, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if got.Model != "HZRDUS Black" {
		t.Errorf("Model = %q", got.Model)
	}
	if got.WeightGrams != 65 {
		t.Errorf("WeightGrams = %v", got.WeightGrams)
	}
}

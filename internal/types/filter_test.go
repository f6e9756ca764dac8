package types

import (
	"strings"
	"testing"
)

func TestFilterMatches(t *testing.T) {
	spec := validSpec()
	spec.TorqueDegrees = floatPtr(3.2)
	spec.Launch = ProfileLowMid
	spec.Material = "graphite"

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{
			name:   "zero filter matches everything",
			filter: Filter{},
			want:   true,
		},
		{
			name:   "manufacturer exact case-insensitive",
			filter: Filter{Manufacturer: strPtr("fujikura")},
			want:   true,
		},
		{
			name:   "manufacturer mismatch",
			filter: Filter{Manufacturer: strPtr("Mitsubishi")},
			want:   false,
		},
		{
			name:   "model exact",
			filter: Filter{Model: strPtr("VENTUS BLUE")},
			want:   true,
		},
		{
			name:   "generation exact",
			filter: Filter{Generation: strPtr("tr")},
			want:   true,
		},
		{
			name:   "empty generation constraint excludes generational records",
			filter: Filter{Generation: strPtr("")},
			want:   false,
		},
		{
			name:   "club type set member",
			filter: Filter{ClubTypes: []ClubType{ClubWoods, ClubHybrid}},
			want:   true,
		},
		{
			name:   "club type set non-member",
			filter: Filter{ClubTypes: []ClubType{ClubIron}},
			want:   false,
		},
		{
			name:   "flex set member",
			filter: Filter{Flexes: []Flex{FlexStiff, FlexXStiff}},
			want:   true,
		},
		{
			name:   "weight range inclusive bounds",
			filter: Filter{Weight: FloatRange{Min: floatPtr(65), Max: floatPtr(65)}},
			want:   true,
		},
		{
			name:   "weight below range",
			filter: Filter{Weight: FloatRange{Min: floatPtr(70)}},
			want:   false,
		},
		{
			name:   "torque range over present value",
			filter: Filter{Torque: FloatRange{Max: floatPtr(4)}},
			want:   true,
		},
		{
			name:   "length range with value absent",
			filter: Filter{Length: FloatRange{Min: floatPtr(40)}},
			want:   false,
		},
		{
			name:   "length range with value absent but missing allowed",
			filter: Filter{Length: FloatRange{Min: floatPtr(40), IncludeMissing: true}},
			want:   true,
		},
		{
			name:   "launch set member",
			filter: Filter{Launches: []Profile{ProfileLowMid}},
			want:   true,
		},
		{
			name:   "spin set with value absent",
			filter: Filter{Spins: []Profile{ProfileLow}},
			want:   false,
		},
		{
			name:   "material exact",
			filter: Filter{Material: strPtr("Graphite")},
			want:   true,
		},
		{
			name:   "search matches model substring",
			filter: Filter{SearchText: "ventus"},
			want:   true,
		},
		{
			name:   "search matches material substring",
			filter: Filter{SearchText: "graph"},
			want:   true,
		},
		{
			name:   "search misses",
			filter: Filter{SearchText: "hzrdus"},
			want:   false,
		},
		{
			name: "all constraints together",
			filter: Filter{
				Manufacturer: strPtr("Fujikura"),
				ClubTypes:    []ClubType{ClubWoods},
				Flexes:       []Flex{FlexStiff},
				Weight:       FloatRange{Min: floatPtr(60), Max: floatPtr(70)},
				Torque:       FloatRange{Max: floatPtr(3.5)},
			},
			want: true,
		},
		{
			name: "one failing constraint fails the record",
			filter: Filter{
				Manufacturer: strPtr("Fujikura"),
				Flexes:       []Flex{FlexRegular},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(&spec); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
		errMsg  string
	}{
		{
			name:   "zero filter",
			filter: Filter{},
		},
		{
			name: "well formed filter",
			filter: Filter{
				ClubTypes: []ClubType{ClubIron},
				Weight:    FloatRange{Min: floatPtr(60), Max: floatPtr(130)},
				Limit:     20,
				Offset:    40,
			},
		},
		{
			name:    "invalid club type",
			filter:  Filter{ClubTypes: []ClubType{ClubType("driver")}},
			wantErr: true,
			errMsg:  "invalid club type in filter",
		},
		{
			name:    "invalid flex",
			filter:  Filter{Flexes: []Flex{Flex("6.0")}},
			wantErr: true,
			errMsg:  "invalid flex in filter",
		},
		{
			name:    "inverted weight range",
			filter:  Filter{Weight: FloatRange{Min: floatPtr(80), Max: floatPtr(60)}},
			wantErr: true,
			errMsg:  "weight_grams range is inverted",
		},
		{
			name:    "inverted msrp range",
			filter:  Filter{MSRP: FloatRange{Min: floatPtr(400), Max: floatPtr(100)}},
			wantErr: true,
			errMsg:  "msrp_usd range is inverted",
		},
		{
			name:    "negative offset",
			filter:  Filter{Offset: -1},
			wantErr: true,
			errMsg:  "offset cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestFilterPage(t *testing.T) {
	specs := make([]*ShaftSpec, 5)
	for i := range specs {
		s := validSpec()
		s.WeightGrams = float64(60 + i)
		specs[i] = &s
	}

	tests := []struct {
		name        string
		limit       int
		offset      int
		wantWeights []float64
	}{
		{"no paging", 0, 0, []float64{60, 61, 62, 63, 64}},
		{"limit only", 2, 0, []float64{60, 61}},
		{"offset only", 0, 3, []float64{63, 64}},
		{"limit and offset", 2, 1, []float64{61, 62}},
		{"offset past end", 0, 10, []float64{}},
		{"limit past end", 99, 0, []float64{60, 61, 62, 63, 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Limit: tt.limit, Offset: tt.offset}
			got := f.Page(specs)
			if len(got) != len(tt.wantWeights) {
				t.Fatalf("Page() returned %d records, want %d", len(got), len(tt.wantWeights))
			}
			for i, w := range tt.wantWeights {
				if got[i].WeightGrams != w {
					t.Errorf("Page()[%d].WeightGrams = %v, want %v", i, got[i].WeightGrams, w)
				}
			}
		})
	}
}

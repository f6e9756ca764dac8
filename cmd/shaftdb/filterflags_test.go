package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/shaftlab/shaftdb/internal/types"
)

// parseFilter registers filter flags on a throwaway command, parses args and
// builds the filter, the way list and export wire it.
func parseFilter(t *testing.T, args ...string) (types.Filter, error) {
	t.Helper()
	var ff filterFlags
	cmd := &cobra.Command{Use: "probe"}
	ff.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return ff.build(cmd)
}

func TestFilterFlagsDefaults(t *testing.T) {
	filter, err := parseFilter(t)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if filter.Manufacturer != nil || filter.Model != nil || filter.Generation != nil || filter.Material != nil {
		t.Error("expected no exact-match constraints by default")
	}
	if len(filter.ClubTypes) != 0 || len(filter.Flexes) != 0 {
		t.Error("expected no enum constraints by default")
	}
	if !filter.Weight.IsZero() || !filter.MSRP.IsZero() {
		t.Error("expected no range constraints by default")
	}
	if filter.SearchText != "" || filter.Limit != 0 || filter.Offset != 0 {
		t.Error("expected no search or pagination by default")
	}
}

func TestFilterFlagsExactAndEnums(t *testing.T) {
	filter, err := parseFilter(t,
		"--manufacturer", "Fujikura",
		"--club-type", "woods", "--club-type", "Iron",
		"--flex", "stiff", "--flex", "X-Stiff",
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if filter.Manufacturer == nil || *filter.Manufacturer != "Fujikura" {
		t.Errorf("Manufacturer = %v, want Fujikura", filter.Manufacturer)
	}
	wantClubs := []types.ClubType{types.ClubWoods, types.ClubIron}
	if len(filter.ClubTypes) != 2 || filter.ClubTypes[0] != wantClubs[0] || filter.ClubTypes[1] != wantClubs[1] {
		t.Errorf("ClubTypes = %v, want %v", filter.ClubTypes, wantClubs)
	}
	wantFlexes := []types.Flex{types.FlexStiff, types.FlexXStiff}
	if len(filter.Flexes) != 2 || filter.Flexes[0] != wantFlexes[0] || filter.Flexes[1] != wantFlexes[1] {
		t.Errorf("Flexes = %v, want %v", filter.Flexes, wantFlexes)
	}
}

// An explicitly empty --generation means "records without a generation",
// which is a different constraint from leaving the flag off.
func TestFilterFlagsEmptyGeneration(t *testing.T) {
	filter, err := parseFilter(t, "--generation", "")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if filter.Generation == nil {
		t.Fatal("Generation = nil, want pointer to empty string")
	}
	if *filter.Generation != "" {
		t.Errorf("Generation = %q, want empty", *filter.Generation)
	}
}

func TestFilterFlagsRanges(t *testing.T) {
	filter, err := parseFilter(t, "--weight-min", "60", "--weight-max", "75", "--torque-max", "3.5")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if filter.Weight.Min == nil || *filter.Weight.Min != 60 {
		t.Errorf("Weight.Min = %v, want 60", filter.Weight.Min)
	}
	if filter.Weight.Max == nil || *filter.Weight.Max != 75 {
		t.Errorf("Weight.Max = %v, want 75", filter.Weight.Max)
	}
	if filter.Torque.Min != nil {
		t.Errorf("Torque.Min = %v, want nil", filter.Torque.Min)
	}
	if filter.Torque.Max == nil || *filter.Torque.Max != 3.5 {
		t.Errorf("Torque.Max = %v, want 3.5", filter.Torque.Max)
	}
	if filter.Weight.IncludeMissing {
		t.Error("IncludeMissing = true without --include-missing")
	}

	filter, err = parseFilter(t, "--torque-max", "3.5", "--include-missing")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !filter.Torque.IncludeMissing {
		t.Error("IncludeMissing not applied to the constrained range")
	}
	if filter.Weight.IncludeMissing {
		t.Error("IncludeMissing applied to an unconstrained range")
	}
}

func TestFilterFlagsRejectsBadEnums(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"flex", []string{"--flex", "6.0"}, "flex"},
		{"club type", []string{"--club-type", "mallet"}, "club type"},
		{"launch", []string{"--launch", "sideways"}, "invalid launch"},
		{"spin", []string{"--spin", "none"}, "invalid spin"},
		{"kickpoint", []string{"--kickpoint", "middle"}, "invalid kickpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFilter(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestFilterFlagsRejectsInvertedRange(t *testing.T) {
	if _, err := parseFilter(t, "--weight-min", "80", "--weight-max", "60"); err == nil {
		t.Fatal("expected error for an inverted range")
	}
}

func TestFilterFlagsChanged(t *testing.T) {
	var ff filterFlags
	cmd := &cobra.Command{Use: "probe"}
	ff.register(cmd)
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if ff.changed(cmd) {
		t.Error("changed = true with no flags set")
	}

	ff = filterFlags{}
	cmd = &cobra.Command{Use: "probe"}
	ff.register(cmd)
	if err := cmd.ParseFlags([]string{"--search", "ventus"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !ff.changed(cmd) {
		t.Error("changed = false with --search set")
	}
}

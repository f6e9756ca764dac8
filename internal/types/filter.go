package types

import (
	"fmt"
	"strings"
)

// FloatRange constrains a numeric field. Bounds are inclusive; a nil bound
// is unconstrained. A record that lacks the field fails the range unless
// IncludeMissing is set.
type FloatRange struct {
	Min            *float64
	Max            *float64
	IncludeMissing bool
}

// IsZero reports whether the range constrains nothing.
func (r FloatRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

func (r FloatRange) matches(v *float64) bool {
	if r.IsZero() {
		return true
	}
	if v == nil {
		return r.IncludeMissing
	}
	if r.Min != nil && *v < *r.Min {
		return false
	}
	if r.Max != nil && *v > *r.Max {
		return false
	}
	return true
}

func (r FloatRange) validate(field string) error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%s range is inverted (min %v > max %v)", field, *r.Min, *r.Max)
	}
	return nil
}

// Filter selects shaft records. Every populated constraint must hold for a
// record to match; there is no OR and no NOT. The zero filter matches
// everything.
type Filter struct {
	// Exact matches (case-insensitive). Generation distinguishes "no
	// constraint" (nil) from "records without a generation" (pointer to "").
	Manufacturer *string
	Model        *string
	Generation   *string
	Material     *string

	// Set membership: record value must be one of the listed values.
	ClubTypes      []ClubType
	Flexes         []Flex
	Launches       []Profile
	Spins          []Profile
	Kickpoints     []Profile
	TipStiffnesses []TipStiffness

	// Numeric ranges
	Weight       FloatRange
	Torque       FloatRange
	Length       FloatRange
	ButtDiameter FloatRange
	TipDiameter  FloatRange
	MSRP         FloatRange

	// SearchText matches a case-insensitive substring of manufacturer,
	// model or material.
	SearchText string

	// Pagination over the ordered result. Limit <= 0 means unlimited.
	Limit  int
	Offset int
}

// Validate rejects malformed constraints before a store is consulted.
func (f *Filter) Validate() error {
	for _, c := range f.ClubTypes {
		if !c.IsValid() {
			return fmt.Errorf("invalid club type in filter: %s", c)
		}
	}
	for _, fx := range f.Flexes {
		if !fx.IsValid() {
			return fmt.Errorf("invalid flex in filter: %s", fx)
		}
	}
	for _, p := range f.Launches {
		if !p.IsValid() {
			return fmt.Errorf("invalid launch in filter: %s", p)
		}
	}
	for _, p := range f.Spins {
		if !p.IsValid() {
			return fmt.Errorf("invalid spin in filter: %s", p)
		}
	}
	for _, p := range f.Kickpoints {
		if !p.IsValid() {
			return fmt.Errorf("invalid kickpoint in filter: %s", p)
		}
	}
	for _, t := range f.TipStiffnesses {
		if !t.IsValid() {
			return fmt.Errorf("invalid tip stiffness in filter: %s", t)
		}
	}
	ranges := []struct {
		name string
		r    FloatRange
	}{
		{"weight_grams", f.Weight},
		{"torque_degrees", f.Torque},
		{"length_inches", f.Length},
		{"butt_diameter_inches", f.ButtDiameter},
		{"tip_diameter_inches", f.TipDiameter},
		{"msrp_usd", f.MSRP},
	}
	for _, rr := range ranges {
		if err := rr.r.validate(rr.name); err != nil {
			return err
		}
	}
	if f.Offset < 0 {
		return fmt.Errorf("offset cannot be negative (got %d)", f.Offset)
	}
	return nil
}

// Matches reports whether the record satisfies every constraint. Both store
// backends defer to this so filter semantics cannot drift between them;
// pagination is applied by the store after ordering, not here.
func (f *Filter) Matches(s *ShaftSpec) bool {
	if f.Manufacturer != nil && !strings.EqualFold(strings.TrimSpace(*f.Manufacturer), s.Manufacturer) {
		return false
	}
	if f.Model != nil && !strings.EqualFold(strings.TrimSpace(*f.Model), s.Model) {
		return false
	}
	if f.Generation != nil && !strings.EqualFold(strings.TrimSpace(*f.Generation), s.Generation) {
		return false
	}
	if f.Material != nil && !strings.EqualFold(strings.TrimSpace(*f.Material), s.Material) {
		return false
	}
	if len(f.ClubTypes) > 0 && !containsValue(f.ClubTypes, s.ClubType) {
		return false
	}
	if len(f.Flexes) > 0 && !containsValue(f.Flexes, s.Flex) {
		return false
	}
	// Optional enums: an absent value never satisfies a set constraint.
	if len(f.Launches) > 0 && (s.Launch == "" || !containsValue(f.Launches, s.Launch)) {
		return false
	}
	if len(f.Spins) > 0 && (s.Spin == "" || !containsValue(f.Spins, s.Spin)) {
		return false
	}
	if len(f.Kickpoints) > 0 && (s.Kickpoint == "" || !containsValue(f.Kickpoints, s.Kickpoint)) {
		return false
	}
	if len(f.TipStiffnesses) > 0 && (s.TipStiffness == "" || !containsValue(f.TipStiffnesses, s.TipStiffness)) {
		return false
	}
	w := s.WeightGrams
	if !f.Weight.matches(&w) {
		return false
	}
	if !f.Torque.matches(s.TorqueDegrees) {
		return false
	}
	if !f.Length.matches(s.LengthInches) {
		return false
	}
	if !f.ButtDiameter.matches(s.ButtDiameterInches) {
		return false
	}
	if !f.TipDiameter.matches(s.TipDiameterInches) {
		return false
	}
	if !f.MSRP.matches(s.MSRPUSD) {
		return false
	}
	if f.SearchText != "" && !matchesSearch(s, f.SearchText) {
		return false
	}
	return true
}

func matchesSearch(s *ShaftSpec, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Manufacturer), needle) ||
		strings.Contains(strings.ToLower(s.Model), needle) ||
		strings.Contains(strings.ToLower(s.Material), needle)
}

func containsValue[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Page slices the ordered result according to Limit and Offset. An offset
// past the end yields an empty slice, never an error.
func (f *Filter) Page(specs []*ShaftSpec) []*ShaftSpec {
	if f.Offset > 0 {
		if f.Offset >= len(specs) {
			return []*ShaftSpec{}
		}
		specs = specs[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(specs) {
		specs = specs[:f.Limit]
	}
	return specs
}

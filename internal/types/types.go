// Package types defines core data structures for the shaftdb catalog.
package types

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
)

// ShaftSpec is a canonical shaft record. All enum fields hold canonical
// vocabulary only; raw vendor spellings never reach this struct. Numeric
// fields are stored in canonical units (grams, inches, degrees, USD).
type ShaftSpec struct {
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Generation   string   `json:"generation,omitempty"` // e.g. "TR", "Velocore+"; "" when the maker publishes none
	ClubType     ClubType `json:"club_type"`
	Flex         Flex     `json:"flex"`
	WeightGrams  float64  `json:"weight_grams"`

	TorqueDegrees      *float64     `json:"torque_degrees,omitempty"`
	LengthInches       *float64     `json:"length_inches,omitempty"`
	Kickpoint          Profile      `json:"kickpoint,omitempty"`
	Launch             Profile      `json:"launch,omitempty"`
	Spin               Profile      `json:"spin,omitempty"`
	TipStiffness       TipStiffness `json:"tip_stiffness,omitempty"`
	ButtDiameterInches *float64     `json:"butt_diameter_inches,omitempty"`
	TipDiameterInches  *float64     `json:"tip_diameter_inches,omitempty"`
	Material           string       `json:"material,omitempty"`
	MSRPUSD            *float64     `json:"msrp_usd,omitempty"`
}

// Key identifies a shaft record. Generation participates even when empty:
// a maker that re-releases a model under a generation tag gets a distinct
// catalog entry per generation.
type Key struct {
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Generation   string   `json:"generation,omitempty"`
	ClubType     ClubType `json:"club_type"`
	Flex         Flex     `json:"flex"`
}

// Key returns the identity key of the record.
func (s *ShaftSpec) Key() Key {
	return Key{
		Manufacturer: s.Manufacturer,
		Model:        s.Model,
		Generation:   s.Generation,
		ClubType:     s.ClubType,
		Flex:         s.Flex,
	}
}

// Validate checks that the key has every identity field set.
func (k Key) Validate() error {
	if strings.TrimSpace(k.Manufacturer) == "" {
		return fmt.Errorf("manufacturer is required")
	}
	if strings.TrimSpace(k.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if !k.ClubType.IsValid() {
		return fmt.Errorf("invalid club type: %s", k.ClubType)
	}
	if !k.Flex.IsValid() {
		return fmt.Errorf("invalid flex: %s", k.Flex)
	}
	return nil
}

// String renders the key for error messages and logs.
func (k Key) String() string {
	if k.Generation == "" {
		return fmt.Sprintf("%s/%s/%s/%s", k.Manufacturer, k.Model, k.ClubType, k.Flex)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", k.Manufacturer, k.Model, k.Generation, k.ClubType, k.Flex)
}

// ID derives the record handle from the identity key: sf- plus the first
// 10 hex digits of a SHA256 over the case-folded key fields. Identical keys
// always produce identical IDs, so IDs survive export/import without being
// serialized.
func (k Key) ID() string {
	h := sha256.New()
	h.Write([]byte(foldKeyField(k.Manufacturer)))
	h.Write([]byte{0}) // separator
	h.Write([]byte(foldKeyField(k.Model)))
	h.Write([]byte{0})
	h.Write([]byte(foldKeyField(k.Generation)))
	h.Write([]byte{0})
	h.Write([]byte(k.ClubType))
	h.Write([]byte{0})
	h.Write([]byte(k.Flex))
	return fmt.Sprintf("sf-%x", h.Sum(nil))[:13]
}

// Equal reports whether two keys identify the same record. Manufacturer,
// model and generation compare case-insensitively after trimming.
func (k Key) Equal(other Key) bool {
	return foldKeyField(k.Manufacturer) == foldKeyField(other.Manufacturer) &&
		foldKeyField(k.Model) == foldKeyField(other.Model) &&
		foldKeyField(k.Generation) == foldKeyField(other.Generation) &&
		k.ClubType == other.ClubType &&
		k.Flex == other.Flex
}

func foldKeyField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ID derives the record handle from the identity key.
func (s *ShaftSpec) ID() string {
	return s.Key().ID()
}

// DisplayName renders the human-readable name, e.g.
// "Fujikura Ventus Blue TR Stiff". The generation segment is omitted when
// the record has none.
func (s *ShaftSpec) DisplayName() string {
	if s.Generation == "" {
		return fmt.Sprintf("%s %s %s", s.Manufacturer, s.Model, s.Flex)
	}
	return fmt.Sprintf("%s %s %s %s", s.Manufacturer, s.Model, s.Generation, s.Flex)
}

// Validate checks that the record satisfies every schema constraint. It is
// the single authority: the normalizer, the stores, and snapshot loading all
// funnel through it.
func (s *ShaftSpec) Validate() error {
	if strings.TrimSpace(s.Manufacturer) == "" {
		return fmt.Errorf("manufacturer is required")
	}
	if strings.TrimSpace(s.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if !s.ClubType.IsValid() {
		return fmt.Errorf("invalid club type: %s", s.ClubType)
	}
	if !s.Flex.IsValid() {
		return fmt.Errorf("invalid flex: %s", s.Flex)
	}
	if s.WeightGrams <= 0 {
		return fmt.Errorf("weight_grams must be positive (got %v)", s.WeightGrams)
	}
	if s.TorqueDegrees != nil && *s.TorqueDegrees <= 0 {
		return fmt.Errorf("torque_degrees must be positive (got %v)", *s.TorqueDegrees)
	}
	if s.LengthInches != nil && *s.LengthInches <= 0 {
		return fmt.Errorf("length_inches must be positive (got %v)", *s.LengthInches)
	}
	if s.Kickpoint != "" && !s.Kickpoint.IsValid() {
		return fmt.Errorf("invalid kickpoint: %s", s.Kickpoint)
	}
	if s.Launch != "" && !s.Launch.IsValid() {
		return fmt.Errorf("invalid launch: %s", s.Launch)
	}
	if s.Spin != "" && !s.Spin.IsValid() {
		return fmt.Errorf("invalid spin: %s", s.Spin)
	}
	if s.TipStiffness != "" && !s.TipStiffness.IsValid() {
		return fmt.Errorf("invalid tip stiffness: %s", s.TipStiffness)
	}
	if s.ButtDiameterInches != nil && *s.ButtDiameterInches <= 0 {
		return fmt.Errorf("butt_diameter_inches must be positive (got %v)", *s.ButtDiameterInches)
	}
	if s.TipDiameterInches != nil && !IsKnownTipDiameter(*s.TipDiameterInches) {
		return fmt.Errorf("tip_diameter_inches %v is not a known tip size", *s.TipDiameterInches)
	}
	if s.MSRPUSD != nil && *s.MSRPUSD < 0 {
		return fmt.Errorf("msrp_usd cannot be negative (got %v)", *s.MSRPUSD)
	}
	return nil
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate catalog state through a query result.
func (s *ShaftSpec) Clone() *ShaftSpec {
	out := *s
	out.TorqueDegrees = clonePtr(s.TorqueDegrees)
	out.LengthInches = clonePtr(s.LengthInches)
	out.ButtDiameterInches = clonePtr(s.ButtDiameterInches)
	out.TipDiameterInches = clonePtr(s.TipDiameterInches)
	out.MSRPUSD = clonePtr(s.MSRPUSD)
	return &out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ClubType categorizes which club family a shaft is built for
type ClubType string

// Club type constants
const (
	ClubWoods   ClubType = "woods"
	ClubFairway ClubType = "fairway"
	ClubHybrid  ClubType = "hybrid"
	ClubIron    ClubType = "iron"
	ClubWedge   ClubType = "wedge"
	ClubPutter  ClubType = "putter"
)

// IsValid checks if the club type value is valid
func (c ClubType) IsValid() bool {
	switch c {
	case ClubWoods, ClubFairway, ClubHybrid, ClubIron, ClubWedge, ClubPutter:
		return true
	}
	return false
}

// ClubTypes lists every club type in canonical order.
func ClubTypes() []ClubType {
	return []ClubType{ClubWoods, ClubFairway, ClubHybrid, ClubIron, ClubWedge, ClubPutter}
}

// ParseClubType converts a canonical club type spelling (any case) to its
// enum value.
func ParseClubType(raw string) (ClubType, error) {
	c := ClubType(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid club type: %q", raw)
	}
	return c, nil
}

// Flex is the canonical stiffness designation
type Flex string

// Flex constants, softest to stiffest
const (
	FlexLadies  Flex = "Ladies"
	FlexSenior  Flex = "Senior"
	FlexRegular Flex = "Regular"
	FlexStiff   Flex = "Stiff"
	FlexXStiff  Flex = "X-Stiff"
	FlexTX      Flex = "TX"
)

// IsValid checks if the flex value is valid
func (f Flex) IsValid() bool {
	switch f {
	case FlexLadies, FlexSenior, FlexRegular, FlexStiff, FlexXStiff, FlexTX:
		return true
	}
	return false
}

// Rank places the flex on the stiffness ladder:
// Ladies=0 < Senior < Regular < Stiff < X-Stiff < TX=5.
// Returns -1 for an unrecognized flex.
func (f Flex) Rank() int {
	switch f {
	case FlexLadies:
		return 0
	case FlexSenior:
		return 1
	case FlexRegular:
		return 2
	case FlexStiff:
		return 3
	case FlexXStiff:
		return 4
	case FlexTX:
		return 5
	}
	return -1
}

// Flexes lists every flex in rank order.
func Flexes() []Flex {
	return []Flex{FlexLadies, FlexSenior, FlexRegular, FlexStiff, FlexXStiff, FlexTX}
}

// ParseFlex converts a canonical flex spelling (any case) to its enum value.
// This parses canonical vocabulary only; raw vendor spellings go through the
// vocabulary tables instead.
func ParseFlex(raw string) (Flex, error) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	for _, f := range Flexes() {
		if strings.ToLower(string(f)) == folded {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid flex: %q", raw)
}

// Profile is the shared five-level scale used by launch, spin and kickpoint.
type Profile string

// Profile constants, lowest to highest
const (
	ProfileLow     Profile = "Low"
	ProfileLowMid  Profile = "Low-Mid"
	ProfileMid     Profile = "Mid"
	ProfileMidHigh Profile = "Mid-High"
	ProfileHigh    Profile = "High"
)

// IsValid checks if the profile value is valid
func (p Profile) IsValid() bool {
	switch p {
	case ProfileLow, ProfileLowMid, ProfileMid, ProfileMidHigh, ProfileHigh:
		return true
	}
	return false
}

// Profiles lists every profile level in order.
func Profiles() []Profile {
	return []Profile{ProfileLow, ProfileLowMid, ProfileMid, ProfileMidHigh, ProfileHigh}
}

// ParseProfile converts a canonical profile spelling (any case) to its enum
// value.
func ParseProfile(raw string) (Profile, error) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	for _, p := range Profiles() {
		if strings.ToLower(string(p)) == folded {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid profile: %q", raw)
}

// TipStiffness is the canonical tip section designation
type TipStiffness string

// Tip stiffness constants, softest to firmest
const (
	TipSoft     TipStiffness = "Soft"
	TipMedium   TipStiffness = "Medium"
	TipFirm     TipStiffness = "Firm"
	TipVeryFirm TipStiffness = "Very Firm"
)

// IsValid checks if the tip stiffness value is valid
func (t TipStiffness) IsValid() bool {
	switch t {
	case TipSoft, TipMedium, TipFirm, TipVeryFirm:
		return true
	}
	return false
}

// TipStiffnesses lists every tip stiffness in order.
func TipStiffnesses() []TipStiffness {
	return []TipStiffness{TipSoft, TipMedium, TipFirm, TipVeryFirm}
}

// ParseTipStiffness converts a canonical tip stiffness spelling (any case)
// to its enum value.
func ParseTipStiffness(raw string) (TipStiffness, error) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range TipStiffnesses() {
		if strings.ToLower(string(t)) == folded {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid tip stiffness: %q", raw)
}

// KnownTipDiameters are the tip sizes the industry actually produces, in
// inches. Parallel iron tips are .370, taper tips .355, modern wood tips
// .335; the rest cover hybrids, putters and legacy builds.
var KnownTipDiameters = []float64{0.335, 0.350, 0.355, 0.370, 0.380, 0.390, 0.400}

// IsKnownTipDiameter reports whether v matches a known tip size. Values are
// rounded to three decimals first so float noise from unit conversion does
// not fail membership.
func IsKnownTipDiameter(v float64) bool {
	r := math.Round(v*1000) / 1000
	for _, d := range KnownTipDiameters {
		if r == d {
			return true
		}
	}
	return false
}

// Statistics provides aggregate catalog metrics
type Statistics struct {
	TotalShafts   int              `json:"total_shafts"`
	Manufacturers int              `json:"manufacturers"`
	Models        int              `json:"models"`
	ByClubType    map[ClubType]int `json:"by_club_type"`
	ByFlex        map[Flex]int     `json:"by_flex"`
	WeightMin     float64          `json:"weight_min_grams"`
	WeightMax     float64          `json:"weight_max_grams"`
	WeightMean    float64          `json:"weight_mean_grams"`
}

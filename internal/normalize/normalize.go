// Package normalize turns raw manufacturer records into canonical shaft
// specs. Enum fields go through the manufacturer's vocabulary pack, numeric
// fields through declared-unit conversion, and anything that cannot be
// resolved becomes a typed Error rather than a guess.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shaftlab/shaftdb/internal/types"
	"github.com/shaftlab/shaftdb/internal/vocab"
)

// Canonical raw field names. The ingester maps CSV headers onto these; the
// normalizer accepts nothing else.
const (
	FieldManufacturer = types.FieldManufacturer
	FieldModel        = types.FieldModel
	FieldGeneration   = types.FieldGeneration
	FieldClubType     = types.FieldClubType
	FieldFlex         = types.FieldFlex
	FieldWeight       = types.FieldWeight
	FieldTorque       = types.FieldTorque
	FieldLength       = types.FieldLength
	FieldKickpoint    = types.FieldKickpoint
	FieldLaunch       = types.FieldLaunch
	FieldSpin         = types.FieldSpin
	FieldTipStiffness = types.FieldTipStiffness
	FieldButtDiameter = types.FieldButtDiameter
	FieldTipDiameter  = types.FieldTipDiameter
	FieldMaterial     = types.FieldMaterial
	FieldMSRP         = types.FieldMSRP
)

// RawRecord is one manufacturer-reported shaft variant, keyed by canonical
// field name. Values are the maker's raw strings: vendor vocabulary for
// enum fields, numbers with optional declared units for numeric fields.
type RawRecord map[string]string

func (r RawRecord) get(field string) string {
	return strings.TrimSpace(r[field])
}

// Normalizer maps raw records against a vocabulary registry. It is pure:
// the same raw record and registry always produce the same result.
type Normalizer struct {
	registry *vocab.Registry
}

// New returns a Normalizer backed by the given registry.
func New(registry *vocab.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize converts one raw record. On failure the returned error is a
// *Error for the first offending field, in schema field order, so a bad
// record reports deterministically.
func (n *Normalizer) Normalize(raw RawRecord) (*types.ShaftSpec, error) {
	manufacturer := raw.get(FieldManufacturer)
	if manufacturer == "" {
		return nil, missingField(FieldManufacturer)
	}
	table, ok := n.registry.Table(manufacturer)
	if !ok {
		return nil, unmappedValue(FieldManufacturer, manufacturer, "no vocabulary pack for this manufacturer")
	}

	model := raw.get(FieldModel)
	if model == "" {
		return nil, missingField(FieldModel)
	}

	spec := &types.ShaftSpec{
		Manufacturer: table.Manufacturer,
		Model:        model,
		Generation:   raw.get(FieldGeneration),
		Material:     raw.get(FieldMaterial),
	}

	rawClub := raw.get(FieldClubType)
	if rawClub == "" {
		return nil, missingField(FieldClubType)
	}
	clubType, ok := table.ClubType(rawClub)
	if !ok {
		return nil, unmappedValue(FieldClubType, rawClub, "")
	}
	spec.ClubType = clubType

	rawFlex := raw.get(FieldFlex)
	if rawFlex == "" {
		return nil, missingField(FieldFlex)
	}
	flex, ok := table.Flex(rawFlex)
	if !ok {
		return nil, unmappedValue(FieldFlex, rawFlex, "")
	}
	spec.Flex = flex

	rawWeight := raw.get(FieldWeight)
	if rawWeight == "" {
		return nil, missingField(FieldWeight)
	}
	weight, werr := parseQuantity(FieldWeight, rawWeight, familyMass)
	if werr != nil {
		return nil, werr
	}
	if weight <= 0 {
		return nil, outOfRange(FieldWeight, rawWeight, "must be positive")
	}
	spec.WeightGrams = weight

	if v := raw.get(FieldTorque); v != "" {
		torque, err := parseQuantity(FieldTorque, v, familyAngle)
		if err != nil {
			return nil, err
		}
		if torque <= 0 {
			return nil, outOfRange(FieldTorque, v, "must be positive")
		}
		spec.TorqueDegrees = &torque
	}

	if v := raw.get(FieldLength); v != "" {
		length, err := parseQuantity(FieldLength, v, familyLength)
		if err != nil {
			return nil, err
		}
		if length <= 0 {
			return nil, outOfRange(FieldLength, v, "must be positive")
		}
		spec.LengthInches = &length
	}

	if v := raw.get(FieldKickpoint); v != "" {
		kp, ok := table.Kickpoint(v)
		if !ok {
			return nil, unmappedValue(FieldKickpoint, v, "")
		}
		spec.Kickpoint = kp
	}

	if v := raw.get(FieldLaunch); v != "" {
		launch, ok := table.Launch(v)
		if !ok {
			return nil, unmappedValue(FieldLaunch, v, "")
		}
		spec.Launch = launch
	}

	if v := raw.get(FieldSpin); v != "" {
		spin, ok := table.Spin(v)
		if !ok {
			return nil, unmappedValue(FieldSpin, v, "")
		}
		spec.Spin = spin
	}

	if v := raw.get(FieldTipStiffness); v != "" {
		ts, ok := table.TipStiffness(v)
		if !ok {
			return nil, unmappedValue(FieldTipStiffness, v, "")
		}
		spec.TipStiffness = ts
	}

	if v := raw.get(FieldButtDiameter); v != "" {
		butt, err := parseQuantity(FieldButtDiameter, v, familyLength)
		if err != nil {
			return nil, err
		}
		if butt <= 0 {
			return nil, outOfRange(FieldButtDiameter, v, "must be positive")
		}
		spec.ButtDiameterInches = &butt
	}

	if v := raw.get(FieldTipDiameter); v != "" {
		tip, err := parseQuantity(FieldTipDiameter, v, familyLength)
		if err != nil {
			return nil, err
		}
		if !types.IsKnownTipDiameter(tip) {
			return nil, outOfRange(FieldTipDiameter, v, "not a known tip size")
		}
		spec.TipDiameterInches = &tip
	}

	if v := raw.get(FieldMSRP); v != "" {
		msrp, err := parseQuantity(FieldMSRP, v, familyCurrency)
		if err != nil {
			return nil, err
		}
		if msrp < 0 {
			return nil, outOfRange(FieldMSRP, v, "cannot be negative")
		}
		spec.MSRPUSD = &msrp
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("normalized record failed validation: %w", err)
	}
	return spec, nil
}

package types

// Canonical field names. These are the raw-record keys the normalizer reads,
// the CSV header, and the field identifiers in comparison rows.
const (
	FieldManufacturer = "manufacturer"
	FieldModel        = "model"
	FieldGeneration   = "generation"
	FieldClubType     = "club_type"
	FieldFlex         = "flex"
	FieldWeight       = "weight_grams"
	FieldTorque       = "torque_degrees"
	FieldLength       = "length_inches"
	FieldKickpoint    = "kickpoint"
	FieldLaunch       = "launch"
	FieldSpin         = "spin"
	FieldTipStiffness = "tip_stiffness"
	FieldButtDiameter = "butt_diameter_inches"
	FieldTipDiameter  = "tip_diameter_inches"
	FieldMaterial     = "material"
	FieldMSRP         = "msrp_usd"
)

// FieldNames lists every canonical field in schema order.
func FieldNames() []string {
	return []string{
		FieldManufacturer,
		FieldModel,
		FieldGeneration,
		FieldClubType,
		FieldFlex,
		FieldWeight,
		FieldTorque,
		FieldLength,
		FieldKickpoint,
		FieldLaunch,
		FieldSpin,
		FieldTipStiffness,
		FieldButtDiameter,
		FieldTipDiameter,
		FieldMaterial,
		FieldMSRP,
	}
}

package normalize

import (
	"strconv"
	"strings"
	"unicode"
)

// Unit families for the numeric fields. A bare number is taken as already
// canonical; a suffixed number is converted with a fixed factor; a suffix
// from the wrong family or an unknown suffix is a unit mismatch. There is
// no guessing.
type unitFamily string

const (
	familyMass     unitFamily = "grams"
	familyLength   unitFamily = "inches"
	familyAngle    unitFamily = "degrees"
	familyCurrency unitFamily = "USD"
)

type unit struct {
	family unitFamily
	factor float64
}

var units = map[string]unit{
	"g":       {familyMass, 1},
	"gram":    {familyMass, 1},
	"grams":   {familyMass, 1},
	"kg":      {familyMass, 1000},
	"oz":      {familyMass, 28.349523125},
	"in":      {familyLength, 1},
	"inch":    {familyLength, 1},
	"inches":  {familyLength, 1},
	`"`:       {familyLength, 1},
	"cm":      {familyLength, 1 / 2.54},
	"mm":      {familyLength, 1 / 25.4},
	"deg":     {familyAngle, 1},
	"degree":  {familyAngle, 1},
	"degrees": {familyAngle, 1},
	"°":       {familyAngle, 1},
	"usd":     {familyCurrency, 1},
	"$":       {familyCurrency, 1},
}

// parseQuantity converts a raw numeric string into the canonical unit of
// the given family. Examples for mass: "65" -> 65, "65g" -> 65,
// "2.3 oz" -> 65.2039..., "65in" -> unit mismatch.
func parseQuantity(field, raw string, family unitFamily) (float64, *Error) {
	text := strings.TrimSpace(raw)

	// Currency may be prefix-tagged: "$350".
	if strings.HasPrefix(text, "$") {
		if family != familyCurrency {
			return 0, unitMismatch(field, raw, "value is a dollar amount, field expects "+string(family))
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, "$"))
	}

	number, suffix := splitUnitSuffix(text)
	if number == "" {
		return 0, outOfRange(field, raw, "not a number")
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, outOfRange(field, raw, "not a number")
	}

	if suffix == "" {
		return value, nil
	}
	u, ok := units[suffix]
	if !ok {
		return 0, unitMismatch(field, raw, "unrecognized unit "+strconv.Quote(suffix))
	}
	if u.family != family {
		return 0, unitMismatch(field, raw, "unit is "+string(u.family)+", field expects "+string(family))
	}
	return value * u.factor, nil
}

// splitUnitSuffix separates "46.5 in" into ("46.5", "in"). The suffix is
// the trailing run of letters or unit symbols; everything before it is the
// number text.
func splitUnitSuffix(text string) (number, suffix string) {
	runes := []rune(text)
	i := len(runes)
	for i > 0 {
		r := runes[i-1]
		if unicode.IsLetter(r) || r == '°' || r == '"' {
			i--
			continue
		}
		break
	}
	number = strings.TrimSpace(string(runes[:i]))
	suffix = strings.ToLower(strings.TrimSpace(string(runes[i:])))
	return number, suffix
}

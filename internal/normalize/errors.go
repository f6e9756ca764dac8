package normalize

import "fmt"

// Code identifies a class of normalization failure.
type Code string

// Normalization failure codes
const (
	CodeMissingRequiredField    Code = "missing_required_field"
	CodeUnmappedVocabularyValue Code = "unmapped_vocabulary_value"
	CodeOutOfRangeValue         Code = "out_of_range_value"
	CodeUnitMismatch            Code = "unit_mismatch"
)

// Error reports why one raw field could not be normalized. Batch ingestion
// collects these per row; nothing is ever coerced or guessed to avoid one.
type Error struct {
	Field string // canonical field name, e.g. "flex"
	Code  Code
	Value string // the offending raw value, "" for missing fields
	Hint  string // optional detail, e.g. the unit that was not recognized
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeMissingRequiredField:
		return fmt.Sprintf("%s: required field is missing", e.Field)
	case CodeUnmappedVocabularyValue:
		if e.Hint != "" {
			return fmt.Sprintf("%s: unmapped vocabulary value %q (%s)", e.Field, e.Value, e.Hint)
		}
		return fmt.Sprintf("%s: unmapped vocabulary value %q", e.Field, e.Value)
	case CodeOutOfRangeValue:
		if e.Hint != "" {
			return fmt.Sprintf("%s: value %q out of range (%s)", e.Field, e.Value, e.Hint)
		}
		return fmt.Sprintf("%s: value %q out of range", e.Field, e.Value)
	case CodeUnitMismatch:
		if e.Hint != "" {
			return fmt.Sprintf("%s: unit mismatch in %q (%s)", e.Field, e.Value, e.Hint)
		}
		return fmt.Sprintf("%s: unit mismatch in %q", e.Field, e.Value)
	}
	return fmt.Sprintf("%s: invalid value %q", e.Field, e.Value)
}

func missingField(field string) *Error {
	return &Error{Field: field, Code: CodeMissingRequiredField}
}

func unmappedValue(field, value, hint string) *Error {
	return &Error{Field: field, Code: CodeUnmappedVocabularyValue, Value: value, Hint: hint}
}

func outOfRange(field, value, hint string) *Error {
	return &Error{Field: field, Code: CodeOutOfRangeValue, Value: value, Hint: hint}
}

func unitMismatch(field, value, hint string) *Error {
	return &Error{Field: field, Code: CodeUnitMismatch, Value: value, Hint: hint}
}

package validation

import (
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrorKind is the category of a single field validation failure.
type ErrorKind string

const (
	Required        ErrorKind = "required"
	TooShort        ErrorKind = "tooShort"
	TooLong         ErrorKind = "tooLong"
	PatternMismatch ErrorKind = "patternMismatch"
)

// Result maps field ids to the first failing check. Fields that passed are
// absent.
type Result map[string]ErrorKind

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// ValidateField evaluates value against the field's rules. Checks run in a
// fixed order (required, minLength, maxLength, pattern) and the first failure
// wins. Optional fields left empty never fail.
func ValidateField(field model.Field, value model.Value) (ErrorKind, bool) {
	if isEmpty(field, value) {
		if field.Required {
			return Required, true
		}
		return "", false
	}

	rules := field.Validation
	if rules.Empty() || !field.Type.StringValued() {
		return "", false
	}

	text := value.Text()
	if rules.MinLength != nil || rules.MaxLength != nil {
		length := utf8.RuneCountInString(text)
		if rules.MinLength != nil && length < *rules.MinLength {
			return TooShort, true
		}
		if rules.MaxLength != nil && length > *rules.MaxLength {
			return TooLong, true
		}
	}

	if rules.Pattern != "" {
		re, err := compilePattern(rules.Pattern)
		if err != nil || !re.MatchString(text) {
			return PatternMismatch, true
		}
	}
	return "", false
}

// ValidateFields validates each field against its value in values.
func ValidateFields(fields []model.Field, values model.Values) Result {
	result := Result{}
	for _, field := range fields {
		if kind, failed := ValidateField(field, values[field.ID]); failed {
			result[field.ID] = kind
		}
	}
	return result
}

// isEmpty applies the per-type notion of an unanswered field. A checkbox is
// answered only when checked. For text-like fields an unchecked boolean is
// empty and any other stray shape is judged by its textual form.
func isEmpty(field model.Field, value model.Value) bool {
	if field.Type == model.FieldTypeCheckbox {
		return value.Kind != model.ValueBool || !value.Bool
	}
	return value.IsEmpty()
}

package model

import "time"

// FieldType is the closed set of input kinds a form field can take.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeNumber   FieldType = "number"
)

var fieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextarea,
	FieldTypeDropdown,
	FieldTypeCheckbox,
	FieldTypeDate,
	FieldTypeEmail,
	FieldTypePhone,
	FieldTypeNumber,
}

// FieldTypes returns every supported field type in field library order.
func FieldTypes() []FieldType {
	return append([]FieldType(nil), fieldTypes...)
}

// Valid reports whether t is one of the enumerated field types.
func (t FieldType) Valid() bool {
	for _, candidate := range fieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// StringValued reports whether values of this type are strings. Length and
// pattern rules only apply to string-valued types.
func (t FieldType) StringValued() bool {
	return t.Valid() && t != FieldTypeCheckbox
}

// ValidationRules holds the optional per-field constraints. Length bounds use
// pointers so an unset bound is distinguishable from zero.
type ValidationRules struct {
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Empty reports whether no rule is configured.
func (r *ValidationRules) Empty() bool {
	return r == nil || (r.MinLength == nil && r.MaxLength == nil && r.Pattern == "")
}

// Field is a single input definition. ID is the join key between the form's
// field list and step membership.
type Field struct {
	ID          string           `json:"id" yaml:"id"`
	Type        FieldType        `json:"type" yaml:"type"`
	Label       string           `json:"label" yaml:"label"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string           `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Required    bool             `json:"required" yaml:"required"`
	Options     []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *ValidationRules `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Step is an ordered partition unit of a multi-step form. Fields lists field
// ids in the order the step presents them.
type Step struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []string `json:"fields" yaml:"fields"`
}

// FormDefinition is the aggregate root persisted by the builder and consumed
// by fill sessions.
type FormDefinition struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Fields      []Field   `json:"fields" yaml:"fields"`
	Steps       []Step    `json:"steps" yaml:"steps"`
	IsMultiStep bool      `json:"isMultiStep" yaml:"isMultiStep"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Submission is one completed fill of a form.
type Submission struct {
	FormID      string    `json:"-"`
	Data        Values    `json:"data"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// IntPtr is a convenience for building ValidationRules literals.
func IntPtr(v int) *int {
	return &v
}

package model

import (
	"fmt"
	"time"
)

const (
	DefaultFormTitle       = "Untitled Form"
	DefaultFormDescription = "Form description"
	DefaultStepID          = "step-1"
	DefaultStepTitle       = "Step 1"
	DefaultStepDescription = "First step"
)

// NewDefinition returns an empty single-step form holding one default step.
func NewDefinition(id string, now time.Time) *FormDefinition {
	return &FormDefinition{
		ID:          id,
		Title:       DefaultFormTitle,
		Description: DefaultFormDescription,
		Fields:      []Field{},
		Steps:       []Step{DefaultStep()},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DefaultStep is the step created for new forms and when multi-step mode is
// enabled on a form without steps.
func DefaultStep() Step {
	return Step{
		ID:          DefaultStepID,
		Title:       DefaultStepTitle,
		Description: DefaultStepDescription,
		Fields:      []string{},
	}
}

// FieldIndex returns the position of the field in def.Fields or -1.
func (def *FormDefinition) FieldIndex(id string) int {
	if def == nil {
		return -1
	}
	for i := range def.Fields {
		if def.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// FieldByID returns a pointer into def.Fields.
func (def *FormDefinition) FieldByID(id string) (*Field, bool) {
	idx := def.FieldIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &def.Fields[idx], true
}

// StepIndex returns the position of the step in def.Steps or -1.
func (def *FormDefinition) StepIndex(id string) int {
	if def == nil {
		return -1
	}
	for i := range def.Steps {
		if def.Steps[i].ID == id {
			return i
		}
	}
	return -1
}

// StepByID returns a pointer into def.Steps.
func (def *FormDefinition) StepByID(id string) (*Step, bool) {
	idx := def.StepIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &def.Steps[idx], true
}

// StepOfField returns the index of the step listing fieldID, or -1.
func (def *FormDefinition) StepOfField(fieldID string) int {
	if def == nil {
		return -1
	}
	for i := range def.Steps {
		if indexOf(def.Steps[i].Fields, fieldID) >= 0 {
			return i
		}
	}
	return -1
}

// UnassignedFields returns, in def.Fields order, the ids of fields that no
// step lists.
func (def *FormDefinition) UnassignedFields() []string {
	if def == nil {
		return nil
	}
	var out []string
	for _, field := range def.Fields {
		if def.StepOfField(field.ID) < 0 {
			out = append(out, field.ID)
		}
	}
	return out
}

// FieldsByID resolves ids into fields, preserving the order of ids. Unknown
// ids are skipped.
func (def *FormDefinition) FieldsByID(ids []string) []Field {
	if def == nil || len(ids) == 0 {
		return nil
	}
	out := make([]Field, 0, len(ids))
	for _, id := range ids {
		if field, ok := def.FieldByID(id); ok {
			out = append(out, *field)
		}
	}
	return out
}

// Clone returns a deep copy suitable for persisting as an immutable snapshot.
func (def *FormDefinition) Clone() *FormDefinition {
	if def == nil {
		return nil
	}
	out := *def
	out.Fields = make([]Field, len(def.Fields))
	for i, field := range def.Fields {
		out.Fields[i] = field.Clone()
	}
	out.Steps = make([]Step, len(def.Steps))
	for i, step := range def.Steps {
		out.Steps[i] = step.Clone()
	}
	return &out
}

// Clone deep-copies the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string{}, f.Options...)
	}
	if f.Validation != nil {
		rules := *f.Validation
		if f.Validation.MinLength != nil {
			rules.MinLength = IntPtr(*f.Validation.MinLength)
		}
		if f.Validation.MaxLength != nil {
			rules.MaxLength = IntPtr(*f.Validation.MaxLength)
		}
		out.Validation = &rules
	}
	return out
}

// Clone deep-copies the step.
func (s Step) Clone() Step {
	out := s
	out.Fields = append([]string{}, s.Fields...)
	return out
}

// CheckInvariants verifies the structural rules of a definition: unique field
// ids with known types, non-empty dropdown options when present, unique step
// ids, step references to existing fields, fields listed by at most one step
// and, for multi-step forms, every field listed by some step.
func (def *FormDefinition) CheckInvariants() error {
	if def == nil {
		return NewError(ErrInvalidReference, "form definition is nil", nil, nil)
	}

	fieldIDs := make(map[string]struct{}, len(def.Fields))
	for _, field := range def.Fields {
		if err := CheckField(field); err != nil {
			return err
		}
		if _, dup := fieldIDs[field.ID]; dup {
			return NewError(ErrInvalidField, fmt.Sprintf("duplicate field id %q", field.ID), nil, map[string]any{
				"field_id": field.ID,
			})
		}
		fieldIDs[field.ID] = struct{}{}
	}

	stepIDs := make(map[string]struct{}, len(def.Steps))
	owner := make(map[string]string, len(def.Fields))
	for _, step := range def.Steps {
		if step.ID == "" {
			return NewError(ErrInvalidReference, "step id is required", nil, nil)
		}
		if _, dup := stepIDs[step.ID]; dup {
			return NewError(ErrInvalidReference, fmt.Sprintf("duplicate step id %q", step.ID), nil, map[string]any{
				"step_id": step.ID,
			})
		}
		stepIDs[step.ID] = struct{}{}

		for _, fieldID := range step.Fields {
			if _, ok := fieldIDs[fieldID]; !ok {
				return NewError(ErrInvalidReference, fmt.Sprintf("step %q references unknown field %q", step.ID, fieldID), nil, map[string]any{
					"step_id":  step.ID,
					"field_id": fieldID,
				})
			}
			if prev, taken := owner[fieldID]; taken {
				return NewError(ErrInvalidReference, fmt.Sprintf("field %q listed by steps %q and %q", fieldID, prev, step.ID), nil, map[string]any{
					"step_id":  step.ID,
					"field_id": fieldID,
				})
			}
			owner[fieldID] = step.ID
		}
	}

	if def.IsMultiStep {
		if len(def.Steps) == 0 {
			return NewError(ErrInvalidReference, "multi-step form has no steps", nil, nil)
		}
		for _, field := range def.Fields {
			if _, ok := owner[field.ID]; !ok {
				return NewError(ErrInvalidReference, fmt.Sprintf("field %q is not assigned to a step", field.ID), nil, map[string]any{
					"field_id": field.ID,
				})
			}
		}
	}
	return nil
}

// CheckField validates a single field in isolation.
func CheckField(field Field) error {
	if field.ID == "" {
		return NewError(ErrInvalidField, "field id is required", nil, nil)
	}
	if !field.Type.Valid() {
		return NewError(ErrInvalidField, fmt.Sprintf("field %q has unknown type %q", field.ID, field.Type), nil, map[string]any{
			"field_id": field.ID,
			"type":     string(field.Type),
		})
	}
	if field.Type == FieldTypeDropdown && field.Options != nil && len(field.Options) == 0 {
		return NewError(ErrInvalidField, fmt.Sprintf("dropdown field %q has an empty option list", field.ID), nil, map[string]any{
			"field_id": field.ID,
		})
	}
	return nil
}

// Accepts reports whether value has a shape the field type can hold:
// checkboxes take booleans, every other type takes strings, and any field may
// be left absent.
func (f Field) Accepts(value Value) bool {
	switch value.Kind {
	case ValueAbsent:
		return true
	case ValueBool:
		return f.Type == FieldTypeCheckbox
	case ValueString:
		return f.Type.StringValued()
	default:
		return false
	}
}

// CheckValue fails with ErrInvalidReference when value does not fit field.
func CheckValue(field Field, value Value) error {
	if field.Accepts(value) {
		return nil
	}
	return NewError(ErrInvalidReference,
		fmt.Sprintf("field %q of type %s does not accept a %s value", field.ID, field.Type, value.Kind), nil,
		map[string]any{
			"field_id":   field.ID,
			"type":       string(field.Type),
			"value_kind": value.Kind.String(),
		})
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

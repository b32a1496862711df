package reconcile

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FieldPatch is a shallow update for a field. Nil members are left untouched.
// Options and Validation replace the current value wholesale; ClearValidation
// removes the rule set. The field id is immutable.
type FieldPatch struct {
	Type            *model.FieldType
	Label           *string
	Placeholder     *string
	HelpText        *string
	Required        *bool
	Options         *[]string
	Validation      *model.ValidationRules
	ClearValidation bool
}

// AddField appends field to the form. Multi-step forms require targetStepID to
// name an existing step, which receives the field id at the end of its list;
// single-step forms ignore it.
func (e *Engine) AddField(def *model.FormDefinition, field model.Field, targetStepID string) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	if err := model.CheckField(field); err != nil {
		return err
	}
	if def.FieldIndex(field.ID) >= 0 {
		return model.NewError(model.ErrInvalidField, fmt.Sprintf("field id %q already exists", field.ID), nil, map[string]any{
			"field_id": field.ID,
		})
	}

	stepIdx := -1
	if def.IsMultiStep {
		if targetStepID == "" {
			return model.NewError(model.ErrInvalidReference, "multi-step form requires a target step", nil, map[string]any{
				"field_id": field.ID,
			})
		}
		stepIdx = def.StepIndex(targetStepID)
		if stepIdx < 0 {
			return model.NewError(model.ErrInvalidReference, fmt.Sprintf("step %q does not exist", targetStepID), nil, map[string]any{
				"field_id": field.ID,
				"step_id":  targetStepID,
			})
		}
	}

	def.Fields = append(def.Fields, field.Clone())
	if stepIdx >= 0 {
		def.Steps[stepIdx].Fields = append(def.Steps[stepIdx].Fields, field.ID)
	}
	e.touch(def)
	return nil
}

// RemoveField drops the field and its step membership.
func (e *Engine) RemoveField(def *model.FormDefinition, fieldID string) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	idx := def.FieldIndex(fieldID)
	if idx < 0 {
		return notFoundField(fieldID)
	}

	def.Fields = removeAt(def.Fields, idx)
	if stepIdx := def.StepOfField(fieldID); stepIdx >= 0 {
		step := &def.Steps[stepIdx]
		step.Fields = removeAt(step.Fields, indexOf(step.Fields, fieldID))
	}
	e.touch(def)
	return nil
}

// UpdateField merges patch into the field. Switching the type away from
// dropdown keeps the options; validation ignores them for other types.
func (e *Engine) UpdateField(def *model.FormDefinition, fieldID string, patch FieldPatch) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	idx := def.FieldIndex(fieldID)
	if idx < 0 {
		return notFoundField(fieldID)
	}

	next := def.Fields[idx].Clone()
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Label != nil {
		next.Label = *patch.Label
	}
	if patch.Placeholder != nil {
		next.Placeholder = *patch.Placeholder
	}
	if patch.HelpText != nil {
		next.HelpText = *patch.HelpText
	}
	if patch.Required != nil {
		next.Required = *patch.Required
	}
	if patch.Options != nil {
		if *patch.Options == nil {
			next.Options = nil
		} else {
			next.Options = append([]string{}, (*patch.Options)...)
		}
	}
	if patch.ClearValidation {
		next.Validation = nil
	} else if patch.Validation != nil {
		rules := model.Field{Validation: patch.Validation}.Clone().Validation
		next.Validation = rules
	}

	if err := model.CheckField(next); err != nil {
		return err
	}
	def.Fields[idx] = next
	e.touch(def)
	return nil
}

// ReorderField moves the field to newIndex within def.Fields, clamping out of
// range positions. Step order is not affected.
func (e *Engine) ReorderField(def *model.FormDefinition, fieldID string, newIndex int) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	idx := def.FieldIndex(fieldID)
	if idx < 0 {
		return invalidField(fieldID)
	}
	def.Fields = move(def.Fields, idx, newIndex)
	e.touch(def)
	return nil
}

// ReorderStepField moves a field within the step's own list. The field must
// already belong to that step.
func (e *Engine) ReorderStepField(def *model.FormDefinition, stepID, fieldID string, newIndex int) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	stepIdx := def.StepIndex(stepID)
	if stepIdx < 0 {
		return invalidStep(stepID)
	}
	step := &def.Steps[stepIdx]
	pos := indexOf(step.Fields, fieldID)
	if pos < 0 {
		return model.NewError(model.ErrInvalidReference, fmt.Sprintf("field %q is not part of step %q", fieldID, stepID), nil, map[string]any{
			"field_id": fieldID,
			"step_id":  stepID,
		})
	}
	step.Fields = move(step.Fields, pos, newIndex)
	e.touch(def)
	return nil
}

// MoveFieldToStep reassigns a field to stepID at index, removing it from the
// step that currently lists it.
func (e *Engine) MoveFieldToStep(def *model.FormDefinition, fieldID, stepID string, index int) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	if def.FieldIndex(fieldID) < 0 {
		return invalidField(fieldID)
	}
	target := def.StepIndex(stepID)
	if target < 0 {
		return invalidStep(stepID)
	}

	if current := def.StepOfField(fieldID); current >= 0 {
		step := &def.Steps[current]
		step.Fields = removeAt(step.Fields, indexOf(step.Fields, fieldID))
	}
	def.Steps[target].Fields = insertAt(def.Steps[target].Fields, index, fieldID)
	e.touch(def)
	return nil
}

func notFoundField(fieldID string) error {
	return model.NewError(model.ErrNotFound, fmt.Sprintf("field %q not found", fieldID), nil, map[string]any{
		"field_id": fieldID,
	})
}

func invalidField(fieldID string) error {
	return model.NewError(model.ErrInvalidReference, fmt.Sprintf("field %q does not exist", fieldID), nil, map[string]any{
		"field_id": fieldID,
	})
}

func invalidStep(stepID string) error {
	return model.NewError(model.ErrInvalidReference, fmt.Sprintf("step %q does not exist", stepID), nil, map[string]any{
		"step_id": stepID,
	})
}

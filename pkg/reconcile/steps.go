package reconcile

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// StepPatch updates step presentation. Membership only changes through field
// operations.
type StepPatch struct {
	Title       *string
	Description *string
}

// SetMultiStep toggles step partitioning. Enabling it appends every
// unassigned field, in def.Fields order, to the first step (creating the
// default step when none exists). Disabling keeps the partition in memory so
// it can be restored; navigation then treats the form as one implicit step.
func (e *Engine) SetMultiStep(def *model.FormDefinition, enabled bool) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	if enabled {
		if len(def.Steps) == 0 {
			def.Steps = []model.Step{model.DefaultStep()}
		}
		def.Steps[0].Fields = append(def.Steps[0].Fields, def.UnassignedFields()...)
	}
	def.IsMultiStep = enabled
	e.touch(def)
	return nil
}

// AddStep appends a step. The step may carry field ids as long as each names
// an existing field not already listed by another step.
func (e *Engine) AddStep(def *model.FormDefinition, step model.Step) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	if step.ID == "" {
		return model.NewError(model.ErrInvalidReference, "step id is required", nil, nil)
	}
	if def.StepIndex(step.ID) >= 0 {
		return model.NewError(model.ErrInvalidReference, fmt.Sprintf("step %q already exists", step.ID), nil, map[string]any{
			"step_id": step.ID,
		})
	}

	seen := make(map[string]struct{}, len(step.Fields))
	for _, fieldID := range step.Fields {
		if def.FieldIndex(fieldID) < 0 {
			return invalidField(fieldID)
		}
		if _, dup := seen[fieldID]; dup || def.StepOfField(fieldID) >= 0 {
			return model.NewError(model.ErrInvalidReference, fmt.Sprintf("field %q already belongs to a step", fieldID), nil, map[string]any{
				"field_id": fieldID,
				"step_id":  step.ID,
			})
		}
		seen[fieldID] = struct{}{}
	}

	next := step.Clone()
	def.Steps = append(def.Steps, next)
	e.touch(def)
	return nil
}

// UpdateStep merges presentation changes into a step.
func (e *Engine) UpdateStep(def *model.FormDefinition, stepID string, patch StepPatch) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	idx := def.StepIndex(stepID)
	if idx < 0 {
		return notFoundStep(stepID)
	}
	if patch.Title != nil {
		def.Steps[idx].Title = *patch.Title
	}
	if patch.Description != nil {
		def.Steps[idx].Description = *patch.Description
	}
	e.touch(def)
	return nil
}

// ReorderStep moves a step to newIndex in navigation order.
func (e *Engine) ReorderStep(def *model.FormDefinition, stepID string, newIndex int) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	idx := def.StepIndex(stepID)
	if idx < 0 {
		return invalidStep(stepID)
	}
	def.Steps = move(def.Steps, idx, newIndex)
	e.touch(def)
	return nil
}

// RemoveStep deletes a step. Its fields move to the end of the preceding step,
// or to the front of the following step when the first step is removed. When
// the step was the only one, the form is demoted to single-step and the
// fields keep top-level membership only.
func (e *Engine) RemoveStep(def *model.FormDefinition, stepID string) error {
	if err := requireDefinition(def); err != nil {
		return err
	}
	idx := def.StepIndex(stepID)
	if idx < 0 {
		return notFoundStep(stepID)
	}

	orphans := def.Steps[idx].Fields
	steps := removeAt(def.Steps, idx)

	switch {
	case len(steps) == 0:
		def.IsMultiStep = false
	case idx > 0:
		prev := &steps[idx-1]
		prev.Fields = append(prev.Fields, orphans...)
	default:
		next := &steps[0]
		next.Fields = append(append([]string{}, orphans...), next.Fields...)
	}

	def.Steps = steps
	e.touch(def)
	return nil
}

func notFoundStep(stepID string) error {
	return model.NewError(model.ErrNotFound, fmt.Sprintf("step %q not found", stepID), nil, map[string]any{
		"step_id": stepID,
	})
}

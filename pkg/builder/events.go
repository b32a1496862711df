package builder

import "github.com/goliatone/go-formbuilder/pkg/model"

// Container identifies a drop target: the whole canvas or one step's list.
type Container struct {
	StepID string
}

// Canvas is the whole-form drop target.
func Canvas() Container { return Container{} }

// StepContainer is the drop target of a single step.
func StepContainer(stepID string) Container { return Container{StepID: stepID} }

// IsCanvas reports whether the container is the canvas.
func (c Container) IsCanvas() bool { return c.StepID == "" }

// InsertEvent asks for a new field of Type dropped on Container.
type InsertEvent struct {
	Type      model.FieldType
	Container Container
}

// MoveEvent asks for an existing field to be moved to Position within
// Container.
type MoveEvent struct {
	FieldID   string
	Position  int
	Container Container
}

// ViewMode is the preview viewport of the builder.
type ViewMode string

const (
	ViewDesktop ViewMode = "desktop"
	ViewTablet  ViewMode = "tablet"
	ViewMobile  ViewMode = "mobile"
)

// Valid reports whether the view mode is known.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewDesktop, ViewTablet, ViewMobile:
		return true
	default:
		return false
	}
}

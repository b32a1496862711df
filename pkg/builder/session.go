package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/navigation"
	"github.com/goliatone/go-formbuilder/pkg/reconcile"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Repository is the persistence the builder saves through.
// storage.Repository implements it.
type Repository interface {
	SaveForm(ctx context.Context, def *model.FormDefinition) error
	LoadForm(ctx context.Context, formID string) (*model.FormDefinition, error)
}

// Option configures a Session.
type Option func(*Session)

// WithRepository sets the repository used by Save and Load.
func WithRepository(repo Repository) Option {
	return func(s *Session) {
		s.repo = repo
	}
}

// WithEngine overrides the reconciliation engine.
func WithEngine(engine *reconcile.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		s.logger = logging.OrNop(logger)
	}
}

// WithIDGenerator overrides how form, field and step ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source for CreatedAt. It does not affect the
// engine; pass an engine built with reconcile.WithClock for that.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is one author's editing of a form. It owns the definition being
// built and the transient editor state (selection, view mode). A Session is
// not safe for concurrent use.
type Session struct {
	def      *model.FormDefinition
	selected string
	view     ViewMode

	repo   Repository
	engine *reconcile.Engine
	logger logging.Logger
	newID  func() string
	now    func() time.Time
}

// NewSession starts a session on a fresh untitled form.
func NewSession(options ...Option) *Session {
	s := &Session{
		view:   ViewDesktop,
		logger: logging.Nop(),
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.engine == nil {
		s.engine = reconcile.New(reconcile.WithClock(s.now))
	}
	s.CreateNew()
	return s
}

// Definition returns a copy of the definition being edited.
func (s *Session) Definition() *model.FormDefinition {
	return s.def.Clone()
}

// CreateNew discards the current definition in favour of an untitled form
// with one default step.
func (s *Session) CreateNew() *model.FormDefinition {
	s.def = model.NewDefinition(s.newID(), s.now())
	s.selected = ""
	s.logger.Debug("builder: created form %s", s.def.ID)
	return s.def.Clone()
}

// ApplyTemplate replaces the current definition with a fresh instance of tpl.
func (s *Session) ApplyTemplate(tpl templates.Template) (*model.FormDefinition, error) {
	def := tpl.Instantiate(s.newID(), s.now())
	if err := def.CheckInvariants(); err != nil {
		return nil, err
	}
	s.def = def
	s.selected = ""
	s.logger.Debug("builder: form %s created from template %s", def.ID, tpl.ID)
	return def.Clone(), nil
}

// Select marks fieldID as the field under edit. An empty id clears the
// selection.
func (s *Session) Select(fieldID string) error {
	if fieldID == "" {
		s.selected = ""
		return nil
	}
	if _, ok := s.def.FieldByID(fieldID); !ok {
		return model.NewError(model.ErrInvalidReference, fmt.Sprintf("field %q does not exist", fieldID), nil, map[string]any{
			"field_id": fieldID,
		})
	}
	s.selected = fieldID
	return nil
}

// Selected returns the field under edit.
func (s *Session) Selected() (model.Field, bool) {
	if s.selected == "" {
		return model.Field{}, false
	}
	field, ok := s.def.FieldByID(s.selected)
	if !ok {
		return model.Field{}, false
	}
	return field.Clone(), true
}

// SetViewMode switches the preview viewport.
func (s *Session) SetViewMode(mode ViewMode) error {
	if !mode.Valid() {
		return model.NewError(model.ErrInvalidReference, fmt.Sprintf("unknown view mode %q", mode), nil, nil)
	}
	s.view = mode
	return nil
}

// ViewMode returns the preview viewport.
func (s *Session) ViewMode() ViewMode {
	return s.view
}

// NewField returns a field of type ft with the editor defaults.
func NewField(id string, ft model.FieldType) model.Field {
	field := model.Field{
		ID:          id,
		Type:        ft,
		Label:       fmt.Sprintf("%s Field", ft),
		Placeholder: fmt.Sprintf("Enter %s", ft),
	}
	if ft == model.FieldTypeDropdown {
		field.Options = []string{"Option 1", "Option 2", "Option 3"}
	}
	return field
}

// HandleInsert creates a field from a library drop. A canvas drop on a
// multi-step form lands in the first step. The new field becomes selected.
func (s *Session) HandleInsert(event InsertEvent) (model.Field, error) {
	field := NewField("field-"+s.newID(), event.Type)
	target := event.Container.StepID
	if s.def.IsMultiStep && event.Container.IsCanvas() && len(s.def.Steps) > 0 {
		target = s.def.Steps[0].ID
	}
	if err := s.engine.AddField(s.def, field, target); err != nil {
		return model.Field{}, err
	}
	s.selected = field.ID
	s.logger.Debug("builder: inserted %s field %s", field.Type, field.ID)
	return field.Clone(), nil
}

// HandleMove reorders an existing field. Canvas moves change the form-wide
// order; step moves reorder inside the step or pull the field over from
// another step.
func (s *Session) HandleMove(event MoveEvent) error {
	if event.Container.IsCanvas() {
		return s.engine.ReorderField(s.def, event.FieldID, event.Position)
	}
	stepIdx := s.def.StepIndex(event.Container.StepID)
	if stepIdx >= 0 && s.def.StepOfField(event.FieldID) == stepIdx {
		return s.engine.ReorderStepField(s.def, event.Container.StepID, event.FieldID, event.Position)
	}
	return s.engine.MoveFieldToStep(s.def, event.FieldID, event.Container.StepID, event.Position)
}

// AddField adds a prepared field, sanitizing its display strings.
func (s *Session) AddField(field model.Field, targetStepID string) error {
	field = field.Clone()
	field.Label = sanitizeText(field.Label)
	field.Placeholder = sanitizeText(field.Placeholder)
	field.HelpText = sanitizeText(field.HelpText)
	return s.engine.AddField(s.def, field, targetStepID)
}

// UpdateField merges patch into the field after sanitizing display strings.
func (s *Session) UpdateField(fieldID string, patch reconcile.FieldPatch) error {
	patch.Label = sanitizePtr(patch.Label)
	patch.Placeholder = sanitizePtr(patch.Placeholder)
	patch.HelpText = sanitizePtr(patch.HelpText)
	return s.engine.UpdateField(s.def, fieldID, patch)
}

// RemoveField deletes the field, clearing the selection when it pointed at it.
func (s *Session) RemoveField(fieldID string) error {
	if err := s.engine.RemoveField(s.def, fieldID); err != nil {
		return err
	}
	if s.selected == fieldID {
		s.selected = ""
	}
	return nil
}

// AddStep appends a step. An empty id is minted.
func (s *Session) AddStep(step model.Step) (model.Step, error) {
	step = step.Clone()
	if step.ID == "" {
		step.ID = "step-" + s.newID()
	}
	step.Title = sanitizeText(step.Title)
	step.Description = sanitizeText(step.Description)
	if err := s.engine.AddStep(s.def, step); err != nil {
		return model.Step{}, err
	}
	return step, nil
}

// UpdateStep changes step presentation.
func (s *Session) UpdateStep(stepID string, patch reconcile.StepPatch) error {
	patch.Title = sanitizePtr(patch.Title)
	patch.Description = sanitizePtr(patch.Description)
	return s.engine.UpdateStep(s.def, stepID, patch)
}

// RemoveStep deletes a step, reassigning its fields.
func (s *Session) RemoveStep(stepID string) error {
	return s.engine.RemoveStep(s.def, stepID)
}

// ReorderStep moves a step to newIndex.
func (s *Session) ReorderStep(stepID string, newIndex int) error {
	return s.engine.ReorderStep(s.def, stepID, newIndex)
}

// SetMultiStep toggles step partitioning.
func (s *Session) SetMultiStep(enabled bool) error {
	return s.engine.SetMultiStep(s.def, enabled)
}

// UpdateForm changes the form title or description.
func (s *Session) UpdateForm(patch reconcile.FormPatch) error {
	patch.Title = sanitizePtr(patch.Title)
	patch.Description = sanitizePtr(patch.Description)
	return s.engine.UpdateForm(s.def, patch)
}

// Lint reports rule configurations the author should fix.
func (s *Session) Lint() []validation.LintIssue {
	return validation.Lint(s.def)
}

// Save persists a copy of the definition.
func (s *Session) Save(ctx context.Context) error {
	if s.repo == nil {
		return model.NewError(model.ErrStorageUnavailable, "builder: no repository configured", nil, nil)
	}
	if err := s.repo.SaveForm(ctx, s.def.Clone()); err != nil {
		s.logger.Error("builder: save form %s: %v", s.def.ID, err)
		return err
	}
	s.logger.Info("builder: form %s saved", s.def.ID)
	return nil
}

// Load replaces the definition with the stored one. On failure the current
// definition is kept.
func (s *Session) Load(ctx context.Context, formID string) (*model.FormDefinition, error) {
	if s.repo == nil {
		return nil, model.NewError(model.ErrStorageUnavailable, "builder: no repository configured", nil, nil)
	}
	def, err := s.repo.LoadForm(ctx, formID)
	if err != nil {
		s.logger.Warn("builder: load form %s: %v", formID, err)
		return nil, err
	}
	s.def = def
	s.selected = ""
	return def.Clone(), nil
}

// Preview starts a fill session over a snapshot of the current definition.
// Later edits do not affect the preview.
func (s *Session) Preview(options ...navigation.Option) (*navigation.Session, error) {
	options = append([]navigation.Option{navigation.WithLogger(s.logger)}, options...)
	return navigation.New(s.def.Clone(), options...)
}

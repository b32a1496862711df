package navigation

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Submitter receives accepted submissions. storage.Repository implements it.
type Submitter interface {
	Submit(ctx context.Context, submission model.Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, submission model.Submission) error

func (fn SubmitterFunc) Submit(ctx context.Context, submission model.Submission) error {
	return fn(ctx, submission)
}

// Outcome reports the effect of a gated event. Validation failures are
// returned here, never as errors.
type Outcome struct {
	State    State
	Advanced bool
	Errors   validation.Result
}

// Option configures a Session.
type Option func(*Session)

// WithSubmitter sets where accepted submissions are sent.
func WithSubmitter(submitter Submitter) Option {
	return func(s *Session) {
		s.submitter = submitter
	}
}

// WithClock overrides the time source for SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		s.logger = logging.OrNop(logger)
	}
}

// Session is one user's fill of a form definition. It owns the answers, the
// published errors and the current step. A Session is not safe for
// concurrent use.
type Session struct {
	def        *model.FormDefinition
	steps      []model.Step
	values     model.Values
	errors     validation.Result
	state      State
	submission *model.Submission

	submitter Submitter
	now       func() time.Time
	logger    logging.Logger
}

// New starts a session in Filling(0) over a private copy of def.
func New(def *model.FormDefinition, options ...Option) (*Session, error) {
	if def == nil {
		return nil, model.NewError(model.ErrInvalidReference, "form definition is required", nil, nil)
	}
	if err := def.CheckInvariants(); err != nil {
		return nil, err
	}
	s := &Session{
		def:    def.Clone(),
		values: model.Values{},
		errors: validation.Result{},
		state:  Filling(0),
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.steps = effectiveSteps(s.def)
	return s, nil
}

// effectiveSteps yields the navigation steps. A form that is not multi-step
// fills as one implicit step holding every field in definition order.
func effectiveSteps(def *model.FormDefinition) []model.Step {
	if def.IsMultiStep && len(def.Steps) > 0 {
		steps := make([]model.Step, len(def.Steps))
		for i, step := range def.Steps {
			steps[i] = step.Clone()
		}
		return steps
	}
	ids := make([]string, len(def.Fields))
	for i, field := range def.Fields {
		ids[i] = field.ID
	}
	return []model.Step{{
		Title:       def.Title,
		Description: def.Description,
		Fields:      ids,
	}}
}

// Definition returns a copy of the definition being filled.
func (s *Session) Definition() *model.FormDefinition {
	return s.def.Clone()
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Values returns a copy of the collected answers.
func (s *Session) Values() model.Values {
	return s.values.Clone()
}

// Value returns the answer for fieldID, absent when unset.
func (s *Session) Value(fieldID string) model.Value {
	return s.values[fieldID]
}

// Errors returns a copy of the published errors.
func (s *Session) Errors() validation.Result {
	return cloneResult(s.errors)
}

// Issues returns the published errors with their display messages.
func (s *Session) Issues() map[string]validation.Issue {
	return s.errors.Issues(s.def.Fields)
}

// Submission returns the accepted submission once the session is Submitted.
func (s *Session) Submission() (model.Submission, bool) {
	if s.submission == nil {
		return model.Submission{}, false
	}
	out := *s.submission
	out.Data = s.submission.Data.Clone()
	return out, true
}

// StepCount is the number of effective steps.
func (s *Session) StepCount() int {
	return len(s.steps)
}

// CurrentStep returns the effective step being filled. After submission it
// returns the last step.
func (s *Session) CurrentStep() model.Step {
	return s.steps[s.stepIndex()].Clone()
}

// VisibleFields returns the fields of the current step in step order.
func (s *Session) VisibleFields() []model.Field {
	return s.def.FieldsByID(s.steps[s.stepIndex()].Fields)
}

// Progress returns the 1-based current step and the step count.
func (s *Session) Progress() (current, total int) {
	return s.stepIndex() + 1, len(s.steps)
}

// IsLastStep reports whether the current step is the one that submits.
func (s *Session) IsLastStep() bool {
	return s.stepIndex() == len(s.steps)-1
}

func (s *Session) stepIndex() int {
	if s.state.Submitted {
		return len(s.steps) - 1
	}
	return s.state.StepIndex
}

// SetValue records an answer and clears that field's published error
// without re-running validation.
func (s *Session) SetValue(fieldID string, value model.Value) error {
	if s.state.Submitted {
		return invalidTransition("set_value", s.state, "form already submitted")
	}
	field, ok := s.def.FieldByID(fieldID)
	if !ok {
		return model.NewError(model.ErrInvalidReference, fmt.Sprintf("field %q does not exist", fieldID), nil, map[string]any{
			"field_id": fieldID,
		})
	}
	if err := model.CheckValue(*field, value); err != nil {
		return err
	}
	s.values[fieldID] = value
	delete(s.errors, fieldID)
	return nil
}

// Next validates the current step and advances when it passes. When it
// fails the session stays put and the step's errors are published.
func (s *Session) Next() (Outcome, error) {
	if s.state.Submitted {
		return Outcome{}, invalidTransition("next", s.state, "form already submitted")
	}
	if s.IsLastStep() {
		return Outcome{}, invalidTransition("next", s.state, "already on the last step")
	}

	step := s.steps[s.state.StepIndex]
	result := s.validateStep(step)
	if !result.Valid() {
		s.errors = result
		s.logger.Debug("navigation: step %d blocked with %d error(s)", s.state.StepIndex, len(result))
		return Outcome{State: s.state, Errors: cloneResult(result)}, nil
	}

	for _, id := range step.Fields {
		delete(s.errors, id)
	}
	s.state = Filling(s.state.StepIndex + 1)
	s.logger.Debug("navigation: advanced to %s", s.state)
	return Outcome{State: s.state, Advanced: true, Errors: validation.Result{}}, nil
}

// Previous moves back one step without validating. Answers are kept.
func (s *Session) Previous() (State, error) {
	if s.state.Submitted {
		return s.state, invalidTransition("previous", s.state, "form already submitted")
	}
	if s.state.StepIndex == 0 {
		return s.state, invalidTransition("previous", s.state, "already on the first step")
	}
	s.state = Filling(s.state.StepIndex - 1)
	s.logger.Debug("navigation: back to %s", s.state)
	return s.state, nil
}

// Submit validates the last step and, when it passes, hands the answers to
// the submitter. A submitter failure keeps the session on the last step and
// is returned to the caller.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	if s.state.Submitted {
		return Outcome{}, invalidTransition("submit", s.state, "form already submitted")
	}
	if !s.IsLastStep() {
		return Outcome{}, invalidTransition("submit", s.state, "submit is only available on the last step")
	}

	result := s.validateStep(s.steps[s.state.StepIndex])
	if !result.Valid() {
		s.errors = result
		s.logger.Debug("navigation: submit blocked with %d error(s)", len(result))
		return Outcome{State: s.state, Errors: cloneResult(result)}, nil
	}

	submission := model.Submission{
		FormID:      s.def.ID,
		Data:        s.values.Clone(),
		SubmittedAt: s.now(),
	}
	if s.submitter != nil {
		if err := s.submitter.Submit(ctx, submission); err != nil {
			s.logger.Error("navigation: submit form %s failed: %v", s.def.ID, err)
			return Outcome{State: s.state, Errors: validation.Result{}}, err
		}
	}

	s.errors = validation.Result{}
	s.submission = &submission
	s.state = Done()
	s.logger.Info("navigation: form %s submitted", s.def.ID)
	return Outcome{State: s.state, Advanced: true, Errors: validation.Result{}}, nil
}

func (s *Session) validateStep(step model.Step) validation.Result {
	return validation.ValidateFields(s.def.FieldsByID(step.Fields), s.values)
}

func cloneResult(in validation.Result) validation.Result {
	out := make(validation.Result, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

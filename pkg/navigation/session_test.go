package navigation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/navigation"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func twoStepForm() *model.FormDefinition {
	return &model.FormDefinition{
		ID:    "two-step",
		Title: "Two step",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
			{ID: "notes", Type: model.FieldTypeTextarea, Label: "Notes"},
		},
		Steps: []model.Step{
			{ID: "one", Title: "One", Fields: []string{"name"}},
			{ID: "two", Title: "Two", Fields: []string{"notes"}},
		},
		IsMultiStep: true,
	}
}

type recordingSubmitter struct {
	got []model.Submission
	err error
}

func (r *recordingSubmitter) Submit(_ context.Context, submission model.Submission) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, submission)
	return nil
}

func TestNextBlocksOnRequiredField(t *testing.T) {
	session, err := navigation.New(twoStepForm())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	outcome, err := session.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if outcome.Advanced {
		t.Fatalf("expected next to be blocked")
	}
	if got := session.State(); got != navigation.Filling(0) {
		t.Fatalf("expected Filling(0), got %s", got)
	}
	want := validation.Result{"name": validation.Required}
	if diff := cmp.Diff(want, session.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueClearsSingleError(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "job_application.json")
	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(session.Errors()) != 3 {
		t.Fatalf("expected three errors, got %v", session.Errors())
	}

	if err := session.SetValue("email", model.String("x")); err != nil {
		t.Fatalf("set value: %v", err)
	}
	want := validation.Result{"first-name": validation.Required, "last-name": validation.Required}
	if diff := cmp.Diff(want, session.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueUnknownField(t *testing.T) {
	session, err := navigation.New(twoStepForm())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	err = session.SetValue("missing", model.String("x"))
	if !model.HasCode(err, model.ErrCodeInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
}

func TestFullMultiStepFill(t *testing.T) {
	clock := testsupport.NewClock(time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC))
	submitter := &recordingSubmitter{}
	session, err := navigation.New(twoStepForm(),
		navigation.WithSubmitter(submitter),
		navigation.WithClock(clock.Now),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if err := session.SetValue("name", model.String("Ada")); err != nil {
		t.Fatalf("set value: %v", err)
	}
	outcome, err := session.Next()
	if err != nil || !outcome.Advanced {
		t.Fatalf("expected advance, got %+v (%v)", outcome, err)
	}
	if current, total := session.Progress(); current != 2 || total != 2 {
		t.Fatalf("unexpected progress %d/%d", current, total)
	}
	if ids := fieldIDs(session.VisibleFields()); !cmp.Equal(ids, []string{"notes"}) {
		t.Fatalf("unexpected visible fields %v", ids)
	}

	outcome, err = session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.State != navigation.Done() {
		t.Fatalf("expected Submitted, got %s", outcome.State)
	}

	want := []model.Submission{{
		FormID:      "two-step",
		Data:        model.Values{"name": model.String("Ada")},
		SubmittedAt: clock.Now(),
	}}
	if diff := cmp.Diff(want, submitter.got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviousKeepsValuesWithoutValidating(t *testing.T) {
	session, err := navigation.New(twoStepForm())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	_ = session.SetValue("name", model.String("Ada"))
	if _, err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	state, err := session.Previous()
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	if state != navigation.Filling(0) {
		t.Fatalf("expected Filling(0), got %s", state)
	}
	if got := session.Value("name"); got != model.String("Ada") {
		t.Fatalf("expected value retained, got %#v", got)
	}
}

func TestIllegalTransitions(t *testing.T) {
	session, err := navigation.New(twoStepForm())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if _, err := session.Previous(); !model.HasCode(err, navigation.ErrCodeInvalidTransition) {
		t.Fatalf("previous on first step: expected invalid transition, got %v", err)
	}
	if _, err := session.Submit(context.Background()); !model.HasCode(err, navigation.ErrCodeInvalidTransition) {
		t.Fatalf("submit on first of two steps: expected invalid transition, got %v", err)
	}

	_ = session.SetValue("name", model.String("Ada"))
	if _, err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := session.Next(); !model.HasCode(err, navigation.ErrCodeInvalidTransition) {
		t.Fatalf("next on last step: expected invalid transition, got %v", err)
	}
	if _, err := session.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := session.Next(); !model.HasCode(err, navigation.ErrCodeInvalidTransition) {
		t.Fatalf("next after submit: expected invalid transition, got %v", err)
	}
	if err := session.SetValue("notes", model.String("late")); !model.HasCode(err, navigation.ErrCodeInvalidTransition) {
		t.Fatalf("set value after submit: expected invalid transition, got %v", err)
	}
	if got := session.State(); got != navigation.Done() {
		t.Fatalf("state changed after illegal events: %s", got)
	}
}

func TestSingleStepSubmitValidatesWholeForm(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "contact.json")
	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if !session.IsLastStep() {
		t.Fatalf("single step form should start on its last step")
	}

	outcome, err := session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := validation.Result{
		"name":    validation.Required,
		"email":   validation.Required,
		"message": validation.Required,
	}
	if diff := cmp.Diff(want, outcome.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if session.State() != navigation.Filling(0) {
		t.Fatalf("expected to remain in Filling(0), got %s", session.State())
	}
}

func TestSubmitterFailureKeepsSessionFilling(t *testing.T) {
	failure := model.NewError(model.ErrStorageUnavailable, "disk full", nil, nil)
	session, err := navigation.New(twoStepForm(),
		navigation.WithSubmitter(&recordingSubmitter{err: failure}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	_ = session.SetValue("name", model.String("Ada"))
	if _, err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	_, err = session.Submit(context.Background())
	if !errors.Is(err, failure) && !model.HasCode(err, model.ErrCodeStorageUnavailable) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if got := session.State(); got != navigation.Filling(1) {
		t.Fatalf("expected Filling(1), got %s", got)
	}
	if _, ok := session.Submission(); ok {
		t.Fatalf("no submission expected after failure")
	}
}

func TestStateString(t *testing.T) {
	if got := navigation.Filling(2).String(); got != "Filling(2)" {
		t.Fatalf("unexpected %q", got)
	}
	if got := navigation.Done().String(); got != "Submitted" {
		t.Fatalf("unexpected %q", got)
	}
}

func fieldIDs(fields []model.Field) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.ID
	}
	return out
}

func TestSetValueRejectsMismatchedShape(t *testing.T) {
	def := twoStepForm()
	def.Fields = append(def.Fields, model.Field{ID: "agree", Type: model.FieldTypeCheckbox, Label: "Agree"})
	def.Steps[1].Fields = append(def.Steps[1].Fields, "agree")

	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.SetValue("name", model.Bool(false)); !model.HasCode(err, model.ErrCodeInvalidReference) {
		t.Fatalf("expected invalid reference for bool on text, got %v", err)
	}
	if err := session.SetValue("agree", model.String("no")); !model.HasCode(err, model.ErrCodeInvalidReference) {
		t.Fatalf("expected invalid reference for string on checkbox, got %v", err)
	}
	if got := session.Value("name"); got != model.Absent() {
		t.Fatalf("rejected value was stored: %#v", got)
	}

	if err := session.SetValue("agree", model.Bool(true)); err != nil {
		t.Fatalf("bool on checkbox: %v", err)
	}
	if err := session.SetValue("name", model.Absent()); err != nil {
		t.Fatalf("clearing a text field: %v", err)
	}
}

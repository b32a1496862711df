package openapi_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestSubmissionSchemaRequiredAndRules(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "contact.json")
	schema, err := openapi.SubmissionSchema(def)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	if diff := cmp.Diff([]string{"name", "email", "message"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	message := schema.Properties["message"].Value
	if message.MinLength != 10 || message.MaxLength == nil || *message.MaxLength != 500 {
		t.Fatalf("unexpected message bounds min=%d max=%v", message.MinLength, message.MaxLength)
	}
	if got := schema.Properties["email"].Value.Format; got != "email" {
		t.Fatalf("expected email format, got %q", got)
	}
}

func TestValidateAcceptsCompleteAnswers(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "contact.json")
	values := model.Values{
		"name":    model.String("Ada"),
		"email":   model.String("ada@example.com"),
		"phone":   model.String(""),
		"message": model.String("Hello there, engine room"),
	}
	if err := openapi.Validate(def, values); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateRejectsBadAnswers(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "job_application.json")
	values := model.Values{
		"first-name":   model.String("Ada"),
		"last-name":    model.String("Lovelace"),
		"email":        model.String("ada@example.com"),
		"position":     model.String("Astronaut"),
		"cover-letter": model.String("I like analytical engines"),
	}
	if err := openapi.Validate(def, values); err == nil {
		t.Fatalf("expected enum violation to fail validation")
	}

	values["position"] = model.String("Backend Developer")
	values["newsletter"] = model.Bool(true)
	if err := openapi.Validate(def, values); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	delete(values, "last-name")
	if err := openapi.Validate(def, values); err == nil {
		t.Fatalf("expected missing required field to fail validation")
	}
}

func TestPatternIsAnchored(t *testing.T) {
	def := &model.FormDefinition{
		ID: "codes",
		Fields: []model.Field{{
			ID: "code", Type: model.FieldTypeText, Required: true,
			Validation: &model.ValidationRules{Pattern: `[0-9]+`},
		}},
	}
	if err := openapi.Validate(def, model.Values{"code": model.String("12a")}); err == nil {
		t.Fatalf("expected partial match to be rejected")
	}
	if err := openapi.Validate(def, model.Values{"code": model.String("123")}); err != nil {
		t.Fatalf("expected full match to pass, got %v", err)
	}
}

func TestUncompilablePatternIsReported(t *testing.T) {
	def := &model.FormDefinition{
		ID: "broken",
		Fields: []model.Field{{
			ID: "code", Type: model.FieldTypeText,
			Validation: &model.ValidationRules{Pattern: `(`},
		}},
	}
	if _, err := openapi.SubmissionSchema(def); err == nil {
		t.Fatalf("expected pattern error")
	}
}

func TestDocument(t *testing.T) {
	defs := []*model.FormDefinition{
		testsupport.MustLoadDefinition(t, "contact.json"),
		testsupport.MustLoadDefinition(t, "job_application.json"),
	}
	doc, err := openapi.Document(context.Background(), "Submissions", defs)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if _, ok := doc.Components.Schemas["JobApplicationSubmission"]; !ok {
		t.Fatalf("expected job application component, got %v", keys(doc.Components.Schemas))
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("marshal document: %v", err)
	}
}

func TestComponentName(t *testing.T) {
	if got := openapi.ComponentName("event-registration"); got != "EventRegistrationSubmission" {
		t.Fatalf("unexpected component name %q", got)
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBlankRequiredAnswerFailsLikeTheEngine(t *testing.T) {
	def := &model.FormDefinition{
		ID: "blank",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Required: true},
			{ID: "code", Type: model.FieldTypeText, Required: true,
				Validation: &model.ValidationRules{Pattern: `\s*[0-9]*`}},
		},
	}
	values := model.Values{"name": model.String("   "), "code": model.String("42")}

	err := openapi.Validate(def, values)
	if !model.HasCode(err, model.ErrCodeInvalidField) {
		t.Fatalf("expected blank required answer to fail, got %v", err)
	}

	if _, ok := openapi.Payload(def, values)["name"]; ok {
		t.Fatalf("blank answer should be left out of the payload")
	}

	schema, err := openapi.SubmissionSchema(def)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := schema.VisitJSON(map[string]any{"name": "   ", "code": "  "}); err == nil {
		t.Fatalf("schema should reject whitespace-only required strings")
	}
	if err := schema.VisitJSON(map[string]any{"name": "Ada", "code": "42"}); err != nil {
		t.Fatalf("schema rejected answered payload: %v", err)
	}
}

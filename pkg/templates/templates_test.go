package templates_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestBuiltinTemplates(t *testing.T) {
	all, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	var ids []string
	for _, tpl := range all {
		ids = append(ids, tpl.ID)
	}
	want := []string{"contact-us", "job-application", "event-registration"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("template ids mismatch (-want +got):\n%s", diff)
	}
}

func TestInstantiateSatisfiesInvariants(t *testing.T) {
	all, err := templates.Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	now := time.Date(2026, 10, 4, 10, 0, 0, 0, time.UTC)
	for _, tpl := range all {
		def := tpl.Instantiate("form-"+tpl.ID, now)
		if err := def.CheckInvariants(); err != nil {
			t.Fatalf("%s: %v", tpl.ID, err)
		}
		if !def.CreatedAt.Equal(now) || !def.UpdatedAt.Equal(now) {
			t.Fatalf("%s: timestamps not set", tpl.ID)
		}
	}
}

func TestLookupJobApplication(t *testing.T) {
	tpl, err := templates.Lookup("job-application")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	def := tpl.Instantiate("job", time.Time{})
	want := map[string][]string{
		"personal-info": {"first-name", "last-name", "email"},
		"job-details":   {"position", "experience", "cover-letter"},
	}
	if diff := cmp.Diff(want, testsupport.StepMembership(def)); diff != "" {
		t.Fatalf("membership mismatch (-want +got):\n%s", diff)
	}
	cover, _ := def.FieldByID("cover-letter")
	if cover.Validation == nil || cover.Validation.MinLength == nil || *cover.Validation.MinLength != 100 {
		t.Fatalf("expected cover letter minLength 100, got %+v", cover.Validation)
	}
}

func TestInstantiateIsIndependent(t *testing.T) {
	tpl, err := templates.Lookup("contact-us")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	def := tpl.Instantiate("a", time.Time{})
	def.Fields[0].Label = "changed"
	def.Steps[0].Fields[0] = "changed"

	again, _ := templates.Lookup("contact-us")
	if again.Form.Fields[0].Label != "Full Name" || again.Form.Steps[0].Fields[0] != "name" {
		t.Fatalf("builtin template mutated through an instance")
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := templates.Lookup("nope")
	if !model.HasCode(err, model.ErrCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestParseRejectsBrokenTemplate(t *testing.T) {
	doc := []byte(`
templates:
  - id: broken
    name: Broken
    form:
      title: Broken
      isMultiStep: true
      fields:
        - {id: a, type: text, label: A}
      steps:
        - {id: s, title: S, fields: [missing]}
`)
	if _, err := templates.Parse(doc); err == nil {
		t.Fatalf("expected invalid template to be rejected")
	}
}

func TestParseJSON(t *testing.T) {
	doc := []byte(`{"templates":[{"id":"tiny","name":"Tiny","form":{"title":"Tiny","fields":[{"id":"a","type":"text","label":"A"}],"steps":[]}}]}`)
	got, err := templates.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Form.Fields[0].Type != model.FieldTypeText {
		t.Fatalf("unexpected parse result %+v", got)
	}
}

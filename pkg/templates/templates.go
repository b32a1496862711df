package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

//go:embed templates.yaml
var builtinData []byte

// Template is a named starting point for a new form.
type Template struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Form        Form   `json:"form" yaml:"form"`
}

// Form is the definition body a template copies into a new form.
type Form struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Fields      []model.Field `json:"fields" yaml:"fields"`
	Steps       []model.Step  `json:"steps" yaml:"steps"`
	IsMultiStep bool          `json:"isMultiStep" yaml:"isMultiStep"`
}

type document struct {
	Templates []Template `json:"templates" yaml:"templates"`
}

var (
	builtinOnce sync.Once
	builtin     []Template
	builtinErr  error
)

// Builtin returns the templates bundled with the module.
func Builtin() ([]Template, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinData)
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	out := make([]Template, len(builtin))
	for i, tpl := range builtin {
		out[i] = tpl.clone()
	}
	return out, nil
}

// Lookup returns the bundled template with the given id.
func Lookup(id string) (Template, error) {
	all, err := Builtin()
	if err != nil {
		return Template{}, err
	}
	for _, tpl := range all {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return Template{}, model.NewError(model.ErrNotFound, fmt.Sprintf("template %q not found", id), nil, map[string]any{
		"template_id": id,
	})
}

// Parse decodes a JSON or YAML template document and checks that every
// template yields a consistent definition.
func Parse(data []byte) ([]Template, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("templates: document is empty")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("templates: invalid JSON or YAML: %w", yerr)
		}
	}

	seen := make(map[string]struct{}, len(doc.Templates))
	for _, tpl := range doc.Templates {
		id := strings.TrimSpace(tpl.ID)
		if id == "" {
			return nil, fmt.Errorf("templates: template with empty id")
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("templates: duplicate template %q", id)
		}
		seen[id] = struct{}{}
		if err := tpl.Instantiate(id, time.Time{}).CheckInvariants(); err != nil {
			return nil, fmt.Errorf("templates: template %q: %w", id, err)
		}
	}
	return doc.Templates, nil
}

// Instantiate produces a new definition with the given id from the template.
func (t Template) Instantiate(formID string, now time.Time) *model.FormDefinition {
	def := &model.FormDefinition{
		ID:          formID,
		Title:       t.Form.Title,
		Description: t.Form.Description,
		Fields:      make([]model.Field, len(t.Form.Fields)),
		Steps:       make([]model.Step, len(t.Form.Steps)),
		IsMultiStep: t.Form.IsMultiStep,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, field := range t.Form.Fields {
		def.Fields[i] = field.Clone()
	}
	for i, step := range t.Form.Steps {
		def.Steps[i] = step.Clone()
	}
	return def
}

func (t Template) clone() Template {
	out := t
	out.Form.Fields = make([]model.Field, len(t.Form.Fields))
	for i, field := range t.Form.Fields {
		out.Form.Fields[i] = field.Clone()
	}
	out.Form.Steps = make([]model.Step, len(t.Form.Steps))
	for i, step := range t.Form.Steps {
		out.Form.Steps[i] = step.Clone()
	}
	return out
}

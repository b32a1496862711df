package openapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const documentVersion = "3.0.3"

// SubmissionSchema builds the schema of a submission's data object. Length
// and pattern rules only apply to answers that are present, so payloads
// should go through Payload before validation.
func SubmissionSchema(def *model.FormDefinition) (*openapi3.Schema, error) {
	if def == nil {
		return nil, fmt.Errorf("openapi: definition is required")
	}
	schema := openapi3.NewObjectSchema()
	schema.Title = def.Title
	schema.Description = def.Description

	var required []string
	for _, field := range def.Fields {
		prop, err := fieldSchema(field)
		if err != nil {
			return nil, err
		}
		schema = schema.WithProperty(field.ID, prop)
		if field.Required {
			required = append(required, field.ID)
		}
	}
	schema.Required = required
	return schema, nil
}

func fieldSchema(field model.Field) (*openapi3.Schema, error) {
	if field.Type == model.FieldTypeCheckbox {
		prop := openapi3.NewBoolSchema()
		prop.Title = field.Label
		if field.Required {
			prop = prop.WithEnum(true)
		}
		return prop, nil
	}
	if !field.Type.Valid() {
		return nil, fmt.Errorf("openapi: field %q has unknown type %q", field.ID, field.Type)
	}

	prop := openapi3.NewStringSchema()
	prop.Title = field.Label
	prop.Description = field.HelpText
	switch field.Type {
	case model.FieldTypeEmail:
		prop = prop.WithFormat("email")
	case model.FieldTypeDate:
		prop = prop.WithFormat("date")
	case model.FieldTypeDropdown:
		enum := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			enum = append(enum, option)
		}
		if len(enum) > 0 {
			prop = prop.WithEnum(enum...)
		}
	}
	if field.Required {
		// Blank answers are unanswered, so a required string needs a
		// non-space character on top of any authored pattern.
		prop = prop.WithMinLength(1)
		prop.AllOf = append(prop.AllOf, openapi3.NewStringSchema().WithPattern(`\S`).NewRef())
	}

	rules := field.Validation
	if rules.Empty() {
		return prop, nil
	}
	if rules.MinLength != nil && *rules.MinLength > 0 {
		prop = prop.WithMinLength(int64(*rules.MinLength))
	}
	if rules.MaxLength != nil && *rules.MaxLength >= 0 {
		prop = prop.WithMaxLength(int64(*rules.MaxLength))
	}
	if rules.Pattern != "" {
		if err := validation.CheckPattern(rules.Pattern); err != nil {
			return nil, fmt.Errorf("openapi: field %q pattern does not compile: %w", field.ID, err)
		}
		prop = prop.WithPattern(`^(?:` + rules.Pattern + `)$`)
	}
	return prop, nil
}

// Payload converts answers into the plain shape the schema describes.
// Absent and blank answers are dropped, so a blank required answer shows up
// as missing. Answers for unknown fields are kept so validation can flag them.
func Payload(def *model.FormDefinition, values model.Values) map[string]any {
	out := make(map[string]any, len(values))
	for id, value := range values {
		if value.Kind == model.ValueAbsent {
			continue
		}
		if value.Kind == model.ValueString && strings.TrimSpace(value.Str) == "" {
			continue
		}
		out[id] = value.Any()
	}
	return out
}

// Validate checks values with the field rules first and then against the
// submission schema of def. Rule failures come back as ErrInvalidField with
// the failing kinds under the "errors" metadata key.
func Validate(def *model.FormDefinition, values model.Values) error {
	schema, err := SubmissionSchema(def)
	if err != nil {
		return err
	}
	if result := validation.ValidateFields(def.Fields, values); !result.Valid() {
		kinds := make(map[string]string, len(result))
		for id, kind := range result {
			kinds[id] = string(kind)
		}
		return model.NewError(model.ErrInvalidField,
			fmt.Sprintf("openapi: %d field(s) of form %s fail validation", len(result), def.ID), nil,
			map[string]any{"form_id": def.ID, "errors": kinds})
	}
	return schema.VisitJSON(Payload(def, values), openapi3.MultiErrors())
}

// Document wraps the submission schemas of defs in an OpenAPI document, one
// component schema per form named "<id>Submission".
func Document(ctx context.Context, title string, defs []*model.FormDefinition) (*openapi3.T, error) {
	schemas := make(openapi3.Schemas, len(defs))
	for _, def := range defs {
		schema, err := SubmissionSchema(def)
		if err != nil {
			return nil, err
		}
		schemas[ComponentName(def.ID)] = &openapi3.SchemaRef{Value: schema}
	}
	doc := &openapi3.T{
		OpenAPI: documentVersion,
		Info: &openapi3.Info{
			Title:   title,
			Version: "1.0.0",
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: document invalid: %w", err)
	}
	return doc, nil
}

// ComponentName returns the component schema key for a form id.
func ComponentName(formID string) string {
	var b strings.Builder
	upper := true
	for _, r := range formID {
		if r == '-' || r == '_' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String() + "Submission"
}

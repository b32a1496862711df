package validation

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// LintIssue describes a rule configuration that can never behave as intended.
type LintIssue struct {
	FieldID string `json:"fieldId"`
	Message string `json:"message"`
}

// Lint inspects the rule sets of a definition. It does not validate answers;
// builders surface these so the author can fix a rule before publishing.
func Lint(def *model.FormDefinition) []LintIssue {
	if def == nil {
		return nil
	}
	var issues []LintIssue
	for _, field := range def.Fields {
		rules := field.Validation
		if rules.Empty() {
			continue
		}
		if !field.Type.StringValued() {
			issues = append(issues, LintIssue{
				FieldID: field.ID,
				Message: fmt.Sprintf("validation rules are ignored for %s fields", field.Type),
			})
			continue
		}
		if rules.MinLength != nil && *rules.MinLength < 0 {
			issues = append(issues, LintIssue{FieldID: field.ID, Message: "minLength is negative"})
		}
		if rules.MaxLength != nil && *rules.MaxLength < 0 {
			issues = append(issues, LintIssue{FieldID: field.ID, Message: "maxLength is negative"})
		}
		if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
			issues = append(issues, LintIssue{
				FieldID: field.ID,
				Message: fmt.Sprintf("minLength %d exceeds maxLength %d", *rules.MinLength, *rules.MaxLength),
			})
		}
		if rules.Pattern != "" {
			if err := CheckPattern(rules.Pattern); err != nil {
				issues = append(issues, LintIssue{
					FieldID: field.ID,
					Message: fmt.Sprintf("pattern does not compile: %v", err),
				})
			}
		}
	}
	return issues
}

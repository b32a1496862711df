package validation

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Issue pairs an ErrorKind with the message shown next to the field.
type Issue struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Message renders the user-facing text for a failure on field.
func Message(field model.Field, kind ErrorKind) string {
	switch kind {
	case Required:
		return "This field is required"
	case TooShort:
		if field.Validation != nil && field.Validation.MinLength != nil {
			return fmt.Sprintf("Minimum length is %d characters", *field.Validation.MinLength)
		}
		return "Value is too short"
	case TooLong:
		if field.Validation != nil && field.Validation.MaxLength != nil {
			return fmt.Sprintf("Maximum length is %d characters", *field.Validation.MaxLength)
		}
		return "Value is too long"
	case PatternMismatch:
		return "Invalid format"
	default:
		return string(kind)
	}
}

// Issues converts the result into messages, resolving fields by id from
// fields. Ids without a matching field keep the bare kind as message.
func (r Result) Issues(fields []model.Field) map[string]Issue {
	if len(r) == 0 {
		return map[string]Issue{}
	}
	byID := make(map[string]model.Field, len(fields))
	for _, field := range fields {
		byID[field.ID] = field
	}
	out := make(map[string]Issue, len(r))
	for id, kind := range r {
		out[id] = Issue{Kind: kind, Message: Message(byID[id], kind)}
	}
	return out
}

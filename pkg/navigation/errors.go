package navigation

import (
	apperrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const ErrCodeInvalidTransition = "INVALID_TRANSITION"

// ErrInvalidTransition marks an event that is not legal from the current
// state. The session is left unchanged.
var ErrInvalidTransition = apperrors.New("invalid transition", apperrors.CategoryBadInput).
	WithTextCode(ErrCodeInvalidTransition)

func invalidTransition(event string, state State, message string) error {
	return model.NewError(ErrInvalidTransition, message, nil, map[string]any{
		"event": event,
		"state": state.String(),
	})
}

package navigation

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Snapshot captures a partially filled session so it can be resumed later.
type Snapshot struct {
	FormID    string       `json:"formId"`
	StepIndex int          `json:"stepIndex"`
	Values    model.Values `json:"values"`
	SavedAt   time.Time    `json:"savedAt"`
}

// Snapshot captures the session. Submitted sessions cannot be snapshotted.
func (s *Session) Snapshot() (Snapshot, error) {
	if s.state.Submitted {
		return Snapshot{}, invalidTransition("snapshot", s.state, "form already submitted")
	}
	return Snapshot{
		FormID:    s.def.ID,
		StepIndex: s.state.StepIndex,
		Values:    s.values.Clone(),
		SavedAt:   s.now(),
	}, nil
}

// Resume rebuilds a session from snap. Earlier steps are re-validated: the
// session lands on the saved step only when every step before it passes,
// otherwise on the first failing step with its errors published. Answers for
// fields the definition no longer has are dropped; an answer whose shape no
// longer fits its field fails with ErrInvalidReference.
func Resume(def *model.FormDefinition, snap Snapshot, options ...Option) (*Session, error) {
	s, err := New(def, options...)
	if err != nil {
		return nil, err
	}
	if snap.FormID != "" && snap.FormID != s.def.ID {
		return nil, model.NewError(model.ErrInvalidReference,
			fmt.Sprintf("snapshot belongs to form %q, not %q", snap.FormID, s.def.ID), nil,
			map[string]any{"form_id": s.def.ID, "snapshot_form_id": snap.FormID})
	}

	for id, value := range snap.Values {
		field, ok := s.def.FieldByID(id)
		if !ok {
			continue
		}
		if err := model.CheckValue(*field, value); err != nil {
			return nil, err
		}
		s.values[id] = value
	}

	target := snap.StepIndex
	if target < 0 {
		target = 0
	}
	if last := len(s.steps) - 1; target > last {
		target = last
	}

	for i := 0; i < target; i++ {
		if result := s.validateStep(s.steps[i]); !result.Valid() {
			s.state = Filling(i)
			s.errors = result
			s.logger.Debug("navigation: resume of form %s gated at step %d", s.def.ID, i)
			return s, nil
		}
	}
	s.state = Filling(target)
	return s, nil
}

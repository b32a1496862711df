package navigation

import "fmt"

// State is the position of a fill session: Filling(StepIndex) until the
// submission is accepted, then Submitted.
type State struct {
	Submitted bool `json:"submitted"`
	StepIndex int  `json:"stepIndex"`
}

// Filling returns the state for an in-progress session on step i.
func Filling(i int) State {
	return State{StepIndex: i}
}

// Done returns the terminal state.
func Done() State {
	return State{Submitted: true}
}

func (s State) String() string {
	if s.Submitted {
		return "Submitted"
	}
	return fmt.Sprintf("Filling(%d)", s.StepIndex)
}

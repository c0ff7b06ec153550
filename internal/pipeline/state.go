package pipeline

import "fmt"

// State is a step of a single submission.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateInvalid        State = "invalid"
	StateSaving         State = "saving"
	StateSaveFailed     State = "save_failed"
	StateSaved          State = "saved"
	StateAnalyzing      State = "analyzing"
	StateAnalysisFailed State = "analysis_failed"
	StateReflected      State = "reflected"
)

var transitions = map[State][]State{
	StateIdle:           {StateValidating},
	StateValidating:     {StateInvalid, StateSaving},
	StateSaving:         {StateSaveFailed, StateSaved},
	StateSaved:          {StateAnalyzing},
	StateAnalyzing:      {StateAnalysisFailed, StateReflected},
	StateInvalid:        {StateIdle},
	StateSaveFailed:     {StateIdle},
	StateAnalysisFailed: {StateIdle},
	StateReflected:      {StateIdle},
}

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether a submission ends in s.
func (s State) Terminal() bool {
	switch s {
	case StateInvalid, StateSaveFailed, StateAnalysisFailed, StateReflected:
		return true
	}
	return false
}

// EntrySaved reports whether a submission that reached s has a persisted entry.
func (s State) EntrySaved() bool {
	switch s {
	case StateSaved, StateAnalyzing, StateAnalysisFailed, StateReflected:
		return true
	}
	return false
}

// TransitionError is returned when the state machine is driven out of order.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal submission transition %s -> %s", e.From, e.To)
}

package pipeline

import (
	"sync"

	"github.com/mindweave/mindweave-server/internal/model"
)

// Form holds the user's pending input and the state of its current submission.
// A form accepts one submission at a time.
type Form struct {
	mu       sync.Mutex
	content  string
	mood     model.Mood
	state    State
	inFlight bool
}

// NewForm creates an idle form with the given input.
func NewForm(content string, mood model.Mood) *Form {
	return &Form{content: content, mood: mood, state: StateIdle}
}

// Set replaces the pending input.
func (f *Form) Set(content string, mood model.Mood) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = content
	f.mood = mood
}

// Content returns the pending text.
func (f *Form) Content() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content
}

// Mood returns the pending mood, empty when none is selected.
func (f *Form) Mood() model.Mood {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mood
}

// State returns the state of the latest submission.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// InFlight reports whether a submission is running.
func (f *Form) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// begin claims the form and returns a snapshot of its input.
func (f *Form) begin() (string, model.Mood, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight {
		return "", "", ErrSubmissionInFlight
	}
	f.inFlight = true
	return f.content, f.mood, nil
}

func (f *Form) end() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
}

func (f *Form) transition(next State) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := f.state
	if !prev.CanTransition(next) {
		return prev, &TransitionError{From: prev, To: next}
	}
	f.state = next
	return prev, nil
}

func (f *Form) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = ""
	f.mood = ""
}

// Package pipeline runs the journal submission state machine:
// validate, save the entry, ask the analyzer for a reflection, and store it.
//
// Only validation and entry persistence can fail a submission. Analyzer and
// reflection storage problems degrade the outcome but never hide a saved entry.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// FallbackReflection is shown when no reflection could be generated.
const FallbackReflection = "We couldn't generate a reflection for this entry right now, but your words are safely saved. " +
	"Take a moment to reread what you wrote and notice how you felt while writing it."

// Observer is notified of every state change of every submission.
type Observer func(userID uuid.UUID, from, to State)

// Result describes the outcome of a submission.
type Result struct {
	State State
	Entry model.Entry
	// Reflection is the text shown to the user. It is FallbackReflection when Fallback is set.
	Reflection string
	// SavedReflection is set when the reflection was persisted.
	SavedReflection *model.Reflection
	Fallback        bool
	// AnalysisErr keeps the analyzer failure for diagnostics.
	AnalysisErr error
	// ReflectionErr keeps the reflection persistence failure for diagnostics.
	ReflectionErr error
}

// Pipeline coordinates a submission across the entry store, analyzer and reflection store.
type Pipeline struct {
	entries         model.EntryStore
	reflections     model.ReflectionStore
	analyzer        model.Analyzer
	logger          *logger.Logger
	observers       []Observer
	analyzerTimeout time.Duration
	now             func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observers = append(p.observers, o)
	}
}

// WithAnalyzerTimeout bounds the analyzer call. Zero means no bound.
func WithAnalyzerTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.analyzerTimeout = d
	}
}

// WithClock overrides the time source used for new entries.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline.
func New(
	entries model.EntryStore,
	reflections model.ReflectionStore,
	analyzer model.Analyzer,
	logger *logger.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		entries:     entries,
		reflections: reflections,
		analyzer:    analyzer,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit runs one submission of form on behalf of userID.
//
// It returns a *ValidationError or *EntrySaveError when the entry was not saved,
// and ErrSubmissionInFlight when the form is busy. Once the entry is saved the
// error is always nil and the Result tells how far the reflection got.
func (p *Pipeline) Submit(ctx context.Context, userID uuid.UUID, form *Form) (Result, error) {
	content, mood, err := form.begin()
	if err != nil {
		return Result{State: form.State()}, err
	}
	defer form.end()

	if form.State().Terminal() {
		if err := p.move(userID, form, StateIdle); err != nil {
			return Result{State: form.State()}, err
		}
	}
	if err := p.move(userID, form, StateValidating); err != nil {
		return Result{State: form.State()}, err
	}

	content = strings.TrimSpace(content)
	if verr := validate(content, mood); verr != nil {
		if err := p.move(userID, form, StateInvalid); err != nil {
			return Result{State: form.State()}, err
		}
		p.logger.Debug("Submission pipeline: form rejected",
			"user_id", userID,
			"field", verr.Field)
		return Result{State: StateInvalid}, verr
	}

	if err := p.move(userID, form, StateSaving); err != nil {
		return Result{State: form.State()}, err
	}

	now := p.now()
	entry, err := p.entries.Create(ctx, model.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		p.logger.Error("Submission pipeline: failed to save entry",
			"user_id", userID,
			"error", err.Error())
		if terr := p.move(userID, form, StateSaveFailed); terr != nil {
			return Result{State: form.State()}, terr
		}
		return Result{State: StateSaveFailed}, &EntrySaveError{Err: err}
	}

	// From here on the entry exists and the submission succeeds.
	form.clear()
	result := Result{State: StateSaved, Entry: entry}
	p.mustMove(userID, form, StateSaved)

	p.mustMove(userID, form, StateAnalyzing)
	text, err := p.analyze(ctx, content)
	if err != nil {
		p.logger.Warn("Submission pipeline: analysis failed, using fallback reflection",
			"user_id", userID,
			"entry_id", entry.ID,
			"error", err.Error())
		p.mustMove(userID, form, StateAnalysisFailed)
		result.State = StateAnalysisFailed
		result.Reflection = FallbackReflection
		result.Fallback = true
		result.AnalysisErr = err
		return result, nil
	}

	p.mustMove(userID, form, StateReflected)
	result.State = StateReflected
	result.Reflection = text

	// The reflection is already computed, so store it even if the caller has gone away.
	saved, err := p.reflections.Create(context.WithoutCancel(ctx), model.Reflection{
		ID:          uuid.New(),
		UserID:      userID,
		EntryID:     &entry.ID,
		Content:     text,
		Type:        model.ReflectionTypeJournal,
		GeneratedAt: p.now(),
	})
	if err != nil {
		p.logger.Error("Submission pipeline: failed to save reflection",
			"user_id", userID,
			"entry_id", entry.ID,
			"error", err.Error())
		result.ReflectionErr = err
		return result, nil
	}
	result.SavedReflection = &saved

	p.logger.Info("Submission pipeline: entry reflected",
		"user_id", userID,
		"entry_id", entry.ID,
		"reflection_id", saved.ID)

	return result, nil
}

func validate(content string, mood model.Mood) *ValidationError {
	if content == "" {
		return &ValidationError{Field: "content", Err: model.ErrEmptyContent}
	}
	if !mood.Valid() {
		return &ValidationError{Field: "mood", Err: model.ErrInvalidMood}
	}
	return nil
}

func (p *Pipeline) analyze(ctx context.Context, content string) (text string, err error) {
	if p.analyzerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.analyzerTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzer panicked: %v", r)
		}
	}()

	text, err = p.analyzer.Analyze(ctx, content)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyReflection
	}
	return text, nil
}

func (p *Pipeline) move(userID uuid.UUID, form *Form, next State) error {
	prev, err := form.transition(next)
	if err != nil {
		return err
	}
	for _, o := range p.observers {
		o(userID, prev, next)
	}
	return nil
}

// mustMove drives transitions that the table always allows once the entry is saved.
func (p *Pipeline) mustMove(userID uuid.UUID, form *Form, next State) {
	if err := p.move(userID, form, next); err != nil {
		p.logger.Error("Submission pipeline: unexpected transition",
			"user_id", userID,
			"error", err.Error())
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/achievement"
	"github.com/mindweave/mindweave-server/internal/cache"
	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/pipeline"
	"github.com/mindweave/mindweave-server/internal/stats"
)

// SubmissionRecorder receives submission outcomes.
type SubmissionRecorder interface {
	SubmissionFinished(state string)
	ReflectionSaveFailed()
}

// Journal serves a user's entries, reflections and everything derived from them.
type Journal struct {
	entries     model.EntryStore
	reflections model.ReflectionStore
	entryCache  *cache.EntryStore
	reflCache   *cache.ReflectionStore
	pipeline    *pipeline.Pipeline
	recorder    SubmissionRecorder
	logger      *logger.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewJournal(
	entries model.EntryStore,
	reflections model.ReflectionStore,
	entryCache *cache.EntryStore,
	reflCache *cache.ReflectionStore,
	p *pipeline.Pipeline,
	recorder SubmissionRecorder,
	logger *logger.Logger,
) *Journal {
	return &Journal{
		entries:     entries,
		reflections: reflections,
		entryCache:  entryCache,
		reflCache:   reflCache,
		pipeline:    p,
		recorder:    recorder,
		logger:      logger,
		inFlight:    make(map[uuid.UUID]struct{}),
	}
}

// Submit runs the submission pipeline. A user has at most one submission in flight.
func (j *Journal) Submit(ctx context.Context, userID uuid.UUID, content, rawMood string) (pipeline.Result, error) {
	if !j.claim(userID) {
		return pipeline.Result{State: pipeline.StateIdle}, pipeline.ErrSubmissionInFlight
	}
	defer j.release(userID)

	mood, err := model.ParseMood(rawMood)
	if err != nil {
		// Keep the raw value so validation reports it against the mood field.
		mood = model.Mood(rawMood)
	}

	form := pipeline.NewForm(content, mood)
	result, err := j.pipeline.Submit(ctx, userID, form)

	if result.State.EntrySaved() {
		j.entryCache.Invalidate(userID)
		j.reflCache.Invalidate(userID)
	}
	if j.recorder != nil {
		j.recorder.SubmissionFinished(string(result.State))
		if result.ReflectionErr != nil {
			j.recorder.ReflectionSaveFailed()
		}
	}
	return result, err
}

func (j *Journal) claim(userID uuid.UUID) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, busy := j.inFlight[userID]; busy {
		return false
	}
	j.inFlight[userID] = struct{}{}
	return true
}

func (j *Journal) release(userID uuid.UUID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.inFlight, userID)
}

// Entries returns the user's entries newest first.
func (j *Journal) Entries(ctx context.Context, userID uuid.UUID) ([]model.Entry, error) {
	return j.entryCache.Entries(ctx, userID)
}

// EntriesForDate returns the entries written on date's calendar day in date's location.
func (j *Journal) EntriesForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Entry, error) {
	entries, err := j.entryCache.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.EntriesForDate(entries, date), nil
}

// DeleteEntry removes an entry. Its reflections stay, detached from the entry.
func (j *Journal) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	if err := j.entries.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	j.entryCache.Invalidate(userID)
	j.reflCache.Invalidate(userID)

	j.logger.Info("Journal service: entry deleted",
		"user_id", userID,
		"entry_id", entryID)
	return nil
}

// Refetch reloads both snapshots from the data store.
func (j *Journal) Refetch(ctx context.Context, userID uuid.UUID) ([]model.Entry, []model.Reflection, error) {
	entries, err := j.entryCache.Refetch(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	reflections, err := j.reflCache.Refetch(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return entries, reflections, nil
}

// Stats summarizes the user's entries relative to now, in now's location.
func (j *Journal) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (stats.Summary, error) {
	entries, err := j.entryCache.Entries(ctx, userID)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(entries, now), nil
}

func (j *Journal) Achievements(ctx context.Context, userID uuid.UUID, loc *time.Location) ([]achievement.Progress, error) {
	entries, err := j.entryCache.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	reflections, err := j.reflCache.Reflections(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievement.Evaluate(entries, reflections, loc), nil
}

func (j *Journal) Calendar(ctx context.Context, userID uuid.UUID, year int, month time.Month, loc *time.Location) ([]stats.CalendarDay, error) {
	entries, err := j.entryCache.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.MonthCalendar(entries, year, month, loc), nil
}

func (j *Journal) Reflections(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error) {
	return j.reflCache.Reflections(ctx, userID)
}

func (j *Journal) ReflectionSummary(ctx context.Context, userID uuid.UUID, loc *time.Location) (stats.ReflectionSummary, error) {
	reflections, err := j.reflCache.Reflections(ctx, userID)
	if err != nil {
		return stats.ReflectionSummary{}, err
	}
	return stats.SummarizeReflections(reflections, loc), nil
}

func (j *Journal) DeleteReflection(ctx context.Context, userID, reflectionID uuid.UUID) error {
	if err := j.reflections.Delete(ctx, userID, reflectionID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete reflection: %w", err)
	}
	j.reflCache.Invalidate(userID)
	return nil
}

package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// ReflectionStore caches each user's reflections joined with their entries, newest first.
type ReflectionStore struct {
	snaps *snapshots[model.Reflection]
}

// NewReflectionStore creates a ReflectionStore backed by repo holding up to size user snapshots.
func NewReflectionStore(repo model.ReflectionStore, size int, logger *logger.Logger) (*ReflectionStore, error) {
	load := func(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error) {
		rows, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list reflections: %w", err)
		}

		reflections := make([]model.Reflection, 0, len(rows))
		for _, r := range rows {
			if strings.TrimSpace(r.Content) == "" {
				logger.Warn("Reflection store: skipping empty reflection",
					"user_id", userID,
					"reflection_id", r.ID)
				continue
			}
			if r.Entry != nil && !r.Entry.Mood.Valid() {
				r.Entry = nil
			}
			reflections = append(reflections, r)
		}
		return reflections, nil
	}

	snaps, err := newSnapshots("reflections", size, load, logger)
	if err != nil {
		return nil, err
	}
	return &ReflectionStore{snaps: snaps}, nil
}

// Reflections returns the user's snapshot, loading it on first use.
func (s *ReflectionStore) Reflections(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error) {
	return s.snaps.get(ctx, userID)
}

// Refetch reloads the user's snapshot from the data store.
func (s *ReflectionStore) Refetch(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error) {
	return s.snaps.refetch(ctx, userID)
}

// Invalidate discards the user's snapshot.
func (s *ReflectionStore) Invalidate(userID uuid.UUID) {
	s.snaps.invalidate(userID)
}

// LastError returns the error of the user's most recent failed load.
func (s *ReflectionStore) LastError(userID uuid.UUID) error {
	return s.snaps.lastError(userID)
}

// LoadedAt reports when the user's snapshot was loaded.
func (s *ReflectionStore) LoadedAt(userID uuid.UUID) (time.Time, bool) {
	return s.snaps.loadedAt(userID)
}

// Listen invalidates snapshots on session events from src.
func (s *ReflectionStore) Listen(src EventSource) (cancel func()) {
	return s.snaps.listen(src)
}

// Observe registers fn for load outcomes. It must be called before the store is used.
func (s *ReflectionStore) Observe(fn LoadObserver) {
	s.snaps.observe = fn
}

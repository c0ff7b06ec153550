package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// EntryStore caches each user's journal entries, newest first.
type EntryStore struct {
	snaps *snapshots[model.Entry]
}

// NewEntryStore creates an EntryStore backed by repo holding up to size user snapshots.
func NewEntryStore(repo model.EntryStore, size int, logger *logger.Logger) (*EntryStore, error) {
	load := func(ctx context.Context, userID uuid.UUID) ([]model.Entry, error) {
		rows, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}

		entries := make([]model.Entry, 0, len(rows))
		for _, e := range rows {
			if err := e.Validate(); err != nil {
				logger.Warn("Entry store: skipping invalid entry",
					"user_id", userID,
					"entry_id", e.ID,
					"error", err.Error())
				continue
			}
			entries = append(entries, e)
		}
		return entries, nil
	}

	snaps, err := newSnapshots("entries", size, load, logger)
	if err != nil {
		return nil, err
	}
	return &EntryStore{snaps: snaps}, nil
}

// Entries returns the user's snapshot, loading it on first use.
func (s *EntryStore) Entries(ctx context.Context, userID uuid.UUID) ([]model.Entry, error) {
	return s.snaps.get(ctx, userID)
}

// Refetch reloads the user's snapshot from the data store.
func (s *EntryStore) Refetch(ctx context.Context, userID uuid.UUID) ([]model.Entry, error) {
	return s.snaps.refetch(ctx, userID)
}

// Invalidate discards the user's snapshot.
func (s *EntryStore) Invalidate(userID uuid.UUID) {
	s.snaps.invalidate(userID)
}

// LastError returns the error of the user's most recent failed load, cleared by the next successful one.
func (s *EntryStore) LastError(userID uuid.UUID) error {
	return s.snaps.lastError(userID)
}

// LoadedAt reports when the user's snapshot was loaded.
func (s *EntryStore) LoadedAt(userID uuid.UUID) (time.Time, bool) {
	return s.snaps.loadedAt(userID)
}

// Len returns the number of cached snapshots.
func (s *EntryStore) Len() int {
	return s.snaps.len()
}

// Listen invalidates snapshots on session events from src.
func (s *EntryStore) Listen(src EventSource) (cancel func()) {
	return s.snaps.listen(src)
}

// Observe registers fn for load outcomes. It must be called before the store is used.
func (s *EntryStore) Observe(fn LoadObserver) {
	s.snaps.observe = fn
}

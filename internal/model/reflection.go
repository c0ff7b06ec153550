package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReflectionTypeJournal is the only reflection category produced today.
const ReflectionTypeJournal = "journal"

// ReflectionStore defines persistence operations for AI reflections.
type ReflectionStore interface {
	Create(ctx context.Context, reflection Reflection) (Reflection, error)
	// ListByUser returns reflections newest first, joined with their source entry when it still exists.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reflection, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Reflection is an AI generated commentary on a journal entry.
type Reflection struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	EntryID     *uuid.UUID
	Content     string
	Type        string
	GeneratedAt time.Time
	// Entry is populated by joined reads and is nil once the source entry is deleted.
	Entry *EntrySummary
}

// EntrySummary carries the entry fields exposed alongside a reflection.
type EntrySummary struct {
	ID        uuid.UUID
	Content   string
	Mood      Mood
	CreatedAt time.Time
}

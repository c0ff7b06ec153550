package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntryStore defines persistence operations for journal entries.
type EntryStore interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Mood is the mood tag attached to every journal entry.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
)

// Moods lists every valid mood in display order.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodSad}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad:
		return true
	}
	return false
}

// Score maps a mood onto the 0-10 scale used by dashboards.
func (m Mood) Score() float64 {
	switch m {
	case MoodHappy:
		return 10
	case MoodNeutral:
		return 6
	case MoodSad:
		return 2
	}
	return 0
}

// ParseMood converts raw input into a Mood.
func ParseMood(raw string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMood, raw)
	}
	return m, nil
}

// Entry is a single mood-tagged journal entry.
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	Mood      Mood
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants every stored entry must hold.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Content) == "" {
		return ErrEmptyContent
	}
	if !e.Mood.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMood, e.Mood)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindweave/mindweave-server/internal/model"
)

var _ model.ReflectionStore = (*ReflectionRepository)(nil)

// ReflectionRepository persists AI reflections.
type ReflectionRepository struct {
	db *Connection
}

func NewReflectionRepository(db *Connection) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

func (r *ReflectionRepository) Create(ctx context.Context, reflection model.Reflection) (model.Reflection, error) {
	const query = `
		INSERT INTO ai_reflections (id, user_id, journal_entry_id, content, reflection_type, generated_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING id, user_id, journal_entry_id, content, reflection_type, generated_at`

	if reflection.ID == uuid.Nil {
		reflection.ID = uuid.New()
	}
	if reflection.Type == "" {
		reflection.Type = model.ReflectionTypeJournal
	}
	var generatedAt any
	if !reflection.GeneratedAt.IsZero() {
		generatedAt = reflection.GeneratedAt
	}

	var saved model.Reflection
	err := r.db.QueryRow(ctx, query,
		reflection.ID, reflection.UserID, reflection.EntryID, reflection.Content, reflection.Type, generatedAt,
	).Scan(&saved.ID, &saved.UserID, &saved.EntryID, &saved.Content, &saved.Type, &saved.GeneratedAt)
	if err != nil {
		return model.Reflection{}, fmt.Errorf("failed to create reflection: %w", err)
	}
	return saved, nil
}

// ListByUser returns reflections newest first with the source entry joined when it still exists.
func (r *ReflectionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error) {
	const query = `
		SELECT r.id, r.user_id, r.journal_entry_id, r.content, r.reflection_type, r.generated_at,
		       e.id, e.content, e.mood, e.created_at
		FROM ai_reflections r
		LEFT JOIN journal_entries e ON e.id = r.journal_entry_id
		WHERE r.user_id = $1
		ORDER BY r.generated_at DESC, r.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reflections: %w", err)
	}

	reflections, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Reflection, error) {
		var (
			ref          model.Reflection
			entryID      *uuid.UUID
			entryContent *string
			entryMood    *string
			entryCreated *time.Time
		)
		if err := row.Scan(
			&ref.ID, &ref.UserID, &ref.EntryID, &ref.Content, &ref.Type, &ref.GeneratedAt,
			&entryID, &entryContent, &entryMood, &entryCreated,
		); err != nil {
			return model.Reflection{}, err
		}
		if entryID != nil {
			ref.Entry = &model.EntrySummary{
				ID:        *entryID,
				Content:   deref(entryContent),
				Mood:      model.Mood(deref(entryMood)),
				CreatedAt: derefTime(entryCreated),
			}
		}
		return ref, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reflections: %w", err)
	}
	return reflections, nil
}

func (r *ReflectionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const query = `DELETE FROM ai_reflections WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reflection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

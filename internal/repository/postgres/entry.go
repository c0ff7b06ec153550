package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindweave/mindweave-server/internal/model"
)

var _ model.EntryStore = (*EntryRepository)(nil)

const entryColumns = `id, user_id, content, mood, created_at, updated_at`

// EntryRepository persists journal entries.
type EntryRepository struct {
	db *Connection
}

func NewEntryRepository(db *Connection) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(ctx context.Context, entry model.Entry) (model.Entry, error) {
	query := `INSERT INTO journal_entries (id, user_id, content, mood, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), COALESCE($5, NOW()))
			  RETURNING ` + entryColumns

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	var createdAt any
	if !entry.CreatedAt.IsZero() {
		createdAt = entry.CreatedAt
	}

	var saved model.Entry
	err := r.db.QueryRow(ctx, query, entry.ID, entry.UserID, entry.Content, string(entry.Mood), createdAt).Scan(
		&saved.ID, &saved.UserID, &saved.Content, &saved.Mood, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return saved, nil
}

// ListByUser returns the user's entries newest first.
func (r *EntryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Entry, error) {
		var e model.Entry
		err := row.Scan(&e.ID, &e.UserID, &e.Content, &e.Mood, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const query = `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

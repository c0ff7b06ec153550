package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

const exportContentType = "application/json"

// ExportDocument is the JSON layout of a journal export.
type ExportDocument struct {
	User        ExportUser         `json:"user"`
	ExportedAt  time.Time          `json:"exported_at"`
	Entries     []ExportEntry      `json:"entries"`
	Reflections []ExportReflection `json:"reflections"`
}

type ExportUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

type ExportEntry struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	Mood      model.Mood `json:"mood"`
	CreatedAt time.Time  `json:"created_at"`
}

type ExportReflection struct {
	ID          uuid.UUID  `json:"id"`
	EntryID     *uuid.UUID `json:"journal_entry_id"`
	Content     string     `json:"content"`
	Type        string     `json:"reflection_type"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// journalReader is the part of Journal the export needs.
type journalReader interface {
	Entries(ctx context.Context, userID uuid.UUID) ([]model.Entry, error)
	Reflections(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error)
}

// Export writes premium journal exports to object storage.
type Export struct {
	journal       journalReader
	users         model.UserStore
	subscriptions *Subscription
	storage       model.Storage
	logger        *logger.Logger
	now           func() time.Time
}

func NewExport(journal journalReader, users model.UserStore, subscriptions *Subscription, storage model.Storage, logger *logger.Logger) *Export {
	return &Export{
		journal:       journal,
		users:         users,
		subscriptions: subscriptions,
		storage:       storage,
		logger:        logger,
		now:           time.Now,
	}
}

// Create exports the user's journal and returns the export name.
func (e *Export) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := e.subscriptions.RequirePremium(ctx, userID); err != nil {
		return "", err
	}

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	entries, err := e.journal.Entries(ctx, userID)
	if err != nil {
		return "", err
	}
	reflections, err := e.journal.Reflections(ctx, userID)
	if err != nil {
		return "", err
	}

	now := e.now().UTC()
	doc := ExportDocument{
		User:        ExportUser{ID: user.ID, Email: user.Email, DisplayName: user.ResolvedDisplayName()},
		ExportedAt:  now,
		Entries:     make([]ExportEntry, 0, len(entries)),
		Reflections: make([]ExportReflection, 0, len(reflections)),
	}
	for _, en := range entries {
		doc.Entries = append(doc.Entries, ExportEntry{ID: en.ID, Content: en.Content, Mood: en.Mood, CreatedAt: en.CreatedAt})
	}
	for _, r := range reflections {
		doc.Reflections = append(doc.Reflections, ExportReflection{
			ID: r.ID, EntryID: r.EntryID, Content: r.Content, Type: r.Type, GeneratedAt: r.GeneratedAt,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	name := now.Format("20060102T150405Z") + ".json"
	if err := e.storage.Upload(ctx, exportKey(userID, name), bytes.NewReader(body), int64(len(body)), exportContentType); err != nil {
		e.logger.Error("Export service: failed to upload export",
			"user_id", userID,
			"error", err.Error())
		return "", fmt.Errorf("failed to store export: %w", err)
	}

	e.logger.Info("Export service: export created",
		"user_id", userID,
		"name", name,
		"entries", len(doc.Entries),
		"reflections", len(doc.Reflections))
	return name, nil
}

// List returns the user's export names, newest first.
func (e *Export) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	keys, err := e.storage.List(ctx, exportPrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, path.Base(k))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Open streams one of the user's exports. Names outside the user's folder are not found.
func (e *Export) Open(ctx context.Context, userID uuid.UUID, name string) (io.ReadCloser, error) {
	if !validExportName(name) {
		return nil, model.ErrNotFound
	}
	return e.storage.Download(ctx, exportKey(userID, name))
}

func (e *Export) Delete(ctx context.Context, userID uuid.UUID, name string) error {
	if !validExportName(name) {
		return model.ErrNotFound
	}
	key := exportKey(userID, name)
	ok, err := e.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check export: %w", err)
	}
	if !ok {
		return model.ErrNotFound
	}
	return e.storage.Delete(ctx, key)
}

func exportPrefix(userID uuid.UUID) string {
	return "users/" + userID.String() + "/exports/"
}

func exportKey(userID uuid.UUID, name string) string {
	return exportPrefix(userID) + name
}

func validExportName(name string) bool {
	return name != "" &&
		strings.HasSuffix(name, ".json") &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.Contains(name, "..")
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/achievement"
	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/pipeline"
	"github.com/mindweave/mindweave-server/internal/stats"
)

// JournalService defines the journal operations exposed over HTTP.
type JournalService interface {
	Submit(ctx context.Context, userID uuid.UUID, content, rawMood string) (pipeline.Result, error)
	Entries(ctx context.Context, userID uuid.UUID) ([]model.Entry, error)
	EntriesForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Entry, error)
	Calendar(ctx context.Context, userID uuid.UUID, year int, month time.Month, loc *time.Location) ([]stats.CalendarDay, error)
	DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error
	Refetch(ctx context.Context, userID uuid.UUID) ([]model.Entry, []model.Reflection, error)
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (stats.Summary, error)
	Achievements(ctx context.Context, userID uuid.UUID, loc *time.Location) ([]achievement.Progress, error)
	Reflections(ctx context.Context, userID uuid.UUID) ([]model.Reflection, error)
	ReflectionSummary(ctx context.Context, userID uuid.UUID, loc *time.Location) (stats.ReflectionSummary, error)
	DeleteReflection(ctx context.Context, userID, reflectionID uuid.UUID) error
}

// Journal handles entries, reflections and the views derived from them.
type Journal struct {
	journal        JournalService
	contextManager model.ContextManager
	locator        *Locator
	logger         *logger.Logger
	now            func() time.Time
}

// NewJournal creates a new Journal handler.
func NewJournal(journal JournalService, contextManager model.ContextManager, locator *Locator, logger *logger.Logger) *Journal {
	return &Journal{
		journal:        journal,
		contextManager: contextManager,
		locator:        locator,
		logger:         logger,
		now:            time.Now,
	}
}

type submitRequest struct {
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type refetchResponse struct {
	Entries     []entryResponse      `json:"entries"`
	Reflections []reflectionResponse `json:"reflections"`
}

// ListEntries returns the user's entries, or only those of ?date=YYYY-MM-DD in the request location.
func (h *Journal) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	var entries []model.Entry
	if raw := r.URL.Query().Get("date"); raw != "" {
		loc, err := h.locator.Location(r)
		if err != nil {
			writeError(w, err)
			return
		}
		date, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		entries, err = h.journal.EntriesForDate(r.Context(), userID, date)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		entries, err = h.journal.Entries(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, newEntriesResponse(entries))
}

// Calendar returns one cell per day of ?year=&month=, defaulting to the current month.
func (h *Journal) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}
	loc, err := h.locator.Location(r)
	if err != nil {
		writeError(w, err)
		return
	}

	now := h.now().In(loc)
	year, month := now.Year(), now.Month()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil || year < 1 || year > 9999 {
			writeMessage(w, http.StatusBadRequest, "year is invalid")
			return
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			writeMessage(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(m)
	}

	days, err := h.journal.Calendar(r.Context(), userID, year, month, loc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// Submit runs the submission pipeline for one entry.
func (h *Journal) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	form := submissionForm{Content: req.Content, Mood: req.Mood}

	result, err := h.journal.Submit(r.Context(), userID, req.Content, req.Mood)
	if err != nil {
		status, msg := handleError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Journal handler: submission failed",
				"user_id", userID,
				"state", result.State,
				"error", err.Error())
		}
		writeJSON(w, status, submissionErrorResponse{Error: msg, State: result.State, Form: form})
		return
	}

	if result.AnalysisErr != nil {
		h.logger.Warn("Journal handler: reflection fell back",
			"user_id", userID,
			"entry_id", result.Entry.ID,
			"error", result.AnalysisErr.Error())
	}
	writeJSON(w, http.StatusCreated, newSubmissionResponse(result))
}

// DeleteEntry removes one of the user's entries.
func (h *Journal) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.journal.DeleteEntry)
}

// Refetch reloads both snapshots from the data store.
func (h *Journal) Refetch(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, reflections, err := h.journal.Refetch(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refetchResponse{
		Entries:     newEntriesResponse(entries),
		Reflections: newReflectionsResponse(reflections),
	})
}

// Stats returns the dashboard statistics relative to now in the request location.
func (h *Journal) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}
	loc, err := h.locator.Location(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.journal.Stats(r.Context(), userID, h.now().In(loc))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Journal) Achievements(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}
	loc, err := h.locator.Location(r)
	if err != nil {
		writeError(w, err)
		return
	}

	progress, err := h.journal.Achievements(r.Context(), userID, loc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Journal) ListReflections(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	reflections, err := h.journal.Reflections(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReflectionsResponse(reflections))
}

// ReflectionSummary returns the month, mood and type breakdowns of the user's reflections.
func (h *Journal) ReflectionSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}
	loc, err := h.locator.Location(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.journal.ReflectionSummary(r.Context(), userID, loc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Journal) DeleteReflection(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.journal.DeleteReflection)
}

func (h *Journal) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, userID, id uuid.UUID) error) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: id must be a UUID", errBadRequest))
		return
	}

	if err := del(r.Context(), userID, id); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logger.Error("Journal handler: delete failed",
				"user_id", userID,
				"id", id,
				"error", err.Error())
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// ExportService defines premium journal export operations.
type ExportService interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	List(ctx context.Context, userID uuid.UUID) ([]string, error)
	Open(ctx context.Context, userID uuid.UUID, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, userID uuid.UUID, name string) error
}

// Export handles journal exports kept in object storage.
type Export struct {
	exports        ExportService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewExport(exports ExportService, contextManager model.ContextManager, logger *logger.Logger) *Export {
	return &Export{
		exports:        exports,
		contextManager: contextManager,
		logger:         logger,
	}
}

type exportResponse struct {
	Name string `json:"name"`
}

// Create writes a new export and returns its name.
func (h *Export) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	name, err := h.exports.Create(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, model.ErrPremiumRequired) {
			h.logger.Error("Export handler: export failed",
				"user_id", userID,
				"error", err.Error())
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/exports/"+name)
	writeJSON(w, http.StatusCreated, exportResponse{Name: name})
}

func (h *Export) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	names, err := h.exports.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]exportResponse, 0, len(names))
	for _, n := range names {
		out = append(out, exportResponse{Name: n})
	}
	writeJSON(w, http.StatusOK, out)
}

// Download streams an export back as an attachment.
func (h *Export) Download(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "name")

	body, err := h.exports.Open(r.Context(), userID, name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="mindweave-`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("Export handler: download interrupted",
			"user_id", userID,
			"name", name,
			"error", err.Error())
	}
}

func (h *Export) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.exports.Delete(r.Context(), userID, chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

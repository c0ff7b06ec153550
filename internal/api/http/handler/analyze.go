package handler

import (
	"net/http"
	"strings"

	"github.com/mindweave/mindweave-server/internal/analyzer"
	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// Analyze serves the reflection contract POST /api/analyze {entry_text} -> {reflection}.
type Analyze struct {
	analyzer model.Analyzer
	logger   *logger.Logger
}

func NewAnalyze(a model.Analyzer, logger *logger.Logger) *Analyze {
	return &Analyze{analyzer: a, logger: logger}
}

type analyzeResponse struct {
	Reflection string `json:"reflection"`
}

func (h *Analyze) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzer.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	text := strings.TrimSpace(req.EntryText)
	if text == "" {
		writeMessage(w, http.StatusBadRequest, "entry_text is required")
		return
	}

	reflection, err := h.analyzer.Analyze(r.Context(), text)
	if err != nil {
		h.logger.Error("Analyze handler: generation failed", "error", err.Error())
		status, msg := handleError(err)
		if status == http.StatusInternalServerError {
			status, msg = http.StatusBadGateway, "reflection service failed"
		}
		writeMessage(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Reflection: reflection})
}

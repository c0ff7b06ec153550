package handler

import (
	"errors"
	"net/http"

	"github.com/mindweave/mindweave-server/internal/analyzer"
	"github.com/mindweave/mindweave-server/internal/cache"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/pipeline"
	"github.com/mindweave/mindweave-server/internal/service"
	"github.com/mindweave/mindweave-server/internal/token"
)

var errBadRequest = errors.New("bad request")

// handleError maps a service error onto a status code and a message safe to show clients.
func handleError(err error) (int, string) {
	var validation *pipeline.ValidationError
	var saveErr *pipeline.EntrySaveError
	var analyzerStatus *analyzer.StatusError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrDisplayNameSize),
		errors.Is(err, model.ErrInvalidMood),
		errors.Is(err, model.ErrEmptyContent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errNoUser),
		errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, token.ErrWrongType):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, model.ErrPremiumRequired):
		return http.StatusPaymentRequired, model.ErrPremiumRequired.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, model.ErrEmailTaken.Error()
	case errors.Is(err, pipeline.ErrSubmissionInFlight):
		return http.StatusConflict, pipeline.ErrSubmissionInFlight.Error()
	case errors.As(err, &saveErr):
		return http.StatusBadGateway, "your entry could not be saved, please try again"
	case errors.As(err, &analyzerStatus),
		errors.Is(err, analyzer.ErrMalformedResponse),
		errors.Is(err, analyzer.ErrMissingReflection),
		errors.Is(err, analyzer.ErrEmptyGeneration):
		return http.StatusBadGateway, "reflection service failed"
	case errors.Is(err, cache.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "journal is temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := handleError(err)
	writeMessage(w, status, msg)
}

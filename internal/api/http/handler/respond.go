package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/model"
)

// maxBodyBytes caps request bodies. Journal entries are plain text so 256 KiB is plenty.
const maxBodyBytes = 256 << 10

// TimezoneHeader lets clients that cannot set query parameters pick the user location.
const TimezoneHeader = "X-Timezone"

var errNoUser = errors.New("no authenticated user on request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a single JSON object from the body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func userIDFrom(r *http.Request, cm model.ContextManager) (uuid.UUID, error) {
	userID, ok := cm.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, errNoUser
	}
	return userID, nil
}

// Locator resolves the location a request's calendar days are computed in.
type Locator struct {
	fallback *time.Location
}

// NewLocator returns a Locator falling back to loc, or UTC when loc is nil.
func NewLocator(loc *time.Location) *Locator {
	if loc == nil {
		loc = time.UTC
	}
	return &Locator{fallback: loc}
}

// Location reads the tz query parameter, then the X-Timezone header, then the fallback.
func (l *Locator) Location(r *http.Request) (*time.Location, error) {
	name := strings.TrimSpace(r.URL.Query().Get("tz"))
	if name == "" {
		name = strings.TrimSpace(r.Header.Get(TimezoneHeader))
	}
	if name == "" {
		return l.fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", errBadRequest, name)
	}
	return loc, nil
}

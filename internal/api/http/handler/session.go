package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// SessionEvents is the subscription side of the session hub.
type SessionEvents interface {
	Subscribe(userID uuid.UUID) (<-chan model.SessionEvent, func())
}

// StreamRecorder counts open event streams.
type StreamRecorder interface {
	SessionStreamOpened()
	SessionStreamClosed()
}

// Session pushes the user's session-change events over a websocket.
type Session struct {
	events         SessionEvents
	recorder       StreamRecorder
	contextManager model.ContextManager
	upgrader       websocket.Upgrader
	logger         *logger.Logger
}

// NewSession creates a Session handler. An empty allowedOrigins accepts same-origin handshakes only.
func NewSession(events SessionEvents, recorder StreamRecorder, contextManager model.ContextManager, allowedOrigins []string, logger *logger.Logger) *Session {
	h := &Session{
		events:         events,
		recorder:       recorder,
		contextManager: contextManager,
		logger:         logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(allowedOrigins))
		for _, o := range allowedOrigins {
			allowed[o] = struct{}{}
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		}
	}
	return h
}

// Events upgrades the request and streams events until either side goes away.
func (h *Session) Events(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r, h.contextManager)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.logger.Info("Session handler: upgrade failed",
			"user_id", userID,
			"error", err.Error())
		return
	}
	defer conn.Close()

	events, cancel := h.events.Subscribe(userID)
	defer cancel()

	if h.recorder != nil {
		h.recorder.SessionStreamOpened()
		defer h.recorder.SessionStreamClosed()
	}
	h.logger.Debug("Session handler: stream opened", "user_id", userID)

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.logger.Debug("Session handler: stream closed by client", "user_id", userID)
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Info("Session handler: write failed",
					"user_id", userID,
					"error", err.Error())
				return
			}
			if ev.Type == model.SessionSignedOut {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"),
					time.Now().Add(writeWait))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Session) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

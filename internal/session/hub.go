// Package session fans out identity change events to caches and connected clients.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

const defaultBuffer = 16

var _ model.SessionPublisher = (*Hub)(nil)

// Hub delivers session events. Listeners run synchronously inside Publish;
// subscribers receive events on buffered channels and miss events when full.
type Hub struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]func(model.SessionEvent)
	subs      map[uint64]subscriber
	buffer    int
	logger    *logger.Logger
	now       func() time.Time
}

type subscriber struct {
	userID uuid.UUID
	ch     chan model.SessionEvent
}

// NewHub creates a Hub. A non-positive buffer uses a default size.
func NewHub(logger *logger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		listeners: make(map[uint64]func(model.SessionEvent)),
		subs:      make(map[uint64]subscriber),
		buffer:    buffer,
		logger:    logger,
		now:       time.Now,
	}
}

// Publish delivers event to every listener, then to matching subscribers.
func (h *Hub) Publish(event model.SessionEvent) {
	if event.At.IsZero() {
		event.At = h.now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, fn := range h.listeners {
		fn(event)
	}

	for id, sub := range h.subs {
		if sub.userID != uuid.Nil && sub.userID != event.UserID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("Session hub: subscriber is slow, dropping event",
				"subscription", id,
				"user_id", event.UserID,
				"type", event.Type)
		}
	}
}

// OnEvent registers fn to run synchronously for every event and returns a function removing it.
// fn must not call back into the Hub.
func (h *Hub) OnEvent(fn func(model.SessionEvent)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Subscribe streams events for userID, or for every user when userID is uuid.Nil.
// The returned cancel function closes the channel.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan model.SessionEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan model.SessionEvent, h.buffer)
	h.subs[id] = subscriber{userID: userID, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Subscribers reports how many channel subscribers are attached.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Package cache keeps per-user in-memory snapshots of journal data.
//
// A snapshot is a read optimization only. Writes always go to the data store
// first and the affected snapshot is invalidated afterwards.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/mindweave/mindweave-server/internal/logger"
	"github.com/mindweave/mindweave-server/internal/model"
)

// DefaultSize is the number of user snapshots kept when no size is configured.
const DefaultSize = 1024

// loadTimeout bounds a shared load. Loads run detached from any single caller.
const loadTimeout = 30 * time.Second

// ErrStoreUnavailable wraps any failure to load a snapshot from the data store.
var ErrStoreUnavailable = errors.New("journal store is unavailable")

type loadFunc[T any] func(ctx context.Context, userID uuid.UUID) ([]T, error)

type snapshot[T any] struct {
	items    []T
	loadedAt time.Time
}

// pendingLoad is one in-flight load. Invalidation marks it stale so its result is not cached.
type pendingLoad struct {
	key   string
	stale bool
}

// snapshots is the generic per-user cache behind EntryStore and ReflectionStore.
type snapshots[T any] struct {
	name   string
	load   loadFunc[T]
	logger *logger.Logger

	mu      sync.Mutex
	cache   *lru.Cache[uuid.UUID, snapshot[T]]
	lastErr *lru.Cache[uuid.UUID, error]
	pending map[uuid.UUID]*pendingLoad
	seq     uint64

	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration
	observe LoadObserver
}

// LoadObserver is told about every load from the data store.
type LoadObserver func(store string, success bool)

func newSnapshots[T any](name string, size int, load loadFunc[T], logger *logger.Logger) (*snapshots[T], error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[uuid.UUID, snapshot[T]](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cache: %w", name, err)
	}
	errs, err := lru.New[uuid.UUID, error](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s error cache: %w", name, err)
	}
	return &snapshots[T]{
		name:    name,
		load:    load,
		logger:  logger,
		cache:   c,
		lastErr: errs,
		pending: make(map[uuid.UUID]*pendingLoad),
		now:     time.Now,
		timeout: loadTimeout,
	}, nil
}

// get returns a copy of the user's snapshot, loading it when absent.
// Callers share one load; a caller that gives up does not fail the others.
func (s *snapshots[T]) get(ctx context.Context, userID uuid.UUID) ([]T, error) {
	s.mu.Lock()
	if snap, ok := s.cache.Get(userID); ok {
		s.mu.Unlock()
		return clone(snap.items), nil
	}
	p := s.pending[userID]
	if p == nil {
		s.seq++
		p = &pendingLoad{key: fmt.Sprintf("%s:%d", userID, s.seq)}
		s.pending[userID] = p
	}
	s.mu.Unlock()

	ch := s.group.DoChan(p.key, func() (any, error) {
		return s.fill(context.WithoutCancel(ctx), userID, p)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Error("Cache: failed to load snapshot",
				"store", s.name,
				"user_id", userID,
				"error", res.Err.Error())
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, res.Err)
		}
		return clone(res.Val.([]T)), nil
	}
}

func (s *snapshots[T]) fill(ctx context.Context, userID uuid.UUID, p *pendingLoad) ([]T, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	items, err := s.load(ctx, userID)
	if s.observe != nil {
		s.observe(s.name, err == nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[userID] == p {
		delete(s.pending, userID)
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.lastErr.Add(userID, err)
		}
		return nil, err
	}
	s.lastErr.Remove(userID)
	// An invalidation during the load makes this result stale for future readers.
	if !p.stale {
		s.cache.Add(userID, snapshot[T]{items: items, loadedAt: s.now()})
	}
	return items, nil
}

// invalidate discards the user's snapshot and any load already under way.
func (s *snapshots[T]) invalidate(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.pending[userID]; p != nil {
		p.stale = true
		delete(s.pending, userID)
	}
	s.cache.Remove(userID)
}

// refetch discards and reloads the user's snapshot.
func (s *snapshots[T]) refetch(ctx context.Context, userID uuid.UUID) ([]T, error) {
	s.invalidate(userID)
	return s.get(ctx, userID)
}

func (s *snapshots[T]) lastError(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err, _ := s.lastErr.Peek(userID)
	return err
}

func (s *snapshots[T]) loadedAt(userID uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.cache.Peek(userID)
	return snap.loadedAt, ok
}

func (s *snapshots[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// listen drops a user's snapshot on every session event for that user.
func (s *snapshots[T]) listen(hub EventSource) func() {
	return hub.OnEvent(func(ev model.SessionEvent) {
		s.invalidate(ev.UserID)
	})
}

// EventSource is implemented by session.Hub.
type EventSource interface {
	OnEvent(fn func(model.SessionEvent)) (cancel func())
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

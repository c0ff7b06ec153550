package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave-server/internal/mocks"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/session"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

func entry(userID uuid.UUID, content string, mood model.Mood) model.Entry {
	return model.Entry{ID: uuid.New(), UserID: userID, Content: content, Mood: mood, CreatedAt: time.Now()}
}

func TestEntryStore_LoadsOnceAndServesCopies(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	rows := []model.Entry{entry(userID, "first", model.MoodHappy)}
	repo.On("ListByUser", mock.Anything, userID).Return(rows, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	got, err := store.Entries(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	got[0].Content = "mutated"

	again, err := store.Entries(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "first", again[0].Content)

	_, ok := store.LoadedAt(userID)
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestEntryStore_DropsInvalidRows(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	rows := []model.Entry{
		entry(userID, "valid", model.MoodSad),
		entry(userID, "   ", model.MoodHappy),
		entry(userID, "odd mood", model.Mood("ecstatic")),
	}
	repo.On("ListByUser", mock.Anything, userID).Return(rows, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	got, err := store.Entries(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "valid", got[0].Content)
}

func TestEntryStore_InvalidateAndRefetch(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	first := []model.Entry{entry(userID, "one", model.MoodNeutral)}
	second := append([]model.Entry{entry(userID, "two", model.MoodHappy)}, first...)

	repo.On("ListByUser", mock.Anything, userID).Return(first, nil).Once()
	repo.On("ListByUser", mock.Anything, userID).Return(second, nil).Once()
	repo.On("ListByUser", mock.Anything, userID).Return(second, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)
	ctx := context.Background()

	got, err := store.Entries(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	store.Invalidate(userID)
	got, err = store.Entries(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.Refetch(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEntryStore_LoadErrorIsRecorded(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	boom := errors.New("connection refused")
	repo.On("ListByUser", mock.Anything, userID).Return(nil, boom).Once()
	repo.On("ListByUser", mock.Anything, userID).Return([]model.Entry{}, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	_, err = store.Entries(context.Background(), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.LastError(userID), boom)
	assert.Zero(t, store.Len())

	got, err := store.Entries(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, store.LastError(userID))
}

func TestEntryStore_ConcurrentLoadsShareOneQuery(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	release := make(chan struct{})
	var calls atomic.Int32
	repo.On("ListByUser", mock.Anything, userID).
		Run(func(mock.Arguments) {
			calls.Add(1)
			<-release
		}).
		Return([]model.Entry{entry(userID, "shared", model.MoodHappy)}, nil).
		Maybe()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Entries(context.Background(), userID)
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestEntryStore_InvalidationDuringLoadIsNotCached(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	loading := make(chan struct{})
	release := make(chan struct{})
	stale := []model.Entry{entry(userID, "stale", model.MoodSad)}
	fresh := []model.Entry{entry(userID, "fresh", model.MoodHappy)}

	repo.On("ListByUser", mock.Anything, userID).
		Run(func(mock.Arguments) {
			close(loading)
			<-release
		}).
		Return(stale, nil).Once()
	repo.On("ListByUser", mock.Anything, userID).Return(fresh, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Entries(context.Background(), userID)
	}()

	<-loading
	store.Invalidate(userID)
	close(release)
	<-done

	got, err := store.Entries(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Content)
}

func TestEntryStore_SessionEventsInvalidate(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	hub := session.NewHub(testutil.MakeNoopLogger(), 1)
	alice, bob := uuid.New(), uuid.New()

	repo.On("ListByUser", mock.Anything, alice).Return([]model.Entry{}, nil).Twice()
	repo.On("ListByUser", mock.Anything, bob).Return([]model.Entry{}, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)
	cancel := store.Listen(hub)
	defer cancel()

	ctx := context.Background()
	_, err = store.Entries(ctx, alice)
	require.NoError(t, err)
	_, err = store.Entries(ctx, bob)
	require.NoError(t, err)

	hub.Publish(model.SessionEvent{Type: model.SessionSignedOut, UserID: alice})

	_, ok := store.LoadedAt(alice)
	assert.False(t, ok)
	_, ok = store.LoadedAt(bob)
	assert.True(t, ok)

	_, err = store.Entries(ctx, alice)
	require.NoError(t, err)
}

func TestEntryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	repo.On("ListByUser", mock.Anything, mock.Anything).Return([]model.Entry{}, nil)

	store, err := NewEntryStore(repo, 2, testutil.MakeNoopLogger())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.Entries(context.Background(), uuid.New())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, store.Len())
}

func TestEntryStore_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	loading := make(chan struct{})
	release := make(chan struct{})
	rows := []model.Entry{entry(userID, "kept", model.MoodNeutral)}

	var loadCtxErr error
	repo.On("ListByUser", mock.Anything, userID).
		Run(func(args mock.Arguments) {
			close(loading)
			<-release
			loadCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return(rows, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := store.Entries(ctx, userID)
		firstErr <- err
	}()

	<-loading
	second := make(chan []model.Entry, 1)
	go func() {
		got, _ := store.Entries(context.Background(), userID)
		second <- got
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Content)
	assert.NoError(t, loadCtxErr)
	assert.NoError(t, store.LastError(userID))
	assert.Equal(t, 1, store.Len())
}

func TestEntryStore_EvictionBoundsBookkeeping(t *testing.T) {
	t.Parallel()

	failing := make(map[uuid.UUID]bool)
	for i := 0; i < 5; i++ {
		failing[uuid.New()] = true
	}

	repo := mocks.NewEntryStore(t)
	repo.On("ListByUser", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool { return failing[id] })).
		Return(nil, errors.New("down"))
	repo.On("ListByUser", mock.Anything, mock.Anything).Return([]model.Entry{}, nil)

	store, err := NewEntryStore(repo, 2, testutil.MakeNoopLogger())
	require.NoError(t, err)

	for userID := range failing {
		_, err := store.Entries(context.Background(), userID)
		require.Error(t, err)
	}
	for i := 0; i < 10; i++ {
		_, err := store.Entries(context.Background(), uuid.New())
		require.NoError(t, err)
		store.Invalidate(uuid.New())
	}

	snaps := store.snaps
	snaps.mu.Lock()
	pending, failures := len(snaps.pending), snaps.lastErr.Len()
	snaps.mu.Unlock()

	assert.Zero(t, pending)
	assert.Equal(t, 2, failures)
	assert.Equal(t, 2, store.Len())
}

func TestReflectionStore_Load(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	entryID := uuid.New()

	tests := []struct {
		name      string
		rows      []model.Reflection
		wantLen   int
		wantEntry bool
	}{
		{
			name: "joined reflection kept",
			rows: []model.Reflection{{
				ID: uuid.New(), UserID: userID, EntryID: &entryID, Content: "Keep going.",
				Type:  model.ReflectionTypeJournal,
				Entry: &model.EntrySummary{ID: entryID, Content: "walk", Mood: model.MoodHappy},
			}},
			wantLen:   1,
			wantEntry: true,
		},
		{
			name:    "empty reflection dropped",
			rows:    []model.Reflection{{ID: uuid.New(), UserID: userID, Content: "  "}},
			wantLen: 0,
		},
		{
			name: "unknown joined mood detaches entry",
			rows: []model.Reflection{{
				ID: uuid.New(), UserID: userID, Content: "Noted.",
				Entry: &model.EntrySummary{ID: entryID, Mood: model.Mood("??")},
			}},
			wantLen:   1,
			wantEntry: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := mocks.NewReflectionStore(t)
			repo.On("ListByUser", mock.Anything, userID).Return(tt.rows, nil).Once()

			store, err := NewReflectionStore(repo, 0, testutil.MakeNoopLogger())
			require.NoError(t, err)

			got, err := store.Reflections(context.Background(), userID)
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantEntry, got[0].Entry != nil)
			}
		})
	}
}

func TestReflectionStore_RefetchAfterFailure(t *testing.T) {
	t.Parallel()

	repo := mocks.NewReflectionStore(t)
	userID := uuid.New()
	repo.On("ListByUser", mock.Anything, userID).Return(nil, errors.New("timeout")).Once()
	repo.On("ListByUser", mock.Anything, userID).
		Return([]model.Reflection{{ID: uuid.New(), UserID: userID, Content: "ok"}}, nil).Once()

	store, err := NewReflectionStore(repo, 4, testutil.MakeNoopLogger())
	require.NoError(t, err)

	_, err = store.Reflections(context.Background(), userID)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.Error(t, store.LastError(userID))

	got, err := store.Refetch(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, store.LastError(userID))
}

func TestEntryStore_Observe(t *testing.T) {
	t.Parallel()

	repo := mocks.NewEntryStore(t)
	userID := uuid.New()
	repo.On("ListByUser", mock.Anything, userID).Return(nil, errors.New("down")).Once()
	repo.On("ListByUser", mock.Anything, userID).Return([]model.Entry{}, nil).Once()

	store, err := NewEntryStore(repo, 8, testutil.MakeNoopLogger())
	require.NoError(t, err)

	var outcomes []bool
	store.Observe(func(name string, ok bool) {
		assert.Equal(t, "entries", name)
		outcomes = append(outcomes, ok)
	})

	_, _ = store.Entries(context.Background(), userID)
	_, _ = store.Entries(context.Background(), userID)
	assert.Equal(t, []bool{false, true}, outcomes)
}

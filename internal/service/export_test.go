package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave-server/internal/mocks"
	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/testutil"
)

type stubJournal struct {
	entries     []model.Entry
	reflections []model.Reflection
}

func (s stubJournal) Entries(context.Context, uuid.UUID) ([]model.Entry, error) {
	return s.entries, nil
}

func (s stubJournal) Reflections(context.Context, uuid.UUID) ([]model.Reflection, error) {
	return s.reflections, nil
}

func newExport(t *testing.T, status model.SubscriptionStatus, journal stubJournal) (*Export, *mocks.UserStore, *mocks.Storage) {
	subs := mocks.NewSubscriptionStore(t)
	subs.On("GetByUserID", mock.Anything, mock.Anything).Return(model.Subscription{Status: status}, nil).Maybe()
	users := mocks.NewUserStore(t)
	storage := mocks.NewStorage(t)
	log := testutil.MakeNoopLogger()

	e := NewExport(journal, users, NewSubscription(subs, nil, log), storage, log)
	e.now = func() time.Time { return time.Date(2024, time.July, 4, 8, 30, 0, 0, time.UTC) }
	return e, users, storage
}

func TestExport_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	entryID := uuid.New()
	journal := stubJournal{
		entries:     []model.Entry{{ID: entryID, UserID: userID, Content: "sunny", Mood: model.MoodHappy}},
		reflections: []model.Reflection{{ID: uuid.New(), EntryID: &entryID, Content: "bright", Type: model.ReflectionTypeJournal}},
	}
	e, users, storage := newExport(t, model.SubscriptionActive, journal)

	users.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID, Email: "sam@example.com"}, nil).Once()

	var uploaded []byte
	key := "users/" + userID.String() + "/exports/20240704T083000Z.json"
	storage.On("Upload", mock.Anything, key, mock.Anything, mock.Anything, "application/json").
		Run(func(args mock.Arguments) {
			b, err := io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
			assert.Equal(t, int64(len(b)), args.Get(3).(int64))
			uploaded = b
		}).
		Return(nil).Once()

	name, err := e.Create(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "20240704T083000Z.json", name)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, "sam", doc.User.DisplayName)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, model.MoodHappy, doc.Entries[0].Mood)
	require.Len(t, doc.Reflections, 1)
	assert.Equal(t, &entryID, doc.Reflections[0].EntryID)
}

func TestExport_CreateRequiresPremium(t *testing.T) {
	t.Parallel()

	e, _, _ := newExport(t, model.SubscriptionCanceled, stubJournal{})
	_, err := e.Create(context.Background(), uuid.New())
	require.ErrorIs(t, err, model.ErrPremiumRequired)
}

func TestExport_ListOpenDelete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	prefix := "users/" + userID.String() + "/exports/"
	e, _, storage := newExport(t, model.SubscriptionActive, stubJournal{})
	ctx := context.Background()

	storage.On("List", mock.Anything, prefix).Return([]string{prefix + "20240101T000000Z.json", prefix + "20240301T000000Z.json"}, nil).Once()
	names, err := e.List(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240301T000000Z.json", "20240101T000000Z.json"}, names)

	storage.On("Download", mock.Anything, prefix+"20240301T000000Z.json").
		Return(io.NopCloser(bytes.NewReader([]byte("{}"))), nil).Once()
	rc, err := e.Open(ctx, userID, "20240301T000000Z.json")
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	for _, bad := range []string{"", "../other/exports/x.json", "a/b.json", "notes.txt"} {
		_, err := e.Open(ctx, userID, bad)
		assert.ErrorIs(t, err, model.ErrNotFound, bad)
	}

	storage.On("Exists", mock.Anything, prefix+"gone.json").Return(false, nil).Once()
	require.ErrorIs(t, e.Delete(ctx, userID, "gone.json"), model.ErrNotFound)

	storage.On("Exists", mock.Anything, prefix+"20240101T000000Z.json").Return(true, nil).Once()
	storage.On("Delete", mock.Anything, prefix+"20240101T000000Z.json").Return(nil).Once()
	require.NoError(t, e.Delete(ctx, userID, "20240101T000000Z.json"))
}

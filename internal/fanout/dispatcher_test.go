package fanout_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vectorchat/internal/embedding"
	"vectorchat/internal/fanout"
	"vectorchat/internal/model"
	"vectorchat/internal/store"
	mock_store "vectorchat/internal/store/mocks"
)

func drain(t *testing.T, d *fanout.Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Drain(ctx))
}

func TestDispatcher_Record(t *testing.T) {
	records := mock_store.NewMockRecordStore(t)
	index := mock_store.NewMockVectorIndex(t)
	embedder := embedding.New(32)
	dispatcher := fanout.NewDispatcher(records, index, embedder, time.Second)

	user := model.NewMessage(model.RoleUser, "Hello", nil)
	assistant := model.NewMessage(model.RoleAssistant, "Hi there", nil)

	records.On("PutTurn", mock.Anything, "session-1", model.Turn{UserMessage: user, AssistantMessage: assistant}).
		Return(nil).Once()
	index.On("Insert", mock.Anything, mock.MatchedBy(func(recs []store.VectorRecord) bool {
		if len(recs) != 2 {
			return false
		}
		return recs[0].ID == user.ID && recs[1].ID == assistant.ID &&
			recs[0].Metadata.SessionID == "session-1" &&
			recs[0].Metadata.Role == model.RoleUser &&
			len(recs[0].Values) == 32
	})).Return(nil).Once()

	dispatcher.Record("session-1", user, assistant)
	drain(t, dispatcher)
}

func TestDispatcher_RecordFailureDoesNotBlockIndexing(t *testing.T) {
	records := mock_store.NewMockRecordStore(t)
	index := mock_store.NewMockVectorIndex(t)
	dispatcher := fanout.NewDispatcher(records, index, embedding.New(8), time.Second)

	user := model.NewMessage(model.RoleUser, "Hello", nil)
	assistant := model.NewMessage(model.RoleAssistant, "Hi", nil)

	records.On("PutTurn", mock.Anything, "session-1", mock.Anything).
		Return(errors.New("redis down")).Once()
	// The record write failing must not prevent the index attempt.
	index.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	dispatcher.Record("session-1", user, assistant)
	drain(t, dispatcher)
}

func TestDispatcher_IndexFailureIsSwallowed(t *testing.T) {
	records := mock_store.NewMockRecordStore(t)
	index := mock_store.NewMockVectorIndex(t)
	dispatcher := fanout.NewDispatcher(records, index, embedding.New(8), time.Second)

	records.On("PutTurn", mock.Anything, "session-1", mock.Anything).Return(nil).Once()
	index.On("Insert", mock.Anything, mock.Anything).Return(errors.New("index down")).Once()

	dispatcher.Record("session-1",
		model.NewMessage(model.RoleUser, "Hello", nil),
		model.NewMessage(model.RoleAssistant, "Hi", nil))
	drain(t, dispatcher)
}

func TestDispatcher_SkipsEmptyContent(t *testing.T) {
	records := mock_store.NewMockRecordStore(t)
	index := mock_store.NewMockVectorIndex(t)
	dispatcher := fanout.NewDispatcher(records, index, embedding.New(8), time.Second)

	user := model.NewMessage(model.RoleUser, "Hello", nil)
	assistant := model.NewMessage(model.RoleAssistant, "", nil)

	records.On("PutTurn", mock.Anything, "session-1", mock.Anything).Return(nil).Once()
	index.On("Insert", mock.Anything, mock.MatchedBy(func(recs []store.VectorRecord) bool {
		return len(recs) == 1 && recs[0].ID == user.ID
	})).Return(nil).Once()

	dispatcher.Record("session-1", user, assistant)
	drain(t, dispatcher)
}

func TestDispatcher_TruncatesMetadataContent(t *testing.T) {
	records := mock_store.NewMockRecordStore(t)
	index := mock_store.NewMockVectorIndex(t)
	dispatcher := fanout.NewDispatcher(records, index, embedding.New(8), time.Second)

	long := strings.Repeat("x", 2000)
	user := model.NewMessage(model.RoleUser, long, nil)
	assistant := model.NewMessage(model.RoleAssistant, "short", nil)

	records.On("PutTurn", mock.Anything, "session-1", mock.Anything).Return(nil).Once()
	index.On("Insert", mock.Anything, mock.MatchedBy(func(recs []store.VectorRecord) bool {
		return len(recs[0].Metadata.Content) == 500 && recs[1].Metadata.Content == "short"
	})).Return(nil).Once()

	dispatcher.Record("session-1", user, assistant)
	drain(t, dispatcher)
}

func TestDispatcher_DrainWithNothingScheduled(t *testing.T) {
	dispatcher := fanout.NewDispatcher(nil, nil, nil, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.NoError(t, dispatcher.Drain(ctx))
}

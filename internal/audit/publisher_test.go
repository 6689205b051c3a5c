package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSyncPersistsEvent(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	err := publisher.Emit(context.Background(), Event{
		Action:   ActionRecordAdded,
		RecordID: 0,
		Subject:  "alice",
	})
	require.NoError(t, err)

	events, err := store.ListByRecord(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionRecordAdded, events[0].Action)
	assert.Equal(t, "alice", events[0].Subject)
	assert.False(t, events[0].Timestamp.IsZero(), "Emit should stamp events")
}

func TestEmitAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store, WithAsyncBuffer(16))

	for i := 0; i < 10; i++ {
		require.NoError(t, publisher.Emit(context.Background(), Event{
			Action:   ActionRecordVerified,
			RecordID: 7,
			Subject:  "acme-hr",
		}))
	}
	publisher.Close()

	events, err := store.ListByRecord(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, events, 10)
}

func TestEmitAsyncDropsWhenBufferFull(t *testing.T) {
	dropped := 0
	// blockingStore never returns, so the worker stays busy and the buffer fills.
	blocked := make(chan struct{})
	store := &blockingStore{release: blocked}
	publisher := NewPublisher(store,
		WithAsyncBuffer(1),
		WithDropHook(func() { dropped++ }),
	)
	defer func() {
		close(blocked)
		publisher.Close()
	}()

	// First event occupies the worker, second fills the buffer, the rest drop.
	for i := 0; i < 5; i++ {
		require.NoError(t, publisher.Emit(context.Background(), Event{RecordID: 1}))
		time.Sleep(5 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, dropped, 1)
}

type blockingStore struct {
	release chan struct{}
}

func (s *blockingStore) Append(_ context.Context, _ Event) error {
	<-s.release
	return nil
}

func (s *blockingStore) ListByRecord(_ context.Context, _ uint64) ([]Event, error) {
	return nil, nil
}

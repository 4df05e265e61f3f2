package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	id "clubdir/pkg/domain"
	audit "clubdir/pkg/platform/audit"
	"clubdir/pkg/platform/audit/store/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	principal := id.PrincipalID(uuid.New())
	event := audit.Event{
		Principal: principal,
		Action:    string(audit.EventAccessAllowed),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventAccessAllowed), events[0].Action)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	principal := id.PrincipalID(uuid.New())
	event := audit.Event{
		Principal: principal,
		Action:    string(audit.EventAccessDenied),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	// Wait for async processing
	time.Sleep(100 * time.Millisecond)

	events, err := pub.List(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventAccessDenied), events[0].Action)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	principal := id.PrincipalID(uuid.New())

	// Emit multiple events
	for range 10 {
		event := audit.Event{
			Principal: principal,
			Action:    string(audit.EventAccessAllowed),
		}
		err := pub.Emit(context.Background(), event)
		require.NoError(t, err)
	}

	// Close should drain all events
	pub.Close()

	events, err := store.ListByPrincipal(context.Background(), principal)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	principal := id.PrincipalID(uuid.New())

	// Fill the buffer with concurrent writes
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			event := audit.Event{
				Principal: principal,
				Action:    string(audit.EventAccessAllowed),
			}
			_ = pub.Emit(context.Background(), event)
		}()
	}
	wg.Wait()

	// Some events may have been dropped (buffer size 1)
	// Just verify no panic and publisher still works
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	principal := id.PrincipalID(uuid.New())
	event := audit.Event{
		Principal: principal,
		Action:    string(audit.EventAccessAllowed),
		// Timestamp not set
	}

	before := time.Now()
	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)
	after := time.Now()

	events, err := pub.List(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.True(t, !events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.True(t, !events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	principal := id.PrincipalID(uuid.New())
	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	event := audit.Event{
		Principal: principal,
		Action:    string(audit.EventAccessAllowed),
		Timestamp: customTime,
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_MultipleEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	principal := id.PrincipalID(uuid.New())

	events := []audit.Event{
		{Principal: principal, Action: string(audit.EventAccessAllowed)},
		{Principal: principal, Action: string(audit.EventListCompiled)},
		{Principal: principal, Action: string(audit.EventDeleteBlocked)},
	}

	for _, event := range events {
		err := pub.Emit(context.Background(), event)
		require.NoError(t, err)
	}

	result, err := pub.List(context.Background(), principal)
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, string(audit.EventAccessAllowed), result[0].Action)
	assert.Equal(t, string(audit.EventListCompiled), result[1].Action)
	assert.Equal(t, string(audit.EventDeleteBlocked), result[2].Action)
}

func TestPublisher_DifferentPrincipals(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	principal1 := id.PrincipalID(uuid.New())
	principal2 := id.PrincipalID(uuid.New())

	err := pub.Emit(context.Background(), audit.Event{
		Principal: principal1,
		Action:    string(audit.EventAccessAllowed),
	})
	require.NoError(t, err)

	err = pub.Emit(context.Background(), audit.Event{
		Principal: principal2,
		Action:    string(audit.EventAccessDenied),
	})
	require.NoError(t, err)

	events1, err := pub.List(context.Background(), principal1)
	require.NoError(t, err)
	require.Len(t, events1, 1)
	assert.Equal(t, string(audit.EventAccessAllowed), events1[0].Action)

	events2, err := pub.List(context.Background(), principal2)
	require.NoError(t, err)
	require.Len(t, events2, 1)
	assert.Equal(t, string(audit.EventAccessDenied), events2[0].Action)
}

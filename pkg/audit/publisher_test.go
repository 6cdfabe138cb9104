package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherSyncMode(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), Event{
		FirmID: "firm-001",
		Action: string(EventVerificationCompleted),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "firm-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(EventVerificationCompleted), events[0].Action)
	assert.Equal(t, CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for i := 0; i < 10; i++ {
		err := pub.Emit(context.Background(), Event{
			FirmID: "firm-001",
			Action: string(EventSnapshotSaved),
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListByFirm(context.Background(), "firm-001")
	require.NoError(t, err)
	assert.Len(t, events, 10)
}

func TestPublisherFullBufferFallsBackToSync(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	for i := 0; i < 50; i++ {
		require.NoError(t, pub.Emit(context.Background(), Event{
			FirmID: "firm-001",
			Action: string(EventEvidenceAppended),
		}))
	}

	pub.Close()
	assert.Eventually(t, func() bool {
		events, err := store.ListByFirm(context.Background(), "firm-001")
		return err == nil && len(events) == 50
	}, time.Second, 10*time.Millisecond)
}

func TestPublisherEmitDuringCloseStaysSafe(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(4))

	const emitters = 8
	const perEmitter = 25

	var wg sync.WaitGroup
	for i := 0; i < emitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perEmitter; j++ {
				require.NoError(t, pub.Emit(context.Background(), Event{
					FirmID: "firm-001",
					Action: string(EventEvidenceAppended),
				}))
			}
		}()
	}

	pub.Close()
	wg.Wait()

	events, err := store.ListByFirm(context.Background(), "firm-001")
	require.NoError(t, err)
	assert.Len(t, events, emitters*perEmitter)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryCompliance, CategoryOf(EventSanctionsHit))
	assert.Equal(t, CategorySecurity, CategoryOf(EventAdminLoginFailed))
	assert.Equal(t, CategoryOperations, CategoryOf(AuditEvent("unmapped")))
}

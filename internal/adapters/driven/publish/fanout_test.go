package publish

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// recordingSink collects published results.
type recordingSink struct {
	mu      sync.Mutex
	results []domain.SyncResult
}

func (s *recordingSink) Publish(result domain.SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func TestPublishReachesAllSinks(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	fanout := NewFanout(a)
	fanout.Attach(b)

	fanout.Publish(domain.SyncResult{CardID: "card-1", Status: domain.SyncSuccess})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestAwaitReceivesOwnResult(t *testing.T) {
	fanout := NewFanout()

	ch, cancel := fanout.Await("card-1")
	defer cancel()

	fanout.Publish(domain.SyncResult{CardID: "card-2", Status: domain.SyncError})
	fanout.Publish(domain.SyncResult{CardID: "card-1", Status: domain.SyncSuccess, EventID: "evt-1"})

	select {
	case result := <-ch:
		assert.Equal(t, "card-1", result.CardID)
		assert.Equal(t, "evt-1", result.EventID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for result")
	}
}

func TestAwaitIsOneShot(t *testing.T) {
	fanout := NewFanout()

	ch, cancel := fanout.Await("card-1")
	defer cancel()

	fanout.Publish(domain.SyncResult{CardID: "card-1", Status: domain.SyncSuccess})
	<-ch

	// A second result for the same card goes only to new waiters
	fanout.Publish(domain.SyncResult{CardID: "card-1", Status: domain.SyncError})
	select {
	case _, ok := <-ch:
		require.False(t, ok, "channel must not deliver a second result")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelReleasesWaiter(t *testing.T) {
	fanout := NewFanout()

	_, cancel := fanout.Await("card-1")
	cancel()

	// Publishing after cancellation must not block
	done := make(chan struct{})
	go func() {
		fanout.Publish(domain.SyncResult{CardID: "card-1", Status: domain.SyncSuccess})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on cancelled waiter")
	}
}

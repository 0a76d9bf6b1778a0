// Package publish provides a fan-out result publisher. The coordinator
// publishes each result once; the fan-out forwards it to every attached
// sink (websocket hub, log notifier) and resolves any one-shot waiter
// registered for that card id, which is how one-shot surfaces such as the
// CLI wait for their own outcome.
package publish

import (
	"sync"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Ensure Fanout implements the interface.
var _ driven.ResultPublisher = (*Fanout)(nil)

// Fanout forwards each published result to all attached publishers and
// resolves pending waiters.
type Fanout struct {
	mu      sync.Mutex
	sinks   []driven.ResultPublisher
	waiters map[string][]chan domain.SyncResult
}

// NewFanout creates a fan-out over the given sinks.
func NewFanout(sinks ...driven.ResultPublisher) *Fanout {
	return &Fanout{
		sinks:   sinks,
		waiters: make(map[string][]chan domain.SyncResult),
	}
}

// Attach adds a sink. Not safe to call concurrently with Publish.
func (f *Fanout) Attach(sink driven.ResultPublisher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, sink)
}

// Publish broadcasts one result.
func (f *Fanout) Publish(result domain.SyncResult) {
	f.mu.Lock()
	sinks := make([]driven.ResultPublisher, len(f.sinks))
	copy(sinks, f.sinks)
	waiters := f.waiters[result.CardID]
	delete(f.waiters, result.CardID)
	f.mu.Unlock()

	for _, sink := range sinks {
		sink.Publish(result)
	}
	for _, ch := range waiters {
		ch <- result
	}
}

// Await registers a one-shot waiter for the given card id. The returned
// channel receives the card's next result, then nothing further. Cancel
// releases the registration if the caller gives up first.
func (f *Fanout) Await(cardID string) (<-chan domain.SyncResult, func()) {
	ch := make(chan domain.SyncResult, 1)

	f.mu.Lock()
	f.waiters[cardID] = append(f.waiters[cardID], ch)
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		pending := f.waiters[cardID]
		for i, c := range pending {
			if c == ch {
				f.waiters[cardID] = append(pending[:i], pending[i+1:]...)
				break
			}
		}
		if len(f.waiters[cardID]) == 0 {
			delete(f.waiters, cardID)
		}
	}

	return ch, cancel
}

package services

import (
	"sync"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// requestQueue holds sync requests that arrive while a consent flow is in
// flight. Ordering is FIFO; requests for the same card are not deduplicated,
// so two submissions during one pending window produce two dispatches.
//
// The queue also tracks whether a drainer is running, so that exactly one
// goroutine drains each pending window: Add reports when the caller should
// start one, and Next clears the flag atomically with observing emptiness,
// leaving no gap where a request could be enqueued with nobody draining.
type requestQueue struct {
	mu       sync.Mutex
	items    []domain.SyncRequest
	draining bool
}

// Add appends a request. The return value is true when no drainer is
// running; the caller must then start one.
func (q *requestQueue) Add(req domain.SyncRequest) (startDrain bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, req)
	if q.draining {
		return false
	}
	q.draining = true
	return true
}

// Next pops the oldest request. When the queue is empty it marks the drainer
// as finished and returns false; the drainer must exit without touching the
// queue again.
func (q *requestQueue) Next() (domain.SyncRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		q.draining = false
		return domain.SyncRequest{}, false
	}
	req := q.items[0]
	q.items = q.items[1:]
	return req, true
}

// Len reports the number of queued requests.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

package driven

import "github.com/custodia-labs/calbridge/internal/core/domain"

// ResultPublisher broadcasts correlated sync results to whichever UI
// contexts are currently listening. Delivery is best-effort: a UI that has
// been torn down simply misses the result, and Publish never blocks the
// coordinator on a slow consumer.
type ResultPublisher interface {
	// Publish broadcasts one result.
	Publish(result domain.SyncResult)
}

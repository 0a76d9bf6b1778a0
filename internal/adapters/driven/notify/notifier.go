// Package notify logs terminal sync outcomes for the user. It stands in for
// a desktop notification surface: every broadcast result also lands in the
// process log, so a headless run still shows what happened to each card.
package notify

import (
	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Ensure LogPublisher implements the interface.
var _ driven.ResultPublisher = (*LogPublisher)(nil)

// LogPublisher writes each sync result to the process log.
type LogPublisher struct{}

// NewLogPublisher creates a logging result sink.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs one result.
func (p *LogPublisher) Publish(result domain.SyncResult) {
	if result.Status == domain.SyncSuccess {
		logger.Info("sync: card %s done, event %s", result.CardID, result.EventID)
		return
	}
	logger.Warn("sync: card %s failed: %s", result.CardID, result.Message)
}

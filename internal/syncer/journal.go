package syncer

import (
	"context"
	"time"
)

const TriggerBootstrap = "bootstrap"

// PassReport summarizes one reconciliation pass.
type PassReport struct {
	StartedAt time.Time
	Trigger   string
	Network   string
	Records   int
	Changed   bool
	Duration  time.Duration
	// Err is the failure message, empty on success.
	Err string
}

// Journal persists pass reports. Production: adapter/sqlite.Journal
type Journal interface {
	RecordPass(ctx context.Context, report PassReport) error
}

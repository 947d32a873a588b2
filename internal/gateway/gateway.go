package gateway

import (
	"context"

	"github.com/rahul/webo/internal/agent"
	"github.com/rahul/webo/internal/store"
)

// JobStore is the subset of the job store the gateway reads and writes.
type JobStore interface {
	Create(jobID string, query string) (store.JobState, error)
	Get(jobID string) (store.JobState, error)
}

// Launcher schedules a pending job's pipeline for background execution.
// The submission path never blocks on pipeline completion.
type Launcher interface {
	Launch(jobID string) error
}

// Subscriber provides the live snapshot feed backing the stream endpoint.
type Subscriber interface {
	Watch(ctx context.Context, jobID string) <-chan agent.WatchEvent
}

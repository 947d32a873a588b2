package agent

import (
	"context"
	"sync"
)

// Runner executes job pipelines in the background, detached from the request
// that submitted them. Its context scopes the lifetime of every launched
// job, not of any single request.
type Runner struct {
	Orch *Orchestrator

	ctx context.Context
	wg  sync.WaitGroup
}

func NewRunner(ctx context.Context, orch *Orchestrator) *Runner {
	return &Runner{
		Orch: orch,
		ctx:  ctx,
	}
}

// Launch starts the pipeline for jobID and drains its snapshot sequence so
// the orchestrator is never blocked by absent readers. Progress reaches
// readers through the persisted snapshots, not through this drain.
func (r *Runner) Launch(jobID string) error {
	ch, err := r.Orch.Start(r.ctx, jobID)
	if err != nil {
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for range ch {
		}
	}()
	return nil
}

// Wait blocks until every launched job has reached a terminal state.
func (r *Runner) Wait() {
	r.wg.Wait()
}

package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rahul/webo/internal/observability"
	"github.com/rahul/webo/internal/store"
	"github.com/rahul/webo/internal/tools"
)

// JobStore is the persistence surface the orchestrator needs.
type JobStore interface {
	Get(jobID string) (store.JobState, error)
	Save(state store.JobState) error
}

// Decomposer splits a research query into ordered, searchable sub-queries.
// Order is significant: it fixes the execution order of the search stage.
type Decomposer interface {
	Decompose(ctx context.Context, query string) ([]string, error)
}

// Synthesizer produces the final answer from the gathered evidence. It calls
// onChunk for every text increment (at least once) and returns the complete
// answer; the concatenation of chunks equals the returned answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, evidence []string, onChunk func(chunk string) error) (string, error)
}

// ErrNotPending is returned by Start when the job has already been run.
var ErrNotPending = errors.New("job is not in PENDING state")

const searchToolName = "web_search"

// Orchestrator drives one job through the pipeline:
// decompose -> search each sub-query in order -> synthesize.
// The full job snapshot is persisted after every state-affecting mutation,
// so out-of-process readers are never more than one mutation stale.
type Orchestrator struct {
	Store       JobStore
	Decomposer  Decomposer
	Synthesizer Synthesizer
	Tools       *tools.Registry
	Logger      *observability.Logger
}

func NewOrchestrator(jobs JobStore, dec Decomposer, syn Synthesizer, registry *tools.Registry, logger *observability.Logger) *Orchestrator {
	return &Orchestrator{
		Store:       jobs,
		Decomposer:  dec,
		Synthesizer: syn,
		Tools:       registry,
		Logger:      logger,
	}
}

// Start launches the job's pipeline on its own goroutine and returns a
// finite sequence of snapshots, one per persisted mutation. The channel is
// closed after the terminal snapshot; the caller must drain it.
//
// Re-running a job that is not PENDING is rejected with ErrNotPending, so a
// terminal job is never mutated again. Retries need a fresh job ID.
func (o *Orchestrator) Start(ctx context.Context, jobID string) (<-chan store.JobState, error) {
	st, err := o.Store.Get(jobID)
	if err != nil {
		return nil, err
	}
	if st.Status != store.StatusPending {
		return nil, fmt.Errorf("%w: job %s is %s", ErrNotPending, jobID, st.Status)
	}

	out := make(chan store.JobState, 16)
	go o.run(ctx, st, out)
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, st store.JobState, out chan<- store.JobState) {
	defer close(out)

	observability.JobStarted()
	defer observability.JobFinished()

	// A stage collaborator must never crash the worker. Panics become a
	// persisted FAILED state like any other pipeline error.
	defer func() {
		if r := recover(); r != nil {
			o.fail(&st, fmt.Sprintf("internal error: %v", r), out)
		}
	}()

	if err := o.pipeline(ctx, &st, out); err != nil {
		o.fail(&st, err.Error(), out)
	}
}

// persist writes the full snapshot and emits a copy to in-process readers.
func (o *Orchestrator) persist(st *store.JobState, out chan<- store.JobState) error {
	if err := o.Store.Save(*st); err != nil {
		return err
	}
	out <- st.Clone()
	return nil
}

// fail makes a best-effort attempt to persist the FAILED state. If even that
// write fails there is no caller left to notify, so the error is swallowed;
// partial progress already persisted is kept, not rolled back.
func (o *Orchestrator) fail(st *store.JobState, msg string, out chan<- store.JobState) {
	if st.Status.Terminal() {
		return
	}
	st.Status = store.StatusFailed
	st.Error = msg
	o.Logger.LogError(st.JobID, msg)
	o.Logger.LogStage(st.JobID, string(st.Status))
	if err := o.Store.Save(*st); err == nil {
		out <- st.Clone()
	}
}

func (o *Orchestrator) pipeline(ctx context.Context, st *store.JobState, out chan<- store.JobState) error {
	st.Status = store.StatusDecomposing
	o.Logger.LogStage(st.JobID, string(st.Status))
	if err := o.persist(st, out); err != nil {
		return err
	}

	queries, err := o.Decomposer.Decompose(ctx, st.OriginalQuery)
	if err != nil || len(queries) == 0 {
		// Degrade to a single full-text search rather than failing the job.
		if err != nil {
			o.Logger.LogError(st.JobID, fmt.Sprintf("decomposition failed, falling back to original query: %v", err))
		}
		queries = []string{st.OriginalQuery}
	}
	st.SubQueries = queries
	if err := o.persist(st, out); err != nil {
		return err
	}

	st.Status = store.StatusWorking
	o.Logger.LogStage(st.JobID, string(st.Status))
	if err := o.persist(st, out); err != nil {
		return err
	}

	for _, query := range st.SubQueries {
		step := store.Step{
			Thought: fmt.Sprintf("Executing planned search: %s", query),
			Action:  store.Action{Tool: searchToolName, Input: query},
		}
		o.Logger.LogToolCall(st.JobID, step.Action.Tool, query)

		var results []tools.Source
		failed := false
		if tool := o.Tools.Get(step.Action.Tool); tool == nil {
			step.Observation = fmt.Sprintf("Error: unknown tool '%s'", step.Action.Tool)
			failed = true
		} else if obs, res, err := tool.Execute(ctx, query); err != nil {
			// Per-sub-query failures are recorded as the observation and
			// the loop moves on; only decompose/synthesize are job-fatal.
			step.Observation = fmt.Sprintf("Error executing tool %s: %v", step.Action.Tool, err)
			failed = true
		} else {
			step.Observation = obs
			results = res
		}

		// Accumulate citations in encounter order, duplicates included.
		// Dedup happens at presentation time.
		for _, r := range results {
			st.Sources = append(st.Sources, store.Citation{Title: r.Title, URL: r.URL, Favicon: r.Favicon})
		}
		st.Memory = append(st.Memory, step)
		o.Logger.LogToolResult(st.JobID, step.Action.Tool, len(results), failed)
		if err := o.persist(st, out); err != nil {
			return err
		}
	}

	st.Status = store.StatusSynthesizing
	st.FinalAnswer = ""
	o.Logger.LogStage(st.JobID, string(st.Status))
	if err := o.persist(st, out); err != nil {
		return err
	}

	evidence := make([]string, 0, len(st.Memory))
	for _, step := range st.Memory {
		if step.Observation != "" {
			evidence = append(evidence, step.Observation)
		}
	}

	var persistErr error
	answer, err := o.Synthesizer.Synthesize(ctx, st.OriginalQuery, evidence, func(chunk string) error {
		st.FinalAnswer += chunk
		persistErr = o.persist(st, out)
		return persistErr
	})
	if persistErr != nil {
		return persistErr
	}
	if err != nil {
		return fmt.Errorf("synthesis failed: %v", err)
	}
	if answer != "" {
		st.FinalAnswer = answer
	}
	if st.FinalAnswer == "" {
		return errors.New("synthesis produced no output")
	}

	st.Status = store.StatusCompleted
	o.Logger.LogStage(st.JobID, string(st.Status))
	return o.persist(st, out)
}

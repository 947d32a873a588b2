package store

// Status is the lifecycle state of a research job. Transitions are strictly
// forward: PENDING -> DECOMPOSING -> WORKING -> SYNTHESIZING -> COMPLETED,
// with FAILED reachable from any non-terminal state.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusDecomposing  Status = "DECOMPOSING"
	StatusWorking      Status = "WORKING"
	StatusSynthesizing Status = "SYNTHESIZING"
	StatusCompleted    Status = "COMPLETED"
	StatusFailed       Status = "FAILED"
)

// Terminal reports whether a job in this status will never be mutated again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Rank orders statuses along the pipeline so readers can assert that an
// observed sequence never regresses. FAILED ranks last since it can follow
// any other state.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusDecomposing:
		return 1
	case StatusWorking:
		return 2
	case StatusSynthesizing:
		return 3
	case StatusCompleted:
		return 4
	case StatusFailed:
		return 5
	}
	return -1
}

// Action identifies which tool a step invoked and with what input.
type Action struct {
	Tool  string `json:"tool"`
	Input string `json:"input,omitempty"`
}

// Step is one executed sub-query: a thought, the action taken, and the raw
// textual observation that came back (or an error description if the tool
// failed).
type Step struct {
	Thought     string `json:"thought"`
	Action      Action `json:"action"`
	Observation string `json:"observation,omitempty"`
}

// Citation is one attributed piece of evidence backing the final answer.
// Two citations with the same URL refer to the same source.
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Favicon string `json:"favicon,omitempty"`
}

// JobState is the full persisted record of one research job. It is written
// as a whole after every state-affecting mutation, so a concurrent reader
// always sees a consistent snapshot.
type JobState struct {
	JobID         string     `json:"job_id"`
	Status        Status     `json:"status"`
	OriginalQuery string     `json:"original_query"`
	SubQueries    []string   `json:"sub_queries,omitempty"`
	Memory        []Step     `json:"memory,omitempty"`
	Sources       []Citation `json:"sources,omitempty"`
	FinalAnswer   string     `json:"final_answer,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Clone returns a deep copy, safe to hand to a concurrent reader while the
// orchestrator keeps mutating the original.
func (j JobState) Clone() JobState {
	c := j
	c.SubQueries = append([]string(nil), j.SubQueries...)
	c.Memory = append([]Step(nil), j.Memory...)
	c.Sources = append([]Citation(nil), j.Sources...)
	return c
}

// DedupeByURL collapses duplicate citations, keeping the first occurrence of
// each URL in encounter order. The raw Sources sequence is accumulated
// without dedup; this is the presentation-layer view.
func DedupeByURL(in []Citation) []Citation {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]Citation, 0, len(in))
	for _, c := range in {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}

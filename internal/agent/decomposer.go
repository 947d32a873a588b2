package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/rahul/webo/internal/observability"
)

// LLMDecomposer asks a reasoning model to split a query into focused search
// queries. Malformed or empty model output degrades to the original query
// as a single sub-query; this stage never fails a job.
type LLMDecomposer struct {
	Model      llms.Model
	Prompts    *PromptManager
	Logger     *observability.Logger
	MaxQueries int
}

func NewLLMDecomposer(model llms.Model, prompts *PromptManager, logger *observability.Logger) *LLMDecomposer {
	return &LLMDecomposer{
		Model:      model,
		Prompts:    prompts,
		Logger:     logger,
		MaxQueries: 4,
	}
}

func (d *LLMDecomposer) Decompose(ctx context.Context, query string) ([]string, error) {
	prompt := fmt.Sprintf(d.Prompts.DecomposerPrompt(), query)

	resp, err := llms.GenerateFromSinglePrompt(ctx, d.Model, prompt, llms.WithJSONMode())
	if err != nil {
		d.Logger.LogError("", fmt.Sprintf("decomposer model call failed, falling back to single query: %v", err))
		return []string{query}, nil
	}
	d.Logger.LogLLM("", "decomposer", prompt, resp)

	var parsed struct {
		SearchQueries []string `json:"search_queries"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &parsed); err != nil {
		d.Logger.LogError("", fmt.Sprintf("decomposer returned unparseable output, falling back to single query: %v", err))
		return []string{query}, nil
	}

	queries := make([]string, 0, len(parsed.SearchQueries))
	for _, q := range parsed.SearchQueries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return []string{query}, nil
	}
	if d.MaxQueries > 0 && len(queries) > d.MaxQueries {
		queries = queries[:d.MaxQueries]
	}
	return queries, nil
}

// stripCodeFence unwraps a ```json ... ``` fenced block, which some models
// emit even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

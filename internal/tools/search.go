package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// NoResultsSentinel is the observation emitted when a search yields
	// nothing usable. The synthesis stage reads it as plain prose.
	NoResultsSentinel = "No relevant documents found."

	maxSourceChars  = 1500
	maxContextChars = 8000
)

// SearchProvider is the external web-search collaborator.
type SearchProvider interface {
	Search(ctx context.Context, query string, numResults int) ([]Source, error)
}

// SearchTool executes one planned sub-query against a provider and formats
// the results into a self-describing observation block.
type SearchTool struct {
	Provider   SearchProvider
	Enricher   *PageEnricher // optional, fills in missing snippets
	NumResults int

	sanitizer *bluemonday.Policy
}

func NewSearchTool(provider SearchProvider, numResults int) *SearchTool {
	if numResults <= 0 {
		numResults = 5
	}
	return &SearchTool{
		Provider:   provider,
		NumResults: numResults,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (s *SearchTool) Name() string {
	return "web_search"
}

func (s *SearchTool) Description() string {
	return "Search the web for information about a specific query."
}

// Execute runs the search. Provider failures come back as an error; the
// orchestrator records them as the step's observation rather than failing
// the job.
func (s *SearchTool) Execute(ctx context.Context, input string) (string, []Source, error) {
	results, err := s.Provider.Search(ctx, input, s.NumResults)
	if err != nil {
		return "", nil, fmt.Errorf("search failed: %w", err)
	}

	kept := make([]Source, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if r.Snippet == "" && s.Enricher != nil {
			if text, err := s.Enricher.Fetch(ctx, r.URL); err == nil {
				r.Snippet = text
			}
		}
		r.Snippet = strings.TrimSpace(s.sanitizer.Sanitize(r.Snippet))
		kept = append(kept, r)
	}

	return FormatObservation(kept), kept, nil
}

// FormatObservation renders sources into the observation block consumed by
// the synthesis stage. The format is part of the contract: one block per
// source with a stable field order, headed by a numeric source tag that the
// synthesized answer can use as a citation anchor.
func FormatObservation(results []Source) string {
	if len(results) == 0 {
		return NoResultsSentinel
	}

	var b strings.Builder
	total := 0
	for i, r := range results {
		content := truncate(r.Snippet, maxSourceChars)
		block := fmt.Sprintf("--- Source ID: %d ---\nTitle: %s\nURL: %s\nContent: %s\n",
			i+1, r.Title, r.URL, content)

		// Bound the total context handed to the synthesis model.
		if total+len(block) > maxContextChars && total > 0 {
			break
		}
		total += len(block)
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block)
	}
	if b.Len() == 0 {
		return NoResultsSentinel
	}
	return b.String()
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

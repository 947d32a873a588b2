package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct {
	results []Source
	err     error
	queries []string
}

func (f *fakeProvider) Search(ctx context.Context, query string, numResults int) ([]Source, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func TestFormatObservationIsDeterministic(t *testing.T) {
	results := []Source{
		{Title: "Rust perf", URL: "https://a.example", Snippet: "rust is fast"},
		{Title: "Go perf", URL: "https://b.example", Snippet: "go is simple"},
	}

	first := FormatObservation(results)
	second := FormatObservation(results)
	if first != second {
		t.Error("observation formatting is not deterministic")
	}

	if !strings.Contains(first, "--- Source ID: 1 ---") || !strings.Contains(first, "--- Source ID: 2 ---") {
		t.Errorf("missing source headings:\n%s", first)
	}
	if strings.Index(first, "https://a.example") > strings.Index(first, "https://b.example") {
		t.Error("sources rendered out of order")
	}
	for _, line := range []string{"Title: Rust perf", "URL: https://a.example", "Content: rust is fast"} {
		if !strings.Contains(first, line) {
			t.Errorf("observation missing %q:\n%s", line, first)
		}
	}
}

func TestFormatObservationEmpty(t *testing.T) {
	if got := FormatObservation(nil); got != NoResultsSentinel {
		t.Errorf("empty results observation = %q, want sentinel", got)
	}
}

func TestFormatObservationTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 4000)
	obs := FormatObservation([]Source{{Title: "T", URL: "https://a.example", Snippet: long}})

	if !strings.Contains(obs, "...") {
		t.Error("long content was not truncated")
	}
	if strings.Contains(obs, strings.Repeat("x", maxSourceChars+1)) {
		t.Error("content exceeds per-source bound")
	}
}

func TestFormatObservationBoundsTotalContext(t *testing.T) {
	big := strings.Repeat("y", maxSourceChars)
	var results []Source
	for i := 0; i < 20; i++ {
		results = append(results, Source{Title: "T", URL: "https://a.example", Snippet: big})
	}

	obs := FormatObservation(results)
	// One block may straddle the budget, never two.
	if len(obs) > maxContextChars+2*maxSourceChars {
		t.Errorf("observation length %d far exceeds context budget", len(obs))
	}
	if !strings.Contains(obs, "--- Source ID: 1 ---") {
		t.Error("first source must always survive the budget")
	}
}

func TestSearchToolSanitizesSnippets(t *testing.T) {
	provider := &fakeProvider{results: []Source{
		{Title: "T", URL: "https://a.example", Snippet: "<script>alert(1)</script><b>bold</b> text"},
	}}
	tool := NewSearchTool(provider, 5)

	obs, results, err := tool.Execute(context.Background(), "q")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if strings.Contains(obs, "<b>") || strings.Contains(obs, "<script>") {
		t.Errorf("observation contains markup: %q", obs)
	}
	if !strings.Contains(results[0].Snippet, "bold") || strings.Contains(results[0].Snippet, "alert(1)") {
		t.Errorf("snippet not sanitized: %q", results[0].Snippet)
	}
}

func TestSearchToolSkipsSourcesWithoutURL(t *testing.T) {
	provider := &fakeProvider{results: []Source{
		{Title: "no url", Snippet: "x"},
		{Title: "ok", URL: "https://a.example", Snippet: "y"},
	}}
	tool := NewSearchTool(provider, 5)

	_, results, err := tool.Execute(context.Background(), "q")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://a.example" {
		t.Errorf("results = %+v, want only the sourced hit", results)
	}
}

func TestSearchToolProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	tool := NewSearchTool(provider, 5)

	if _, _, err := tool.Execute(context.Background(), "q"); err == nil {
		t.Error("provider error should surface to the orchestrator boundary")
	}
}

func TestSearchToolEmptyResults(t *testing.T) {
	tool := NewSearchTool(&fakeProvider{}, 5)

	obs, results, err := tool.Execute(context.Background(), "q")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if obs != NoResultsSentinel {
		t.Errorf("observation = %q, want sentinel", obs)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	tool := NewSearchTool(&fakeProvider{}, 5)
	r.Register(tool)

	if r.Get("web_search") != tool {
		t.Error("registered tool not found by name")
	}
	if r.Get("missing") != nil {
		t.Error("unknown tool should be nil")
	}
}

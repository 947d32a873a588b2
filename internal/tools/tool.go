package tools

import (
	"context"
)

// Source is one search hit returned by a provider.
type Source struct {
	Title   string
	URL     string
	Snippet string
	Favicon string
}

// Tool defines the interface for all evidence-gathering capabilities. Execute
// returns a prose observation for the synthesis stage plus the structured
// sources it was built from.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, []Source, error)
}

// Registry manages the set of available tools.
type Registry struct {
	Tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		Tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	r.Tools[t.Name()] = t
}

func (r *Registry) Get(name string) Tool {
	return r.Tools[name]
}

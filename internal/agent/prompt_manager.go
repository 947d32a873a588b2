package agent

import (
	"os"
	"path/filepath"
	"strings"
)

// Prompt templates are fmt format strings. Override files must keep the
// same %s verbs: one for the decomposer (the query), two for synthesis
// (the query, then the compiled research context).

const defaultDecomposerPrompt = `You are a search query decomposition expert. Analyze the user's query and determine if it needs to be broken down into multiple searches.

IMPORTANT RULES:
1. ONLY decompose if the query is genuinely complex and requires multiple distinct information searches
2. Simple comparisons (e.g., "compare X and Y") should become 2-3 focused searches maximum
3. Single-topic questions should NOT be decomposed - return them as-is
4. If decomposing, create 2-4 specific search queries (not more than 4)
5. Each search query should be concise and focused on a specific aspect

Examples:

Query: "What is machine learning?"
Output: {"search_queries": ["What is machine learning?"]}

Query: "Compare Rust and Go for web backends in terms of performance and ecosystem"
Output: {"search_queries": ["Rust vs Go web backend performance benchmarks", "Rust vs Go web frameworks ecosystem comparison"]}

Now analyze this query:
User Query: %q

Respond ONLY with a JSON object containing a "search_queries" list.`

const defaultSynthesisPrompt = `You are an AI research assistant. Your task is to provide a comprehensive, synthesized answer to the user's original query based on the research context gathered.

User Query: %q

Research Context (from all searches):
---
%s
---

Instructions:
1. Synthesize the information from ALL provided research context to create a comprehensive answer
2. If the query asks for a comparison, structure your answer to clearly compare the subjects
3. Use specific facts, figures, and details from the research context
4. If sources are tagged in the context (e.g., Source ID: 1), reference them naturally as [1], [2], etc.
5. Organize your answer with clear sections or bullet points for better readability
6. If the research context provides no usable information, say so plainly and answer from general knowledge where safe

Provide a well-structured, informative answer that directly addresses the user's query.`

// PromptManager resolves prompt templates, preferring override files in its
// directory over the built-in defaults.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

func (pm *PromptManager) DecomposerPrompt() string {
	return pm.load("decomposer.md", defaultDecomposerPrompt)
}

func (pm *PromptManager) SynthesisPrompt() string {
	return pm.load("synthesis.md", defaultSynthesisPrompt)
}

func (pm *PromptManager) load(name, fallback string) string {
	if pm == nil || pm.Directory == "" {
		return fallback
	}
	data, err := os.ReadFile(filepath.Join(pm.Directory, name))
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return fallback
	}
	return string(data)
}

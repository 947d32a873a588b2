package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptManagerDefaults(t *testing.T) {
	pm := NewPromptManager("")

	dec := fmt.Sprintf(pm.DecomposerPrompt(), "what is X")
	if !strings.Contains(dec, `"what is X"`) {
		t.Error("decomposer prompt did not interpolate the query")
	}
	if !strings.Contains(dec, "search_queries") {
		t.Error("decomposer prompt missing the expected output key")
	}

	syn := fmt.Sprintf(pm.SynthesisPrompt(), "what is X", "some context")
	if !strings.Contains(syn, `"what is X"`) || !strings.Contains(syn, "some context") {
		t.Error("synthesis prompt did not interpolate query and context")
	}
}

func TestPromptManagerOverrideFile(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom decomposer for %q"
	if err := os.WriteFile(filepath.Join(dir, "decomposer.md"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	pm := NewPromptManager(dir)
	if pm.DecomposerPrompt() != custom {
		t.Errorf("override not used: %q", pm.DecomposerPrompt())
	}
	// Missing override falls back to the default.
	if !strings.Contains(pm.SynthesisPrompt(), "research assistant") {
		t.Error("missing override should fall back to the default prompt")
	}
}

func TestPromptManagerEmptyOverrideFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "decomposer.md"), []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	pm := NewPromptManager(dir)
	if !strings.Contains(pm.DecomposerPrompt(), "search_queries") {
		t.Error("blank override file should fall back to the default prompt")
	}
}

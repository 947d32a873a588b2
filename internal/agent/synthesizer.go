package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/rahul/webo/internal/observability"
)

// emptyEvidence stands in for the research context when every search came
// back empty or failed; synthesis still runs and produces an answer.
const emptyEvidence = "No information was gathered."

// LLMSynthesizer streams the final answer from a reasoning model. Chunks are
// forwarded to onChunk as they arrive; if the model does not stream, the
// whole answer is delivered as one chunk.
type LLMSynthesizer struct {
	Model   llms.Model
	Prompts *PromptManager
	Logger  *observability.Logger
}

func NewLLMSynthesizer(model llms.Model, prompts *PromptManager, logger *observability.Logger) *LLMSynthesizer {
	return &LLMSynthesizer{
		Model:   model,
		Prompts: prompts,
		Logger:  logger,
	}
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, query string, evidence []string, onChunk func(chunk string) error) (string, error) {
	researchContext := emptyEvidence
	if len(evidence) > 0 {
		researchContext = strings.Join(evidence, "\n\n---\n\n")
	}
	prompt := fmt.Sprintf(s.Prompts.SynthesisPrompt(), query, researchContext)

	var b strings.Builder
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := s.Model.GenerateContent(ctx, messages, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		b.Write(chunk)
		return onChunk(string(chunk))
	}))
	if err != nil {
		return "", err
	}

	answer := b.String()
	if answer == "" && len(resp.Choices) > 0 && resp.Choices[0].Content != "" {
		answer = resp.Choices[0].Content
		if err := onChunk(answer); err != nil {
			return "", err
		}
	}
	if answer == "" {
		return "", errors.New("model returned an empty answer")
	}

	s.Logger.LogLLM("", "synthesis", prompt, answer)
	return answer, nil
}

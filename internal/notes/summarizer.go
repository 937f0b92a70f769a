package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/openai"
)

// Summarizer turns a transcript into structured Markdown notes. An error or
// empty result makes the caller fall back to placeholder content.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, title string) (string, error)
}

type llmSummarizer struct {
	log    *logger.Logger
	llm    openai.Client
	prompt PromptSpec
}

func NewLLMSummarizer(log *logger.Logger, llm openai.Client, prompt PromptSpec) Summarizer {
	return &llmSummarizer{
		log:    log.With("service", "LLMSummarizer"),
		llm:    llm,
		prompt: prompt,
	}
}

func (s *llmSummarizer) Summarize(ctx context.Context, transcript, title string) (string, error) {
	system, user := s.prompt.Render(title, transcript)
	out, err := s.llm.GenerateText(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("generate notes for %q: %w", title, err)
	}
	return strings.TrimSpace(out), nil
}

type passthroughSummarizer struct{}

// NewPassthroughSummarizer keeps the transcript as-is under a title heading.
// Used when no LLM is configured.
func NewPassthroughSummarizer() Summarizer { return passthroughSummarizer{} }

func (passthroughSummarizer) Summarize(_ context.Context, transcript, title string) (string, error) {
	return "## " + title + "\n\n" + strings.TrimSpace(transcript), nil
}

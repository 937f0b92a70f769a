package notes

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
)

const summarizerPromptEnv = "SUMMARIZER_PROMPT_YAML"

//go:embed prompts/summarizer.yaml
var promptFS embed.FS

// fallback used when the YAML is missing or invalid
const (
	fallbackSystemPrompt = "You turn raw lecture transcripts into structured Markdown study notes. " +
		"Start with a level-2 heading that is the lecture title. Do not invent content."
	fallbackUserPrompt = "Lecture title: {{title}}\n\nTranscript:\n{{transcript}}"
)

// PromptSpec is the summarizer prompt pair. User is a template with
// {{title}} and {{transcript}} placeholders.
type PromptSpec struct {
	Prompt  string `yaml:"prompt"`
	Version int    `yaml:"version"`
	System  string `yaml:"system"`
	User    string `yaml:"user"`
}

func (p PromptSpec) Render(title, transcript string) (system, user string) {
	r := strings.NewReplacer("{{title}}", title, "{{transcript}}", transcript)
	return strings.TrimSpace(p.System), r.Replace(p.User)
}

func fallbackPrompt() PromptSpec {
	return PromptSpec{Prompt: "lecture_notes", Version: 0, System: fallbackSystemPrompt, User: fallbackUserPrompt}
}

// LoadPromptSpec reads SUMMARIZER_PROMPT_YAML when set, otherwise the
// embedded prompt. Any failure logs and returns the built-in fallback.
func LoadPromptSpec(log *logger.Logger) PromptSpec {
	spec, err := loadPromptSpec()
	if err != nil {
		if log != nil {
			log.Warn("summarizer prompt load failed; using fallback", "error", err)
		}
		return fallbackPrompt()
	}
	return spec
}

func loadPromptSpec() (PromptSpec, error) {
	data, err := readPromptSpec()
	if err != nil {
		return PromptSpec{}, err
	}
	return parsePromptSpec(data)
}

func readPromptSpec() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(summarizerPromptEnv)); path != "" {
		return os.ReadFile(path)
	}
	return promptFS.ReadFile("prompts/summarizer.yaml")
}

func parsePromptSpec(data []byte) (PromptSpec, error) {
	var spec PromptSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return PromptSpec{}, fmt.Errorf("parse prompt yaml: %w", err)
	}
	if strings.TrimSpace(spec.System) == "" {
		return PromptSpec{}, fmt.Errorf("prompt yaml: system is required")
	}
	if !strings.Contains(spec.User, "{{transcript}}") {
		return PromptSpec{}, fmt.Errorf("prompt yaml: user template must reference {{transcript}}")
	}
	return spec, nil
}

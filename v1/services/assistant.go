package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Assistant answers free-form questions. Implementations may call out to an
// external model, so Answer takes a context for cancellation.
type Assistant interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

const assistantSystemPrompt = "You are a helpful university admissions assistant. " +
	"Be clear, structured, and practical."

// OllamaAssistant shells out to a local ollama install. The model never sees
// anything beyond the prompt the chat service builds for it.
type OllamaAssistant struct {
	Model string
}

// NewOllamaAssistant creates an assistant backed by the given ollama model
func NewOllamaAssistant(model string) *OllamaAssistant {
	if model == "" {
		model = "llama3"
	}
	return &OllamaAssistant{Model: model}
}

// Answer runs the prompt through ollama and returns the trimmed reply
func (a *OllamaAssistant) Answer(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, "ollama", "run", a.Model)
	cmd.Stdin = strings.NewReader(assistantSystemPrompt + "\n\n" + prompt + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("assistant model failed: %s", detail)
	}
	return strings.TrimSpace(stdout.String()), nil
}

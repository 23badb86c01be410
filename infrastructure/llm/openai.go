package llm

import (
	"context"
	"errors"
	"strings"

	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"
	"github.com/hoangvvo/llm-sdk/sdk-go/openai"
)

// languageModel is the part of llmsdk.LanguageModel the completer calls
type languageModel interface {
	Generate(ctx context.Context, input *llmsdk.LanguageModelInput) (*llmsdk.ModelResponse, error)
}

// OpenAICompleter talks to an OpenAI-compatible chat completions endpoint
type OpenAICompleter struct {
	model        languageModel
	systemPrompt string
	temperature  float64
}

// NewOpenAICompleter creates a completer for the given model. An empty baseURL uses the OpenAI default.
func NewOpenAICompleter(modelID, apiKey, baseURL string) *OpenAICompleter {
	model := openai.NewOpenAIChatModel(modelID, openai.OpenAIChatModelOptions{
		BaseURL: baseURL,
		APIKey:  apiKey,
	})
	return newOpenAICompleter(model)
}

func newOpenAICompleter(model languageModel) *OpenAICompleter {
	return &OpenAICompleter{
		model:        model,
		systemPrompt: SystemPrompt(),
		temperature:  0.3,
	}
}

// Complete implements ports.ChatCompleter
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	systemPrompt := c.systemPrompt
	temperature := c.temperature

	resp, err := c.model.Generate(ctx, &llmsdk.LanguageModelInput{
		SystemPrompt: &systemPrompt,
		Messages: []llmsdk.Message{
			llmsdk.NewUserMessage(llmsdk.Part{TextPart: &llmsdk.TextPart{Text: prompt}}),
		},
		ResponseFormat: &llmsdk.ResponseFormatOption{
			JSON: &llmsdk.ResponseFormatJSON{Name: "theme_choice"},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, part := range resp.Content {
		if part.TextPart != nil {
			b.WriteString(part.TextPart.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("model returned no text content")
	}
	return b.String(), nil
}

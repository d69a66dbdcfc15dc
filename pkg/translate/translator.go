package translate

import (
	"context"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/rossonews/rossonews/pkg/config"
)

// Translator converts Italian source text to English
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Noop returns text unchanged, used when translation is disabled
type Noop struct{}

// Translate returns the text as is
func (Noop) Translate(_ context.Context, text string) string { return text }

// OpenAI translates text via an OpenAI-compatible chat endpoint
type OpenAI struct {
	client *openai.Client
	cfg    config.TranslatorConfig
}

const systemPrompt = `Translate the user's text from Italian to English. ` +
	`Respond with the translated text only, no quotes or commentary. ` +
	`If the text is already English, return it unchanged.`

// NewOpenAI creates a translator from the given configuration
func NewOpenAI(cfg config.TranslatorConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Translate returns the English text, falling back to the original on any
// error. A failed translation never drops a record.
func (t *OpenAI) Translate(ctx context.Context, text string) string {
	if len(strings.TrimSpace(text)) < 3 {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		lgr.Printf("[WARN] translation failed, keeping original text: %v", err)
		return text
	}
	if len(resp.Choices) == 0 {
		return text
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return text
	}
	return translated
}

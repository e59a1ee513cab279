// Package ai implements the text generator on Google's Gemini API.
package ai

import (
	"context"
	"log/slog"

	"crm/config"
	"crm/internal/domain/service"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// geminiGenerator implements service.TextGenerator using the GenAI SDK.
type geminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewTextGenerator creates a Gemini-backed text generator. Without an API key
// it returns nil; the insight use case treats a nil generator as the feature
// being disabled.
func NewTextGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.TextGenerator, error) {
	if cfg.AI == nil || cfg.AI.APIKey == "" {
		logger.Info("AI not configured, insights disabled")

		return nil, nil
	}

	model := cfg.AI.Model
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.APIKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}

	logger.Info("Gemini text generator initialized", slog.String("model", model))

	return &geminiGenerator{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// GenerateText returns the model's completion for a prompt.
func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", errors.Wrap(err, "GenAI generate failed")
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("no completion returned")
	}

	return text, nil
}

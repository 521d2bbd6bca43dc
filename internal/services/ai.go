package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/izwi-app/izwi/internal/models"
	"github.com/sashabaranov/go-openai"
)

// AIService suggests an alert category for a free-text draft. Only
// active when an OpenAI API key is configured.
type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestCategory asks the model to classify a draft description into
// one of the six alert categories.
func (s *AIService) SuggestCategory(ctx context.Context, description string) (models.AlertCategory, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You classify neighborhood alert reports. Pick the single best category for the report below.

Report:
%s

Valid categories: Emergency, Fire, Traffic, Weather, Community, Other.

Reply with exactly one category name and nothing else.`, description)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0,
		},
	)

	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	category := models.AlertCategory(strings.TrimSpace(resp.Choices[0].Message.Content))
	if !category.Valid() {
		// Unrecognized model output falls back to the generic bucket.
		return models.CategoryOther, nil
	}

	return category, nil
}

package intent

import (
	"context"
	"fmt"
	"strings"

	"savoria/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// classifierInstructions is the fixed instruction set sent with every
// utterance. The model must answer with strict JSON only.
const classifierInstructions = `You classify one customer message for a restaurant ordering assistant.
Answer with a single JSON object and nothing else, no prose, no markdown fences:
{"intent": "...", "product_name": "...", "category": "...", "search_terms": ["..."]}

intent must be exactly one of:
  price_query   - the customer asks what something costs
  list_products - the customer wants the menu or a category listing
  pizza_types   - the customer asks which pizzas exist
  product_info  - the customer asks what a product is or what's in it
  suggest       - the customer wants a recommendation
  other         - anything else (greetings, small talk, orders)

product_name: the specific product mentioned, or "" if none.
category: one of pizza, burrito, burger, sandwich, salad, side, drink, dessert, or "" if none.
search_terms: lowercase tokens useful for filtering a menu, or [].`

// GeminiClient wraps the Gemini generative model used as the intent
// classifier.
type GeminiClient struct {
	model *genai.GenerativeModel
}

// NewGeminiClient builds the classifier client. An error here means the
// classifier is unavailable; callers run on the fallback rules alone.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiClient{model: model}, nil
}

// Classify sends the utterance plus recent history to the model and
// returns the raw response text.
func (g *GeminiClient) Classify(ctx context.Context, message string, history []models.Turn) (string, error) {
	var prompt strings.Builder
	prompt.WriteString(classifierInstructions)
	if len(history) > 0 {
		prompt.WriteString("\n\nRecent conversation:\n")
		for _, turn := range history {
			prompt.WriteString(turn.Speaker)
			prompt.WriteString(": ")
			prompt.WriteString(turn.Text)
			prompt.WriteString("\n")
		}
	}
	prompt.WriteString("\nCustomer message: ")
	prompt.WriteString(message)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

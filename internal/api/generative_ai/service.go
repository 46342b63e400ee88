package generativeAI

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

// AIClient wraps the Gemini client with the model configured for the service.
type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

// Complete sends a single-turn completion request and returns the raw text of
// the response. An empty system instruction is omitted from the request.
func (ai *AIClient) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.request.model", ai.model),
		attribute.Float64("gen_ai.request.temperature", float64(temperature)),
	)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(user), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion request failed")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	span.SetAttributes(attribute.Int("gen_ai.response.length", len(text)))
	span.SetStatus(codes.Ok, "completion succeeded")
	return text, nil
}

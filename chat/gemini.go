package chat

import (
	"context"
	"fmt"
	"strings"

	"agrisense/crop"
	"agrisense/utils"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	ctx    context.Context
}

func NewGeminiClient() (*GeminiClient, error) {
	ctx := context.Background()

	apiKey := utils.GetEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiClient{
		client: client,
		ctx:    ctx,
	}, nil
}

const systemPrompt = `You are AgriSense Assistant, an agronomy advisor for a soil-sensor crop recommendation service.
You help users with:
- Interpreting soil readings (N, P, K, pH, moisture, temperature, humidity)
- Understanding crop recommendations and their confidence scores
- Fertilizer and irrigation guidance for the recommended crops
- General questions about soil health and growing conditions

Provide helpful, accurate, and concise responses. Be technical when needed but explain complex concepts clearly.
Keep responses conversational and under 200 words unless more detail is specifically requested.`

// GenerateAdvice asks the model for agronomy guidance. When a summary of a
// prior recommendation is supplied it is prepended as context.
func (g *GeminiClient) GenerateAdvice(message string, summary *crop.Summary) (string, error) {
	if summary != nil && len(summary.Recommendations) > 0 {
		var b strings.Builder
		b.WriteString("Latest recommendation for this field:\n")
		for _, rec := range summary.Recommendations {
			fmt.Fprintf(&b, "- %s (%s)\n", rec.Crop, rec.Confidence)
		}
		fmt.Fprintf(&b, "Rainfall used: %.1f mm (%s)\n\n", summary.Metadata.RainfallValueUsed, summary.Metadata.RainfallSource)
		b.WriteString(message)
		message = b.String()
	}

	systemInstruction := genai.NewContentFromText(systemPrompt, genai.RoleModel)
	userContent := genai.NewContentFromText(message, genai.RoleUser)

	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.8)),
		TopK:              genai.Ptr(float32(40)),
		MaxOutputTokens:   int32(200),
	}

	resp, err := g.client.Models.GenerateContent(
		g.ctx,
		"gemini-2.5-flash",
		[]*genai.Content{userContent},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %v", err)
	}

	text := resp.Text()
	if text == "" {
		return "I'm sorry, I couldn't generate a response. Please try rephrasing your question.", nil
	}

	return strings.ReplaceAll(text, "*", ""), nil
}

func (g *GeminiClient) Close() error {
	// The client doesn't have an explicit Close method
	return nil
}

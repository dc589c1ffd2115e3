package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, model ModelConfig, parts []Part) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(model.Temperature)),
		TopP:            genai.Ptr(float32(model.TopP)),
		TopK:            genai.Ptr(float32(model.TopK)),
		MaxOutputTokens: int32(model.MaxOutputTokens),
	}

	var gparts []*genai.Part
	for _, p := range parts {
		if p.Text != "" {
			gparts = append(gparts, genai.NewPartFromText(p.Text))
		} else {
			gparts = append(gparts, genai.NewPartFromBytes(p.Data, p.MIMEType))
		}
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: gparts}}

	resp, err := c.client.Models.GenerateContent(ctx, model.Name, contents, cfg)
	if err != nil {
		if isTooManyRequests(err) {
			return "", &RateLimitError{Cause: err}
		}
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("model returned an empty response")
	}
	return text, nil
}

func isTooManyRequests(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return strings.Contains(err.Error(), "429")
}

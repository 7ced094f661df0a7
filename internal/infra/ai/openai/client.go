package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/lifelens/lifelens/internal/domain/ai"
	"github.com/lifelens/lifelens/internal/domain/profiles"
	"github.com/lifelens/lifelens/internal/infra/ai/prompt"
)

const (
	defaultModel  = "gpt-4o"
	maxTokens     = 2048
	riskMaxTokens = 1500
)

// Client talks to the inference API. A client built without an API key is
// valid but reports ai.ErrNotConfigured on every call.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	c := &Client{model: model}
	if apiKey != "" {
		c.api = openai.NewClient(apiKey)
	}
	return c
}

// AnalyzeScan sends the image with the patient context and decodes the
// structured assessment. No retries; a JSON parse failure is an error, and
// fields the model omits stay zero.
func (c *Client) AnalyzeScan(ctx context.Context, image []byte, profile *profiles.Profile) (*ai.ScanAnalysis, error) {
	if c.api == nil {
		return nil, ai.ErrNotConfigured
	}

	b64 := base64.StdEncoding.EncodeToString(image)
	req := c.newRequest(maxTokens, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt.ForScanAnalysis(profile)},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/jpeg;base64," + b64,
			}},
		},
	})

	raw, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	var out ai.ScanAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding scan analysis: %w", err)
	}
	return &out, nil
}

// AssessRisk runs the demographics-only assessment.
func (c *Client) AssessRisk(ctx context.Context, profile *profiles.Profile) (*ai.RiskAssessment, error) {
	if c.api == nil {
		return nil, ai.ErrNotConfigured
	}

	req := c.newRequest(riskMaxTokens, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.ForRiskAssessment(profile),
	})
	raw, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	var out ai.RiskAssessment
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding risk assessment: %w", err)
	}
	return &out, nil
}

// GenerateInsights aggregates the profile and stored analysis history.
func (c *Client) GenerateInsights(ctx context.Context, profile *profiles.Profile, history []json.RawMessage) (*ai.HealthInsights, error) {
	if c.api == nil {
		return nil, ai.ErrNotConfigured
	}

	req := c.newRequest(maxTokens, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.ForInsights(profile, history),
	})
	raw, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	var out ai.HealthInsights
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding insights: %w", err)
	}
	return &out, nil
}

func (c *Client) newRequest(tokens int, msgs ...openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	model := c.model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: msgs,
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = tokens
	} else {
		req.MaxTokens = tokens
	}
	return req
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", ai.ErrQuotaExceeded
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sickboy0001/ZeSecThinkV2/config"
)

// Generation is the outcome of one successful generateContent call.
type Generation struct {
	Text          string                                   `json:"text"`
	Model         string                                   `json:"model,omitempty"`
	APIVersion    string                                   `json:"apiVersion,omitempty"`
	UsageMetadata *genai.GenerateContentResponseUsageMetadata `json:"usageMetadata,omitempty"`
}

// Client wraps the Gemini generative-language API.
type Client struct {
	client     *genai.Client
	model      string
	apiVersion string
	quota      *Quota
}

// NewClient builds a client from the Gemini configuration. The API key is required.
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: apiVersion},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{
		client:     client,
		model:      model,
		apiVersion: apiVersion,
		quota:      NewQuota(cfg.RequestsPerMinute, cfg.RequestsPerDay),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends prompt as a single user turn and returns the text response.
// API failures, and an exhausted daily quota, are returned as *StatusError.
func (c *Client) Generate(ctx context.Context, prompt string) (*Generation, error) {
	if err := c.quota.Reserve(ctx); err != nil {
		return nil, err
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, classify(err)
	}
	if result == nil {
		return nil, &StatusError{StatusCode: 502, Message: "empty response"}
	}

	model := result.ModelVersion
	if model == "" {
		model = c.model
	}
	return &Generation{
		Text:          result.Text(),
		Model:         model,
		APIVersion:    c.apiVersion,
		UsageMetadata: result.UsageMetadata,
	}, nil
}

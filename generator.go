package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

var errEmptyResponse = errors.New("empty response from completion service")

// Generator produces the raw text of one app from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator builds the configured provider client.
func NewGenerator(cfg GeneratorSettings, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIGenerator(cfg, apiKey), nil
	case "anthropic":
		return NewAnthropicGenerator(cfg, apiKey), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}

// OpenAIGenerator talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIGenerator struct {
	endpoint    string
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewOpenAIGenerator builds a client from configuration. An empty model
// string is sent as-is and means "provider default".
func NewOpenAIGenerator(cfg GeneratorSettings, apiKey string) *OpenAIGenerator {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	return &OpenAIGenerator{
		endpoint:    endpoint,
		model:       cfg.Model,
		apiKey:      apiKey,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Generate posts the prompt as a single user message and returns the
// first choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	if g.maxTokens > 0 {
		payload["max_tokens"] = g.maxTokens
	}
	if g.temperature > 0 {
		payload["temperature"] = g.temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", errEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}

// AnthropicGenerator generates apps through the Anthropic API.
type AnthropicGenerator struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewAnthropicGenerator builds a client from configuration.
func NewAnthropicGenerator(cfg GeneratorSettings, apiKey string) *AnthropicGenerator {
	return &AnthropicGenerator{
		apiKey:      apiKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Generate sends the prompt as a single user message.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	settings := types.RequestSettings{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	response, err := anthropic.PromptWithSettings("", prompt, "", g.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("anthropic prompt: %w", err)
	}

	if len(response.Content) == 0 {
		return "", errEmptyResponse
	}

	return response.Content[0].Text, nil
}

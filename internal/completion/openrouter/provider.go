package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/config"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Provider implements completion.Provider for OpenRouter
type Provider struct {
	apiKey       string
	defaultModel string
	siteURL      string
	siteName     string
	client       *http.Client
	baseURL      string
}

// NewProvider creates a new OpenRouter provider
func NewProvider(cfg config.OpenRouterConfig, timeout time.Duration) *Provider {
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		apiKey:       cfg.APIKey,
		defaultModel: model,
		siteURL:      cfg.SiteURL,
		siteName:     cfg.SiteName,
		client:       &http.Client{Timeout: timeout},
		baseURL:      defaultBaseURL,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openrouter"
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []completion.Message `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete generates a text completion via the OpenRouter chat API
func (p *Provider) Complete(ctx context.Context, instructions string, messages []completion.Message, model string) (string, error) {
	if model == "" {
		model = p.defaultModel
	}

	payload := make([]completion.Message, 0, len(messages)+1)
	payload = append(payload, completion.Message{Role: "system", Content: instructions})
	payload = append(payload, messages...)

	chatReq := chatRequest{
		Model:       model,
		Messages:    payload,
		Temperature: 0.7,
		MaxTokens:   500,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.siteURL != "" {
		httpReq.Header.Set("HTTP-Referer", p.siteURL)
	}
	if p.siteName != "" {
		httpReq.Header.Set("X-Title", p.siteName)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", fmt.Errorf("%w: status %d: %s", completion.ErrUnauthorized, resp.StatusCode, respBody)
		case http.StatusPaymentRequired, http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: status %d: %s", completion.ErrQuotaExhausted, resp.StatusCode, respBody)
		default:
			return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openrouter")
	}

	return chatResp.Choices[0].Message.Content, nil
}

package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/config"
)

// Provider implements completion.Provider for Google Gemini
type Provider struct {
	apiKey string
	model  string
}

// NewProvider creates a new Gemini provider
func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-1.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Complete generates a text completion via the Gemini API
func (p *Provider) Complete(ctx context.Context, instructions string, messages []completion.Message, model string) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	generativeModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(instructions)},
	}

	var temperature float32 = 0.7
	generativeModel.Temperature = &temperature

	// Gemini takes prior turns as chat history and the last user message
	// as the prompt.
	history := make([]*genai.Content, 0, len(messages))
	prompt := ""
	for i, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		if i == len(messages)-1 && role == "user" {
			prompt = m.Content
			break
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	if prompt == "" {
		return "", fmt.Errorf("gemini: last message must be user-authored")
	}

	session := generativeModel.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// classifyError maps Gemini API failures onto the shared completion error
// classes so callers choose the right fallback text.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission"):
		return fmt.Errorf("%w: %v", completion.ErrUnauthorized, err)
	case strings.Contains(msg, "quota") || strings.Contains(msg, "resource exhausted") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", completion.ErrQuotaExhausted, err)
	default:
		return fmt.Errorf("gemini generation error: %w", err)
	}
}

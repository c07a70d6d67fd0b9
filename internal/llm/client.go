package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNoAPIKey is returned when a client is created without credentials.
var ErrNoAPIKey = errors.New("API key is required")

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// Client generates text with a model chosen by tier.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON requests a JSON answer and strips code fences from it.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GetModel(tier ModelTier) string
	Close() error
}

// Gemini is a Client backed by the Google Gemini API.
type Gemini struct {
	genai *genai.Client
	cfg   Config
}

var _ Client = (*Gemini)(nil)

// NewClient connects to Gemini with apiKey.
func NewClient(ctx context.Context, cfg Config, apiKey string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultConfig().Models
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{genai: gc, cfg: cfg}, nil
}

// GenerateContent implements Client.
func (g *Gemini) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return g.generate(ctx, prompt, tier, "")
}

// GenerateJSON implements Client.
func (g *Gemini) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := g.generate(ctx, prompt, tier, "application/json")
	if err != nil {
		return "", err
	}
	return StripCodeFence(text), nil
}

func (g *Gemini) generate(ctx context.Context, prompt string, tier ModelTier, mimeType string) (string, error) {
	name := g.cfg.Model(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	model := g.genai.GenerativeModel(name)
	model.SetTemperature(g.cfg.temperature())
	model.ResponseMIMEType = mimeType

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%s: generate: %w", name, err)
	}
	return responseText(resp)
}

// GetModel implements Client.
func (g *Gemini) GetModel(tier ModelTier) string { return g.cfg.Model(tier) }

// Close implements Client.
func (g *Gemini) Close() error { return g.genai.Close() }

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

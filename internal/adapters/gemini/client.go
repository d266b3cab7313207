// Package gemini provides the reasoning and generation collaborator on top of
// the official genai client. Vibe extraction asks for structured JSON;
// narration asks for plain prose.
package gemini

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Client wraps one genai client and model choice.
type Client struct {
	cli   *genai.Client
	model string
}

var (
	_ ports.VibeExtractor = (*Client)(nil)
	_ ports.Narrator      = (*Client)(nil)
)

// NewClient constructs a client against the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{cli: cli, model: model}, nil
}

// ExtractVibe distills a place's review snippets into a vibe profile.
func (c *Client) ExtractVibe(ctx context.Context, place domain.Place) (domain.VibeProfile, error) {
	raw, err := c.generate(ctx, extractionPrompt(place), true)
	if err != nil {
		return domain.VibeProfile{}, fmt.Errorf("gemini: extract vibe for %s: %w", place.ID, err)
	}

	profile, err := parseVibeProfile(raw)
	if err != nil {
		return domain.VibeProfile{}, fmt.Errorf("gemini: extract vibe for %s: %w", place.ID, err)
	}
	return profile, nil
}

// ComposePitch writes the short narrative for one itinerary entry.
func (c *Client) ComposePitch(ctx context.Context, req ports.PitchRequest) (string, error) {
	text, err := c.generate(ctx, pitchPrompt(req), false)
	if err != nil {
		return "", fmt.Errorf("gemini: compose pitch for %s: %w", req.Place.ID, err)
	}
	return text, nil
}

// ComposeTitle writes the itinerary title.
func (c *Client) ComposeTitle(ctx context.Context, req ports.TitleRequest) (string, error) {
	text, err := c.generate(ctx, titlePrompt(req), false)
	if err != nil {
		return "", fmt.Errorf("gemini: compose title: %w", err)
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	var cfg *genai.GenerateContentConfig
	if wantJSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response")
	}
	return text, nil
}

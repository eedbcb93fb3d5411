package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxTopRisks  = 5
	maxChecklist = 8
)

var riskLevels = []string{"low", "moderate", "high", "severe"}

// openAINarrator implements the Narrator interface using OpenAI
type openAINarrator struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// NewNarrator creates a Narrator backed by the OpenAI chat API. An empty key
// yields a narrator whose calls fail.
func NewNarrator(apiKey, model string) Narrator {
	if apiKey == "" {
		return &openAINarrator{model: model, now: time.Now}
	}
	return NewNarratorWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewNarratorWithConfig creates a Narrator from a full client config, e.g. to
// point at another base URL or HTTP client.
func NewNarratorWithConfig(cfg openai.ClientConfig, model string) Narrator {
	return &openAINarrator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

// Narrate asks the model for a structured briefing of the route
func (n *openAINarrator) Narrate(ctx context.Context, in Input) (Briefing, error) {
	if n.client == nil {
		return Briefing{}, errors.New("OpenAI client not initialized - invalid API key")
	}

	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return Briefing{}, fmt.Errorf("failed to marshal briefing input: %w", err)
	}

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Write the briefing for this route:\n\n" + string(payload),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type:       openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &BriefingSchema,
		},
		Temperature: 0.3,
		MaxTokens:   800,
	})
	if err != nil {
		return Briefing{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Briefing{}, errors.New("no response from OpenAI API")
	}

	var b Briefing
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &b); err != nil {
		return Briefing{}, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}

	normalize(&b, in)
	b.Model = n.model
	if resp.Model != "" {
		b.Model = resp.Model
	}
	b.GeneratedAt = n.now().UTC()
	return b, nil
}

// HealthCheck verifies OpenAI API connectivity
func (n *openAINarrator) HealthCheck(ctx context.Context) error {
	if n.client == nil {
		return errors.New("OpenAI client not initialized")
	}

	_, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Test",
			},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}

// normalize repairs fields the model left empty or out of range.
func normalize(b *Briefing, in Input) {
	if b.Headline == "" {
		b.Headline = fmt.Sprintf("Route briefing: %s", in.RouteName)
	}
	if !slices.Contains(riskLevels, b.RiskLevel) {
		b.RiskLevel = RiskFromScore(in.SafetyScore)
	}
	if len(b.TopRisks) > maxTopRisks {
		b.TopRisks = b.TopRisks[:maxTopRisks]
	}
	if len(b.DriverChecklist) > maxChecklist {
		b.DriverChecklist = b.DriverChecklist[:maxChecklist]
	}
	if b.TopRisks == nil {
		b.TopRisks = []string{}
	}
	if b.DriverChecklist == nil {
		b.DriverChecklist = []string{}
	}
}

// RiskFromScore maps a route safety score to a risk level.
func RiskFromScore(score int) string {
	switch {
	case score < 25:
		return "severe"
	case score < 50:
		return "high"
	case score < 75:
		return "moderate"
	default:
		return "low"
	}
}

// ABOUTME: AI-powered generator for realistic sample habits.
// ABOUTME: Uses OpenAI when a key is configured, static fallback otherwise.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Generator creates sample habit data using OpenAI or static fallbacks.
type Generator struct {
	client *openai.Client
	useAI  bool
	userID string
	model  string
}

// NewGenerator creates a generator for the given user. An empty apiKey
// selects the static data set.
func NewGenerator(userID, apiKey, model string) *Generator {
	g := &Generator{userID: userID, model: model}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, using AI-generated habits with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static sample habits")
	}
	return g
}

// HabitData is one generated habit with a short completion history.
type HabitData struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	TargetValue float64   `json:"target_value"`
	History     []float64 `json:"history"` // completion values, oldest first
}

// Generate produces count sample habits. AI failures fall back to the
// static set rather than failing the seed.
func (g *Generator) Generate(ctx context.Context, count int) []HabitData {
	if count <= 0 {
		count = len(staticHabits)
	}
	if !g.useAI {
		return staticSample(count)
	}

	habits, err := g.generateAI(ctx, count)
	if err != nil {
		log.Printf("AI generation failed (%v), using static sample habits", err)
		return staticSample(count)
	}
	return habits
}

func (g *Generator) generateAI(ctx context.Context, count int) ([]HabitData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic personal habits for a habit tracker.
Return ONLY a JSON array. Each element: {"name": string, "type": "simple"|"counter"|"weight",
"target_value": number, "history": [numbers]}. Include at most one weight habit with
history values that look like body weights in kg. Counter habits get small integer
history values. Simple habits get an empty history.`, count)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := resp.Choices[0].Message.Content
	// Models occasionally wrap JSON in a markdown fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	var habits []HabitData
	if err := json.Unmarshal([]byte(content), &habits); err != nil {
		return nil, fmt.Errorf("parse generated habits: %w", err)
	}
	return habits, nil
}

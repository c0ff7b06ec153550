package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mindweave/mindweave-server/internal/model"
)

const (
	DefaultGeminiModel = "gemini-1.5-flash-latest"

	reflectionInstruction = "You are a warm, thoughtful journaling companion. " +
		"Read the user's journal entry and write a short reflection of two to four sentences. " +
		"Acknowledge how they seem to feel, point out one pattern or strength you notice, " +
		"and end with a gentle question they could journal about next. " +
		"Do not give medical advice and do not repeat the entry back verbatim."
)

var ErrEmptyGeneration = errors.New("gemini returned no reflection text")

// generator is the subset of *genai.GenerativeModel used here.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

var _ model.Analyzer = (*Gemini)(nil)

// Gemini generates reflections with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  generator
}

// NewGemini creates a Gemini analyzer using apiKey and modelName.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	m := client.GenerativeModel(modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(reflectionInstruction)},
	}
	temp := float32(0.7)
	maxTokens := int32(300)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temp,
		MaxOutputTokens: &maxTokens,
	}

	return &Gemini{client: client, model: m}, nil
}

// Analyze asks the model for a reflection on entryText.
func (g *Gemini) Analyze(ctx context.Context, entryText string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(entryText))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyGeneration
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", ErrEmptyGeneration
	}
	return out, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Package suggest asks a generative model for book suggestions and degrades
// to a fixed fallback set whenever generation fails.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/config"
)

const (
	defaultModel     = config.DefaultModel
	defaultBookCount = 6
)

// Generator is the subset of the genai models service the client uses.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client issues one generation request per query.
type Client struct {
	generator Generator
	model     string
	bookCount int
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithModel sets the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBookCount sets how many books are requested per query.
func WithBookCount(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bookCount = n
		}
	}
}

// NewClient creates a suggestion client. A nil generator is allowed: every
// request then degrades to the fallback set.
func NewClient(generator Generator, opts ...Option) *Client {
	c := &Client{
		generator: generator,
		model:     defaultModel,
		bookCount: defaultBookCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGenAIGenerator creates a Gemini API backed generator.
func NewGenAIGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Fetch sends exactly one generation request and returns the typed result
// without applying the fallback policy.
func (c *Client) Fetch(ctx context.Context, query string) Result {
	if c.generator == nil {
		return Result{Err: ErrNotConfigured}
	}

	resp, err := c.generator.GenerateContent(ctx, c.model, genai.Text(Prompt(query, c.bookCount)), generationConfig())
	if err != nil {
		return Result{Err: fmt.Errorf("generation request failed: %w", err)}
	}
	if resp == nil {
		return Result{Err: ErrEmptyResponse}
	}

	return Validate(resp.Text())
}

// FetchSuggestions returns generated books for query, or the fallback set if
// anything went wrong. The error is always nil; it exists so the client can
// stand in for any suggestion source that may fail.
func (c *Client) FetchSuggestions(ctx context.Context, query string) ([]book.Book, error) {
	result := c.Fetch(ctx, strings.TrimSpace(query))
	if !result.OK() {
		slog.Warn("Suggestion generation failed, using fallback books", "query", query, "model", c.model, "error", result.Err)
		return book.Fallback(), nil
	}

	slog.Debug("Suggestions generated", "query", query, "count", len(result.Books))
	return result.Books, nil
}

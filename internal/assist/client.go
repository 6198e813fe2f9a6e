package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"umlforge/internal/diagram"
	"umlforge/internal/models"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultMaxAttempts = 3
)

const generateInstructions = `You are a UML class diagram assistant. Produce a class diagram as JSON.
Rules:
- Every class and attribute needs a unique string id.
- Attribute types must be one of: String, Integer, Boolean, Double, Long, Date, LocalDateTime.
- Associations reference classes by id and must connect two different classes.
- relationshipType must be one of: association, inheritance, aggregation, composition.
- For inheritance, fromClassId is the child and toClassId is the parent.
- Assign a position to every class so the layout does not overlap.`

const modifyInstructions = `You are a UML class diagram assistant. Modify the given class diagram according to the request and return the full updated diagram as JSON.
Rules:
- Keep the ids of classes, attributes and associations you did not change.
- Attribute types must be one of: String, Integer, Boolean, Double, Long, Date, LocalDateTime.
- Associations reference classes by id and must connect two different classes.
- relationshipType must be one of: association, inheritance, aggregation, composition.
- Return every class, not just the ones you changed.`

// contentGenerator is the slice of the GenAI SDK the client depends on.
type contentGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   diagramSchema,
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// Client turns natural-language prompts into diagram payloads.
type Client struct {
	generator   contentGenerator
	logger      *zap.Logger
	maxAttempts int
}

// NewClient builds a client backed by the Gemini API.
func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		generator:   &geminiGenerator{client: client, model: model},
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}, nil
}

// GenerateDiagram builds a fresh diagram from a description.
func (c *Client) GenerateDiagram(ctx context.Context, prompt string) (*models.DiagramData, error) {
	full := fmt.Sprintf("%s\n\nRequest:\n%s", generateInstructions, prompt)
	return c.request(ctx, full)
}

// ModifyDiagram asks the model to rework an existing diagram, then merges the
// proposal back into the current state so concurrent edits survive.
func (c *Client) ModifyDiagram(ctx context.Context, prompt string, existing models.DiagramData) (*models.DiagramData, error) {
	current, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to encode current diagram: %w", err)
	}

	full := fmt.Sprintf("%s\n\nCurrent diagram:\n%s\n\nRequest:\n%s", modifyInstructions, current, prompt)
	proposed, err := c.request(ctx, full)
	if err != nil {
		return nil, err
	}

	merged := diagram.Merge(existing, *proposed, c.logger)
	return &merged, nil
}

func (c *Client) request(ctx context.Context, prompt string) (*models.DiagramData, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxAttempts-1)), ctx)

	var data *models.DiagramData
	operation := func() error {
		raw, err := c.generator.generate(ctx, prompt)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			c.logger.Warn("transient GenAI error, retrying", zap.Error(err))
			return err
		}

		data, err = ParseDiagram(raw, c.logger)
		if err != nil {
			// A malformed payload is a model failure, not a transport one.
			return backoff.Permanent(err)
		}
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return data, nil
}

// retryable reports whether a GenAI error is worth another attempt.
// Rate limits and server-side failures are transient; everything else
// (bad requests, auth failures) will fail the same way again.
func retryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

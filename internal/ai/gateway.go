package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Gateway is the boundary to the remote text-generation service. A single
// natural-language prompt goes out per call; the raw completion text comes
// back. Implementations must return an error wrapping ErrRemoteUnavailable
// for any transport, auth or timeout failure.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const classifierSystemPrompt = "You are an international trade classification and customs duty expert. " +
	"Answer with valid JSON when the request asks for JSON, without markdown fences."

// OpenAIGateway calls the remote model through the OpenAI-compatible chat
// completion API.
type OpenAIGateway struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// GatewayConfig holds remote model parameters. A zero Timeout leaves call
// deadlines entirely to the caller's context.
type GatewayConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// NewOpenAIGateway creates a gateway against the configured endpoint.
// An empty API key yields a gateway that fails every call with
// ErrNotConfigured, which callers treat like any other unavailability.
func NewOpenAIGateway(cfg GatewayConfig, logger *zap.Logger) *OpenAIGateway {
	var client *openai.Client
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}

	return &OpenAIGateway{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Complete sends one prompt and returns the raw completion text. The
// configured timeout bounds each call on top of any caller deadline.
func (g *OpenAIGateway) Complete(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: %w", ErrRemoteUnavailable, ErrNotConfigured)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifierSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		g.logger.Warn("Remote completion failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrRemoteUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

// remoteClassification is the JSON schema expected from HS code prompts.
type remoteClassification struct {
	HSCode           string   `json:"hsCode"`
	Description      string   `json:"description"`
	DutyRate         *float64 `json:"dutyRate"`
	Confidence       *int     `json:"confidence"`
	Restrictions     []string `json:"restrictions"`
	AlternativeCodes []string `json:"alternativeCodes"`
}

// remoteTaxCalculation is one per-country entry of a tax response.
type remoteTaxCalculation struct {
	Country     string           `json:"country"`
	DutyRate    *decimal.Decimal `json:"dutyRate"`
	VATRate     *decimal.Decimal `json:"vatRate"`
	DutyAmount  *decimal.Decimal `json:"dutyAmount"`
	VATAmount   *decimal.Decimal `json:"vatAmount"`
	TotalTax    *decimal.Decimal `json:"totalTax"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

type remoteTaxResponse struct {
	TaxCalculations []remoteTaxCalculation `json:"taxCalculations"`
}

// remoteAnalysis is the JSON schema expected from CSV product analysis.
type remoteAnalysis struct {
	Category       string           `json:"category"`
	HSCode         string           `json:"hsCode"`
	Confidence     *int             `json:"confidence"`
	SuggestedPrice *decimal.Decimal `json:"suggestedPrice"`
	MarketDemand   string           `json:"marketDemand"`
	Seasonality    string           `json:"seasonality"`
	ComplianceRisk string           `json:"complianceRisk"`
	Description    string           `json:"description"`
}

// decodeRemote extracts a JSON object from completion text and decodes it
// into out. Models wrap JSON in prose or markdown fences often enough that
// a plain Unmarshal is tried first and a brace-scanning extraction second.
func decodeRemote(content string, out any) error {
	if err := json.Unmarshal([]byte(content), out); err == nil {
		return nil
	}

	start := findJSONStart(content)
	if start < 0 {
		return fmt.Errorf("%w: %w: no JSON object in response", ErrRemoteUnavailable, ErrMalformedResponse)
	}
	end := findJSONEnd(content, start)
	if end <= start {
		return fmt.Errorf("%w: %w: unterminated JSON object", ErrRemoteUnavailable, ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(content[start:end]), out); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrRemoteUnavailable, ErrMalformedResponse, err)
	}
	return nil
}

// findJSONStart locates the first '{' in the content.
func findJSONStart(content string) int {
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			return i
		}
	}
	return -1
}

// findJSONEnd finds the index just past the matching closing brace,
// skipping braces inside string literals.
func findJSONEnd(content string, start int) int {
	if start < 0 || start >= len(content) || content[start] != '{' {
		return -1
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(content); i++ {
		char := content[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return i + 1
			}
		}
	}

	return -1
}

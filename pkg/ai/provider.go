// Package ai wraps the text-generation SDKs behind a single Provider.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("AI provider api key is empty")
	ErrTimeout       = errors.New("AI provider timed out")
	ErrQuotaExceeded = errors.New("AI provider quota exceeded")
	ErrProvider      = errors.New("AI provider request failed")
	ErrEmptyResponse = errors.New("AI provider returned no text")
)

type Prompt struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

type Provider interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
	Name() string
}

type Config struct {
	Provider string // openai or anthropic
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// NewProvider builds the provider named by cfg.Provider. Requests are never
// retried by the SDKs; the client is expected to resubmit.
func NewProvider(cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	case "openai", "":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}

// classify maps a failed SDK call onto the package errors. status is the
// HTTP status reported by the SDK, or zero when the call never got a response.
func classify(ctx context.Context, err error, status int, message string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	lower := strings.ToLower(message)
	if status == 429 || strings.Contains(lower, "resource exhausted") || strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "quota") {
		return fmt.Errorf("%w: status %d", ErrQuotaExceeded, status)
	}
	if status != 0 {
		return fmt.Errorf("%w: status %d", ErrProvider, status)
	}
	return fmt.Errorf("%w: %v", ErrProvider, err)
}

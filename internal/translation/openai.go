package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const maxRetries = 3

// OpenAIClient translates payloads through the OpenAI chat completions
// API. A circuit breaker opens after repeated consecutive failures so a
// dead backend degrades chunks quickly instead of stalling the run on
// retries.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIClient creates a translation backend for the given API key
// and model. The key is injected here once; nothing downstream reads
// the environment.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		breaker: breaker,
	}
}

// TranslateText sends one payload for translation and returns the raw
// translated payload. Transient failures are retried with linear
// backoff; authentication, quota and open-breaker errors fail fast.
func (oc *OpenAIClient) TranslateText(ctx context.Context, payload, sourceLang, targetLang string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: oc.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: payload},
		},
		Temperature: 0.3,
	}

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*2) * time.Second
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying translation request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := oc.breaker.Execute(func() (interface{}, error) {
			text, err := oc.complete(ctx, req)
			if err != nil {
				return nil, err
			}
			return text, nil
		})
		if err == nil {
			return result.(string), nil
		}
		lastErr = err

		// Don't retry on context cancellation.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("translation failed after %d attempts: %w", maxRetries, lastErr)
}

func (oc *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := oc.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response: no choices")
	}

	log.Debug().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("output_tokens", resp.Usage.CompletionTokens).
		Msg("Translation request complete")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// isRetryable reports whether an error is worth another attempt. Rate
// limits and server-side failures are transient; authentication, quota
// exhaustion and an open circuit breaker are not.
func isRetryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return false
		}
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}

	// Transport-level failures (connection reset, DNS) arrive as plain errors.
	return true
}

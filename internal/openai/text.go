// Package openai provides REST clients for the OpenAI chat-completion and
// image-generation endpoints. Direct HTTP calls keep the request/response
// surface small: one user message in, one completion or one embedded image out.
//
// Failures are reported as *Error with a Kind the caller can branch on; the
// clients never retry.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultBaseURL is the OpenAI API base URL.
const defaultBaseURL = "https://api.openai.com/v1"

// DefaultChatModel is used when no text model is configured.
const DefaultChatModel = "gpt-4o-mini"

// chatTimeout bounds one completion call.
const chatTimeout = 60 * time.Second

// chatTemperature is fixed for brand-voice output.
const chatTemperature = 0.7

// TextClient calls the chat-completions endpoint.
type TextClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewTextClient creates a text-completion client. An empty model selects
// DefaultChatModel.
func NewTextClient(apiKey, model string) *TextClient {
	if model == "" {
		model = DefaultChatModel
	}
	return &TextClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: chatTimeout,
		},
	}
}

// --- chat-completions request/response types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends one user message and returns the trimmed completion text.
func (c *TextClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}

	log.Debug().
		Str("model", c.model).
		Int("prompt_length", len(prompt)).
		Msg("Sending chat completion request")
	startTime := time.Now()

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, genErr := c.post(ctx, "/chat/completions", body)
	if genErr != nil {
		return "", genErr
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &Error{Kind: ErrMalformedResponse, Op: "chat", Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return "", &Error{Kind: ErrMalformedResponse, Op: "chat", Err: fmt.Errorf("response has no choices")}
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Kind: ErrMalformedResponse, Op: "chat", Err: fmt.Errorf("completion content is empty")}
	}

	log.Debug().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Chat completion received")

	return text, nil
}

// post sends a JSON body to the endpoint and returns the 2xx response body.
// Non-2xx statuses and transport failures come back as *Error.
func (c *TextClient) post(ctx context.Context, path string, body []byte) ([]byte, *Error) {
	return postJSON(ctx, c.httpClient, "chat", c.baseURL+path, c.apiKey, body)
}

// postJSON is the shared request helper for both clients.
func postJSON(ctx context.Context, client *http.Client, op, url, apiKey string, body []byte) ([]byte, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("body", truncateString(string(respBody), 500)).
			Msg("OpenAI API returned error")
		return nil, &Error{
			Kind:   ErrUpstream,
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncateString(string(respBody), 200)),
		}
	}

	return respBody, nil
}

// truncateString truncates a string to maxLen, appending "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/internal/logger"

	"github.com/sirupsen/logrus"
)

const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 3000
)

// Client dispatches analysis prompts to a chat-completion endpoint.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a chat-completion client. An empty apiKey disables the
// client: RunAnalysis short-circuits without attempting a call.
func NewClient(apiURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatCompletionResponse covers the recognized envelope shapes from
// different providers: the standard choices list, a flat message object,
// and a flat content string.
type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Message *chatMessage `json:"message"`
	Content *string      `json:"content"`
}

// RunAnalysis sends the prompt and returns the assistant's raw text.
// Analysis is best-effort: a missing credential returns a no_credential
// error the orchestrator treats as a silent skip, and transport or
// envelope failures are typed errors, never panics.
func (c *Client) RunAnalysis(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.NewNoCredentialError()
	}

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode LLM request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewInternalError("failed to build LLM request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logger.WithFields(logrus.Fields{
		"url":           c.apiURL,
		"model":         c.model,
		"prompt_length": len(prompt),
	}).Debug("Sending LLM analysis request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewLLMTransportError("LLM request timed out", err)
		}
		return "", apperrors.NewLLMTransportError("LLM request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewLLMTransportError("failed to read LLM response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewLLMTransportError(
			fmt.Sprintf("LLM API returned status %d", resp.StatusCode), nil)
	}

	content, err := extractAssistantText(raw)
	if err != nil {
		return "", err
	}

	logger.WithField("content_length", len(content)).Debug("LLM analysis response received")
	return content, nil
}

// extractAssistantText pulls the generated text out of whichever envelope
// shape is present, in precedence order: choices list, flat message, flat
// content. Anything else is an unrecognized response.
func extractAssistantText(raw []byte) (string, error) {
	var envelope chatCompletionResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", apperrors.NewLLMResponseError("LLM response is not valid JSON", err)
	}

	switch {
	case len(envelope.Choices) > 0:
		return envelope.Choices[0].Message.Content, nil
	case envelope.Message != nil:
		return envelope.Message.Content, nil
	case envelope.Content != nil:
		return *envelope.Content, nil
	default:
		return "", apperrors.NewLLMResponseError("unrecognized LLM response format", nil)
	}
}

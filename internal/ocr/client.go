package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/internal/logger"

	"github.com/sirupsen/logrus"
)

// extractionPrompt is the fixed instruction sent with every image.
const extractionPrompt = "<image>\nFree OCR. Extract all text content."

// Client runs OCR over screenshot bytes. On success the extracted text may
// legitimately be empty; absence of text is distinct from failure.
type Client interface {
	RunOCR(ctx context.Context, image []byte) (string, error)
}

type ocrRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
}

type ocrResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error"`
}

// RemoteClient calls an OCR inference service over HTTP.
type RemoteClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewRemoteClient creates a client for the OCR inference endpoint.
// The HTTP client carries no timeout: OCR inference may be long-running
// and the caller accepts an unbounded wait.
func NewRemoteClient(endpoint string) *RemoteClient {
	return &RemoteClient{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

// RunOCR submits the image and extraction prompt to the OCR service and
// returns the extracted text. All failure modes come back as typed errors;
// the orchestrator decides what they mean for the pipeline.
func (c *RemoteClient) RunOCR(ctx context.Context, image []byte) (string, error) {
	payload := ocrRequest{
		Image:  base64.StdEncoding.EncodeToString(image),
		Prompt: extractionPrompt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode OCR request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewInternalError("failed to build OCR request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.WithFields(logrus.Fields{
		"endpoint":    c.endpoint,
		"image_bytes": len(image),
	}).Debug("Sending OCR request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewOCRUnavailableError(
			fmt.Sprintf("cannot connect to OCR server at %s", c.endpoint), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewOCRFailureError("failed to read OCR response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewOCRFailureError(
			fmt.Sprintf("OCR server returned status %d", resp.StatusCode), nil)
	}

	var result ocrResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", apperrors.NewOCRFailureError("OCR response is not valid JSON", err)
	}

	if !result.Success {
		detail := result.Error
		if detail == "" {
			detail = "unknown error"
		}
		return "", apperrors.NewOCRFailureError(
			fmt.Sprintf("OCR processing failed: %s", detail), nil)
	}

	// An empty text field on success is still a success.
	logger.WithField("text_length", len(result.Text)).Debug("OCR completed")
	return result.Text, nil
}

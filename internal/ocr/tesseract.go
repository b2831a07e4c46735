package ocr

import (
	"context"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/internal/logger"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient runs OCR locally through the Tesseract engine. It is a
// fallback for deployments without a DeepSeek-OCR server; screenshot text
// quality is lower than the remote model but the contract is identical.
type TesseractClient struct {
	languages []string
}

// NewTesseractClient creates a local Tesseract-backed OCR client.
// With no languages given it defaults to English plus simplified Chinese,
// matching the pages the capture pipeline mostly sees.
func NewTesseractClient(languages ...string) *TesseractClient {
	if len(languages) == 0 {
		languages = []string{"eng", "chi_sim"}
	}
	return &TesseractClient{languages: languages}
}

// RunOCR extracts text from the screenshot bytes.
func (c *TesseractClient) RunOCR(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewOCRFailureError("OCR cancelled", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(c.languages...); err != nil {
		return "", apperrors.NewOCRFailureError("failed to configure Tesseract languages", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", apperrors.NewOCRFailureError("Tesseract rejected image data", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", apperrors.NewOCRFailureError("Tesseract OCR failed", err)
	}

	logger.WithField("text_length", len(text)).Debug("Local OCR completed")
	return text, nil
}
